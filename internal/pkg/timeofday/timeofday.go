package timeofday

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time with no date and no timezone.
// Values are stored as seconds since midnight.
type TimeOfDay struct {
	seconds int
}

// New builds a TimeOfDay from hour, minute and second components.
func New(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %02d:%02d:%02d", hour, minute, second)
	}
	return TimeOfDay{seconds: hour*3600 + minute*60 + second}, nil
}

// Parse accepts "15:04" or "15:04:05".
func Parse(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
	}
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:MM or HH:MM:SS", s)
	}
	return New(t.Hour(), t.Minute(), t.Second())
}

// MustParse is Parse for constants and tests.
func MustParse(s string) TimeOfDay {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FromTime takes the wall-clock part of t in its own location.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{seconds: t.Hour()*3600 + t.Minute()*60 + t.Second()}
}

func (t TimeOfDay) Hour() int   { return t.seconds / 3600 }
func (t TimeOfDay) Minute() int { return (t.seconds % 3600) / 60 }
func (t TimeOfDay) Second() int { return t.seconds % 60 }

// Minutes returns the minutes elapsed since midnight, including fractional seconds.
func (t TimeOfDay) Minutes() float64 {
	return float64(t.seconds) / 60
}

// Sub returns t-u on the same day. The result is negative when u is later than t.
func (t TimeOfDay) Sub(u TimeOfDay) time.Duration {
	return time.Duration(t.seconds-u.seconds) * time.Second
}

func (t TimeOfDay) Before(u TimeOfDay) bool { return t.seconds < u.seconds }
func (t TimeOfDay) After(u TimeOfDay) bool  { return t.seconds > u.seconds }
func (t TimeOfDay) Equal(u TimeOfDay) bool  { return t.seconds == u.seconds }

// On places t on the calendar date of d, in d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, d.Location())
}

func (t TimeOfDay) String() string {
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Ptr is a helper for optional check-in/check-out values.
func Ptr(t TimeOfDay) *TimeOfDay {
	return &t
}

// ParsePtr parses s into a pointer; an empty or nil string yields nil.
func ParsePtr(s *string) (*TimeOfDay, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := Parse(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
