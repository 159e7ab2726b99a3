package timeofday

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "Hour and minute", input: "09:20", want: "09:20"},
		{name: "Single digit hour", input: "9:05", want: "09:05"},
		{name: "With seconds", input: "17:00:30", want: "17:00:30"},
		{name: "Zero seconds collapse", input: "17:00:00", want: "17:00"},
		{name: "Surrounding spaces", input: " 08:00 ", want: "08:00"},
		{name: "Out of range hour", input: "24:00", wantErr: true},
		{name: "Garbage", input: "nine", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSub(t *testing.T) {
	in := MustParse("09:00")
	out := MustParse("17:30")

	assert.Equal(t, 8*time.Hour+30*time.Minute, out.Sub(in))
	assert.Equal(t, -(8*time.Hour + 30*time.Minute), in.Sub(out))
	assert.True(t, in.Before(out))
	assert.True(t, out.After(in))
	assert.True(t, in.Equal(MustParse("09:00:00")))
}

func TestMinutes(t *testing.T) {
	assert.Equal(t, 560.0, MustParse("09:20").Minutes())
	assert.Equal(t, 0.5, MustParse("00:00:30").Minutes())
}

func TestOn(t *testing.T) {
	date := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	got := MustParse("08:45").On(date)
	assert.Equal(t, time.Date(2026, time.January, 10, 8, 45, 0, 0, time.UTC), got)
	assert.Equal(t, "08:45", FromTime(got).String())
}

func TestJSON(t *testing.T) {
	type payload struct {
		CheckIn  TimeOfDay  `json:"check_in"`
		CheckOut *TimeOfDay `json:"check_out,omitempty"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"check_in":"09:10"}`), &p))
	assert.Equal(t, "09:10", p.CheckIn.String())
	assert.Nil(t, p.CheckOut)

	out, err := json.Marshal(payload{CheckIn: MustParse("07:05"), CheckOut: Ptr(MustParse("16:00"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"check_in":"07:05","check_out":"16:00"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"check_in":"25:00"}`), &p))
}

func TestParsePtr(t *testing.T) {
	got, err := ParsePtr(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	empty := "  "
	got, err = ParsePtr(&empty)
	require.NoError(t, err)
	assert.Nil(t, got)

	value := "10:15"
	got, err = ParsePtr(&value)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "10:15", got.String())

	bad := "10h15"
	_, err = ParsePtr(&bad)
	assert.Error(t, err)
}
