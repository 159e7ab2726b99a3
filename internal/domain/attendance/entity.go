package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/calculation"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/timeofday"
)

// ArrivalStatus enum
type ArrivalStatus string

const (
	ArrivalOnTime ArrivalStatus = "on_time"
	ArrivalLate   ArrivalStatus = "late"
	ArrivalAbsent ArrivalStatus = "absent"
)

// WorkDuration enum. The zero value means the day was not classified.
type WorkDuration string

const (
	DurationFullDay    WorkDuration = "full_day"
	DurationHalfDay    WorkDuration = "half_day"
	DurationShortLeave WorkDuration = "short_leave"
	DurationOnLeave    WorkDuration = "on_leave"
)

// AttendanceInput - one employee, one calendar date
type AttendanceInput struct {
	EmployeeID         string
	Date               time.Time
	CheckIn            *timeofday.TimeOfDay
	CheckOut           *timeofday.TimeOfDay
	ScheduledIn        timeofday.TimeOfDay
	ScheduledOut       timeofday.TimeOfDay
	BreakDurationHours float64

	// ClassifyDuration asks for a work duration on this record even when no
	// hours were worked.
	ClassifyDuration bool
}

// ScheduleConfig - thresholds used to classify a day of attendance
type ScheduleConfig struct {
	LateThresholdMinutes int
	StandardWorkingHours float64
	FullDayMinHours      float64
	HalfDayMinHours      float64
	ShortLeaveMinHours   float64

	// ClassifyDuration forces a work duration even when no hours were worked.
	ClassifyDuration bool
}

// Validate checks the structural invariants of the schedule configuration.
func (c ScheduleConfig) Validate() error {
	switch {
	case c.LateThresholdMinutes < 0:
		return calculation.NewConfigurationError("late_threshold_minutes", "must be non-negative")
	case c.StandardWorkingHours <= 0:
		return calculation.NewConfigurationError("standard_working_hours", "must be greater than zero")
	case c.FullDayMinHours < 0 || c.HalfDayMinHours < 0 || c.ShortLeaveMinHours < 0:
		return calculation.NewConfigurationError("duration_thresholds", "must be non-negative")
	case c.FullDayMinHours < c.HalfDayMinHours || c.HalfDayMinHours < c.ShortLeaveMinHours:
		return calculation.NewConfigurationError("duration_thresholds", "must be ordered full_day >= half_day >= short_leave")
	}
	return nil
}

// AttendanceResult - derived from an AttendanceInput, never persisted
type AttendanceResult struct {
	EmployeeID        string
	Date              time.Time
	CheckIn           *timeofday.TimeOfDay
	CheckOut          *timeofday.TimeOfDay
	WorkedHours       float64
	OvertimeHours     float64
	LateMinutes       int
	EarlyLeaveMinutes int
	ArrivalStatus     ArrivalStatus
	WorkDuration      WorkDuration
	ActionRequired    bool
}

// AttendanceSettings - company default schedule configuration
type AttendanceSettings struct {
	ID        string
	CompanyID string
	ScheduleConfig
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttendanceSummary - aggregate over a batch of results
type AttendanceSummary struct {
	TotalRecords       int
	OnTime             int
	Late               int
	Absent             int
	FullDay            int
	HalfDay            int
	ShortLeave         int
	OnLeave            int
	TotalWorkedHours   float64
	TotalOvertimeHours float64
	TotalLateMinutes   int
}
