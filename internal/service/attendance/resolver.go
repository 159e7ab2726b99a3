package attendance

import (
	"math"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
)

// ResolveAttendance computes worked hours, overtime, lateness and the arrival and
// duration classification for one attendance record. Check-in and check-out are
// wall-clock times on the same day. Missing times never fail: they yield zero
// hours and, without a check-in, an absent status. Only an invalid config errors.
func ResolveAttendance(input attendance.AttendanceInput, config attendance.ScheduleConfig) (attendance.AttendanceResult, error) {
	if err := config.Validate(); err != nil {
		return attendance.AttendanceResult{}, err
	}

	result := attendance.AttendanceResult{
		EmployeeID:    input.EmployeeID,
		Date:          input.Date,
		CheckIn:       input.CheckIn,
		CheckOut:      input.CheckOut,
		ArrivalStatus: attendance.ArrivalAbsent,
	}

	elapsed := elapsedHours(input)
	result.WorkedHours = math.Max(0, elapsed-input.BreakDurationHours)
	result.OvertimeHours = math.Max(0, result.WorkedHours-config.StandardWorkingHours)

	if input.CheckIn != nil {
		lateBy := input.CheckIn.Sub(input.ScheduledIn).Minutes()
		if lateBy > 0 {
			result.LateMinutes = int(math.Floor(lateBy))
		}
		if lateBy > float64(config.LateThresholdMinutes) {
			result.ArrivalStatus = attendance.ArrivalLate
		} else {
			result.ArrivalStatus = attendance.ArrivalOnTime
		}
	}

	if input.CheckOut != nil {
		leftEarlyBy := input.ScheduledOut.Sub(*input.CheckOut).Minutes()
		if leftEarlyBy > 0 {
			result.EarlyLeaveMinutes = int(math.Floor(leftEarlyBy))
		}
	}

	if result.WorkedHours > 0 || config.ClassifyDuration || input.ClassifyDuration {
		result.WorkDuration = ClassifyDuration(result.WorkedHours, config)
		result.ActionRequired = result.WorkDuration == attendance.DurationOnLeave
	}

	return result, nil
}

// ClassifyDuration maps worked hours onto the configured thresholds, checking the
// highest category first so that a value on a boundary takes the higher category.
func ClassifyDuration(workedHours float64, config attendance.ScheduleConfig) attendance.WorkDuration {
	switch {
	case workedHours >= config.FullDayMinHours:
		return attendance.DurationFullDay
	case workedHours >= config.HalfDayMinHours:
		return attendance.DurationHalfDay
	case workedHours >= config.ShortLeaveMinHours:
		return attendance.DurationShortLeave
	default:
		return attendance.DurationOnLeave
	}
}

// elapsedHours is check-out minus check-in in hours, clamped at zero.
func elapsedHours(input attendance.AttendanceInput) float64 {
	if input.CheckIn == nil || input.CheckOut == nil {
		return 0
	}
	hours := input.CheckOut.Sub(*input.CheckIn).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

// Summarize aggregates a batch of resolved records.
func Summarize(results []attendance.AttendanceResult) attendance.AttendanceSummary {
	summary := attendance.AttendanceSummary{TotalRecords: len(results)}

	for _, r := range results {
		switch r.ArrivalStatus {
		case attendance.ArrivalOnTime:
			summary.OnTime++
		case attendance.ArrivalLate:
			summary.Late++
		case attendance.ArrivalAbsent:
			summary.Absent++
		}

		switch r.WorkDuration {
		case attendance.DurationFullDay:
			summary.FullDay++
		case attendance.DurationHalfDay:
			summary.HalfDay++
		case attendance.DurationShortLeave:
			summary.ShortLeave++
		case attendance.DurationOnLeave:
			summary.OnLeave++
		}

		summary.TotalWorkedHours += r.WorkedHours
		summary.TotalOvertimeHours += r.OvertimeHours
		summary.TotalLateMinutes += r.LateMinutes
	}

	return summary
}
