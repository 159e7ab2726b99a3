package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceSettingsNotFound = errors.New("attendance settings not found")
	ErrEmptyBatch                 = errors.New("at least one attendance record is required")
	ErrBatchTooLarge              = errors.New("too many attendance records in one batch")
)
