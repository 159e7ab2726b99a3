package attendance

import "context"

// AttendanceSettingsRepository stores the company default schedule configuration.
// All methods are scoped by companyID.
type AttendanceSettingsRepository interface {
	// GetSettings returns ErrAttendanceSettingsNotFound when the company has none stored
	GetSettings(ctx context.Context, companyID string) (AttendanceSettings, error)

	UpsertSettings(ctx context.Context, settings AttendanceSettings) (AttendanceSettings, error)
}
