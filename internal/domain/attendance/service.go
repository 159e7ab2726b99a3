package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance time resolution
type AttendanceService interface {
	// Resolve computes worked hours, lateness and classification for one record
	Resolve(ctx context.Context, companyID string, req ResolveAttendanceRequest) (AttendanceResultResponse, error)

	// ResolveBatch resolves many records with the same company configuration
	ResolveBatch(ctx context.Context, companyID string, req ResolveBatchRequest) (ResolveBatchResponse, error)

	// ExportBatch resolves many records and renders them as an XLSX workbook
	ExportBatch(ctx context.Context, companyID string, req ResolveBatchRequest) ([]byte, error)

	// ResolveInputs is the domain-level entry used by the payroll run
	ResolveInputs(ctx context.Context, companyID string, inputs []AttendanceInput) ([]AttendanceResult, AttendanceSummary, error)

	GetSettings(ctx context.Context, companyID string) (AttendanceSettingsResponse, error)
	UpdateSettings(ctx context.Context, companyID string, req UpdateAttendanceSettingsRequest) (AttendanceSettingsResponse, error)
}
