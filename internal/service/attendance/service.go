package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
)

type AttendanceServiceImpl struct {
	settingsRepo attendance.AttendanceSettingsRepository
	defaults     attendance.ScheduleConfig
}

func NewAttendanceService(
	settingsRepo attendance.AttendanceSettingsRepository,
	defaults attendance.ScheduleConfig,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// scheduleConfig returns the stored company configuration, or the engine
// defaults when the company has none.
func (s *AttendanceServiceImpl) scheduleConfig(ctx context.Context, companyID string) (attendance.AttendanceSettings, bool, error) {
	settings, err := s.settingsRepo.GetSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceSettingsNotFound) {
			return attendance.AttendanceSettings{
				CompanyID:      companyID,
				ScheduleConfig: s.defaults,
			}, true, nil
		}
		return attendance.AttendanceSettings{}, false, fmt.Errorf("failed to get attendance settings: %w", err)
	}
	return settings, false, nil
}

// ========== RESOLVE ==========

// Resolve implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Resolve(ctx context.Context, companyID string, req attendance.ResolveAttendanceRequest) (attendance.AttendanceResultResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResultResponse{}, err
	}

	input, err := req.ToInput()
	if err != nil {
		return attendance.AttendanceResultResponse{}, err
	}

	settings, _, err := s.scheduleConfig(ctx, companyID)
	if err != nil {
		return attendance.AttendanceResultResponse{}, err
	}
	cfg := settings.ScheduleConfig
	cfg.ClassifyDuration = req.ClassifyDuration

	result, err := ResolveAttendance(input, cfg)
	if err != nil {
		return attendance.AttendanceResultResponse{}, err
	}

	return attendance.NewResultResponse(result), nil
}

// ResolveBatch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ResolveBatch(ctx context.Context, companyID string, req attendance.ResolveBatchRequest) (attendance.ResolveBatchResponse, error) {
	results, err := s.resolveBatch(ctx, companyID, req)
	if err != nil {
		return attendance.ResolveBatchResponse{}, err
	}

	return attendance.NewBatchResponse(results, Summarize(results)), nil
}

// ExportBatch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportBatch(ctx context.Context, companyID string, req attendance.ResolveBatchRequest) ([]byte, error) {
	results, err := s.resolveBatch(ctx, companyID, req)
	if err != nil {
		return nil, err
	}
	return ExportResults(results, Summarize(results))
}

func (s *AttendanceServiceImpl) resolveBatch(ctx context.Context, companyID string, req attendance.ResolveBatchRequest) ([]attendance.AttendanceResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inputs := make([]attendance.AttendanceInput, 0, len(req.Records))
	for i := range req.Records {
		input, err := req.Records[i].ToInput()
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		inputs = append(inputs, input)
	}

	settings, _, err := s.scheduleConfig(ctx, companyID)
	if err != nil {
		return nil, err
	}
	// batch-level flag applies to every record, record flags only to their own
	cfg := settings.ScheduleConfig
	cfg.ClassifyDuration = req.ClassifyDuration

	return resolveAll(inputs, cfg)
}

// ResolveInputs implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ResolveInputs(ctx context.Context, companyID string, inputs []attendance.AttendanceInput) ([]attendance.AttendanceResult, attendance.AttendanceSummary, error) {
	settings, _, err := s.scheduleConfig(ctx, companyID)
	if err != nil {
		return nil, attendance.AttendanceSummary{}, err
	}
	results, err := resolveAll(inputs, settings.ScheduleConfig)
	if err != nil {
		return nil, attendance.AttendanceSummary{}, err
	}
	return results, Summarize(results), nil
}

func resolveAll(inputs []attendance.AttendanceInput, cfg attendance.ScheduleConfig) ([]attendance.AttendanceResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]attendance.AttendanceResult, 0, len(inputs))
	for _, input := range inputs {
		result, err := ResolveAttendance(input, cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// ========== SETTINGS ==========

// GetSettings implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetSettings(ctx context.Context, companyID string) (attendance.AttendanceSettingsResponse, error) {
	settings, isDefault, err := s.scheduleConfig(ctx, companyID)
	if err != nil {
		return attendance.AttendanceSettingsResponse{}, err
	}
	return toSettingsResponse(settings, isDefault), nil
}

// UpdateSettings implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateSettings(ctx context.Context, companyID string, req attendance.UpdateAttendanceSettingsRequest) (attendance.AttendanceSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceSettingsResponse{}, err
	}

	current, _, err := s.scheduleConfig(ctx, companyID)
	if err != nil {
		return attendance.AttendanceSettingsResponse{}, err
	}

	current.ScheduleConfig = req.Apply(current.ScheduleConfig)
	current.ClassifyDuration = false
	if err := current.ScheduleConfig.Validate(); err != nil {
		return attendance.AttendanceSettingsResponse{}, err
	}

	updated, err := s.settingsRepo.UpsertSettings(ctx, current)
	if err != nil {
		return attendance.AttendanceSettingsResponse{}, fmt.Errorf("failed to update attendance settings: %w", err)
	}

	return toSettingsResponse(updated, false), nil
}

// ========== MAPPING ==========

func toSettingsResponse(s attendance.AttendanceSettings, isDefault bool) attendance.AttendanceSettingsResponse {
	return attendance.AttendanceSettingsResponse{
		ID:                   s.ID,
		CompanyID:            s.CompanyID,
		LateThresholdMinutes: s.LateThresholdMinutes,
		StandardWorkingHours: s.StandardWorkingHours,
		FullDayMinHours:      s.FullDayMinHours,
		HalfDayMinHours:      s.HalfDayMinHours,
		ShortLeaveMinHours:   s.ShortLeaveMinHours,
		IsDefault:            isDefault,
	}
}
