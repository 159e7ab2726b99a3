package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/google/uuid"
)

type attendanceSettingsRepository struct {
	mu       sync.RWMutex
	settings map[string]attendance.AttendanceSettings
}

func NewAttendanceSettingsRepository() attendance.AttendanceSettingsRepository {
	return &attendanceSettingsRepository{settings: make(map[string]attendance.AttendanceSettings)}
}

func (r *attendanceSettingsRepository) GetSettings(ctx context.Context, companyID string) (attendance.AttendanceSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[companyID]
	if !ok {
		return attendance.AttendanceSettings{}, attendance.ErrAttendanceSettingsNotFound
	}
	return s, nil
}

func (r *attendanceSettingsRepository) UpsertSettings(ctx context.Context, settings attendance.AttendanceSettings) (attendance.AttendanceSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.settings[settings.CompanyID]; ok {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
	} else {
		settings.ID = uuid.NewString()
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	r.settings[settings.CompanyID] = settings
	return settings, nil
}
