package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceSettingsRepository struct {
	db *database.DB
}

func NewAttendanceSettingsRepository(db *database.DB) attendance.AttendanceSettingsRepository {
	return &attendanceSettingsRepository{db: db}
}

const attendanceSettingsColumns = `id, company_id, late_threshold_minutes, standard_working_hours,
	full_day_min_hours, half_day_min_hours, short_leave_min_hours, created_at, updated_at`

func scanAttendanceSettings(row pgx.Row) (attendance.AttendanceSettings, error) {
	var s attendance.AttendanceSettings
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.LateThresholdMinutes, &s.StandardWorkingHours,
		&s.FullDayMinHours, &s.HalfDayMinHours, &s.ShortLeaveMinHours,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *attendanceSettingsRepository) GetSettings(ctx context.Context, companyID string) (attendance.AttendanceSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceSettingsColumns + ` FROM attendance_settings WHERE company_id = $1`

	s, err := scanAttendanceSettings(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceSettings{}, attendance.ErrAttendanceSettingsNotFound
		}
		return attendance.AttendanceSettings{}, fmt.Errorf("failed to get attendance settings: %w", err)
	}

	return s, nil
}

func (r *attendanceSettingsRepository) UpsertSettings(ctx context.Context, settings attendance.AttendanceSettings) (attendance.AttendanceSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_settings (
			company_id, late_threshold_minutes, standard_working_hours,
			full_day_min_hours, half_day_min_hours, short_leave_min_hours
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id) DO UPDATE SET
			late_threshold_minutes = EXCLUDED.late_threshold_minutes,
			standard_working_hours = EXCLUDED.standard_working_hours,
			full_day_min_hours = EXCLUDED.full_day_min_hours,
			half_day_min_hours = EXCLUDED.half_day_min_hours,
			short_leave_min_hours = EXCLUDED.short_leave_min_hours,
			updated_at = NOW()
		RETURNING ` + attendanceSettingsColumns

	s, err := scanAttendanceSettings(q.QueryRow(ctx, query,
		settings.CompanyID, settings.LateThresholdMinutes, settings.StandardWorkingHours,
		settings.FullDayMinHours, settings.HalfDayMinHours, settings.ShortLeaveMinHours,
	))
	if err != nil {
		return attendance.AttendanceSettings{}, fmt.Errorf("failed to upsert attendance settings: %w", err)
	}

	return s, nil
}
