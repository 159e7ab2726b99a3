package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	payrollService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollJobs_RefreshSettings(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPayrollRepository()
	attendanceSvc := attendanceService.NewAttendanceService(memory.NewAttendanceSettingsRepository(), attendance.ScheduleConfig{
		LateThresholdMinutes: 15,
		StandardWorkingHours: 8,
	})
	defaults := payroll.PayrollSettings{
		StandardMonthlyHours: decimal.NewFromInt(200),
		StandardDailyHours:   decimal.NewFromInt(8),
	}
	svc := payrollService.NewPayrollService(repo, attendanceSvc, defaults, nil)

	stored := defaults
	stored.CompanyID = "company-1"
	stored.StandardMonthlyHours = decimal.NewFromInt(173)
	_, err := repo.UpsertSettings(ctx, stored)
	require.NoError(t, err)

	_, err = svc.GetSettings(ctx, "company-1")
	require.NoError(t, err)

	stored.StandardMonthlyHours = decimal.NewFromInt(160)
	_, err = repo.UpsertSettings(ctx, stored)
	require.NoError(t, err)

	scheduler := NewScheduler(ctx)
	NewPayrollJobs(svc, time.Minute).RegisterJobs(scheduler)
	assert.Equal(t, []string{"refresh_payroll_settings"}, scheduler.Jobs())

	require.NoError(t, scheduler.RunOnce(ctx))

	settings, err := svc.GetSettings(ctx, "company-1")
	require.NoError(t, err)
	assert.False(t, settings.IsDefault)
	assert.True(t, settings.StandardMonthlyHours.Equal(decimal.NewFromInt(160)))
}
