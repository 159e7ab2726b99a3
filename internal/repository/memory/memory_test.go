package memory

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceSettingsRepository(t *testing.T) {
	repo := NewAttendanceSettingsRepository()
	ctx := context.Background()

	_, err := repo.GetSettings(ctx, "company-1")
	assert.ErrorIs(t, err, attendance.ErrAttendanceSettingsNotFound)

	created, err := repo.UpsertSettings(ctx, attendance.AttendanceSettings{
		CompanyID:      "company-1",
		ScheduleConfig: attendance.ScheduleConfig{LateThresholdMinutes: 10, StandardWorkingHours: 8},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	created.LateThresholdMinutes = 20
	updated, err := repo.UpsertSettings(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := repo.GetSettings(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.LateThresholdMinutes)
}

func TestPayrollRepository_CycleConfigs(t *testing.T) {
	repo := NewPayrollRepository()
	ctx := context.Background()

	_, err := repo.GetCycleConfig(ctx, "company-1", "")
	assert.ErrorIs(t, err, payroll.ErrCycleConfigNotFound)

	day := 25
	_, err = repo.UpsertCycleConfig(ctx, payroll.CycleAssignment{
		CompanyID:          "company-1",
		EmployeeID:         "emp-1",
		PayrollCycleConfig: payroll.PayrollCycleConfig{Mode: payroll.CycleModeCustom, CycleStartDay: &day},
	})
	require.NoError(t, err)

	// employee override does not leak into the company default
	_, err = repo.GetCycleConfig(ctx, "company-1", "")
	assert.ErrorIs(t, err, payroll.ErrCycleConfigNotFound)

	got, err := repo.GetCycleConfig(ctx, "company-1", "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 25, *got.CycleStartDay)

	_, err = repo.GetCycleConfig(ctx, "company-2", "emp-1")
	assert.ErrorIs(t, err, payroll.ErrCycleConfigNotFound)
}

func TestPayrollRepository_TaxBrackets(t *testing.T) {
	repo := NewPayrollRepository()
	ctx := context.Background()

	_, err := repo.GetTaxBrackets(ctx, "company-1")
	assert.ErrorIs(t, err, payroll.ErrTaxBracketsNotFound)

	input := []payroll.TaxBracket{
		{Threshold: decimal.Zero, Rate: decimal.Zero},
		{Threshold: decimal.NewFromInt(100000), Rate: decimal.RequireFromString("0.06")},
	}
	_, err = repo.ReplaceTaxBrackets(ctx, "company-1", input)
	require.NoError(t, err)

	// callers cannot mutate stored brackets
	input[1].Rate = decimal.NewFromInt(1)

	got, err := repo.GetTaxBrackets(ctx, "company-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[1].Rate.Equal(decimal.RequireFromString("0.06")))
}

func TestPayrollRepository_Runs(t *testing.T) {
	repo := NewPayrollRepository()
	ctx := context.Background()

	run, err := repo.CreateRun(ctx, payroll.PayrollRun{CompanyID: "company-1", EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := repo.GetRunByID(ctx, run.ID, "company-1")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", got.EmployeeID)

	_, err = repo.GetRunByID(ctx, run.ID, "company-2")
	assert.ErrorIs(t, err, payroll.ErrPayrollRunNotFound)
}
