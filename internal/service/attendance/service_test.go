package attendance

import (
	"bytes"
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/calculation"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testCompanyID = "company-1"

func strPtr(s string) *string { return &s }

func newTestService() attendance.AttendanceService {
	return NewAttendanceService(memory.NewAttendanceSettingsRepository(), testScheduleConfig())
}

func TestAttendanceService_Resolve(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("Late arrival", func(t *testing.T) {
		resp, err := svc.Resolve(ctx, testCompanyID, attendance.ResolveAttendanceRequest{
			EmployeeID:         "emp-1",
			Date:               "2026-01-12",
			CheckIn:            strPtr("09:20"),
			CheckOut:           strPtr("17:00"),
			ScheduledIn:        "09:00",
			ScheduledOut:       "17:00",
			BreakDurationHours: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "late", resp.ArrivalStatus)
		assert.Equal(t, 20, resp.LateMinutes)
		assert.InDelta(t, 6.666666, resp.WorkedHours, 1e-5)
		require.NotNil(t, resp.WorkDuration)
		assert.Equal(t, "half_day", *resp.WorkDuration)
		assert.Equal(t, "09:20", *resp.CheckIn)
	})

	t.Run("Absent without classification", func(t *testing.T) {
		resp, err := svc.Resolve(ctx, testCompanyID, attendance.ResolveAttendanceRequest{
			Date:         "2026-01-12",
			ScheduledIn:  "09:00",
			ScheduledOut: "17:00",
		})
		require.NoError(t, err)
		assert.Equal(t, "absent", resp.ArrivalStatus)
		assert.Nil(t, resp.WorkDuration)
		assert.Nil(t, resp.CheckIn)
	})

	t.Run("Invalid request", func(t *testing.T) {
		_, err := svc.Resolve(ctx, testCompanyID, attendance.ResolveAttendanceRequest{
			Date:               "12/01/2026",
			CheckIn:            strPtr("25:00"),
			ScheduledIn:        "09:00",
			ScheduledOut:       "17:00",
			BreakDurationHours: -1,
		})
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Len(t, errs, 3)
	})
}

func TestAttendanceService_Settings(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	settings, err := svc.GetSettings(ctx, testCompanyID)
	require.NoError(t, err)
	assert.True(t, settings.IsDefault)
	assert.Equal(t, 15, settings.LateThresholdMinutes)

	threshold := 5
	updated, err := svc.UpdateSettings(ctx, testCompanyID, attendance.UpdateAttendanceSettingsRequest{
		LateThresholdMinutes: &threshold,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsDefault)
	assert.NotEmpty(t, updated.ID)
	assert.Equal(t, 5, updated.LateThresholdMinutes)
	assert.Equal(t, 8.0, updated.FullDayMinHours)

	// stored threshold now drives resolution
	resp, err := svc.Resolve(ctx, testCompanyID, attendance.ResolveAttendanceRequest{
		Date:         "2026-01-12",
		CheckIn:      strPtr("09:10"),
		CheckOut:     strPtr("17:00"),
		ScheduledIn:  "09:00",
		ScheduledOut: "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "late", resp.ArrivalStatus)

	// other companies still see defaults
	other, err := svc.GetSettings(ctx, "company-2")
	require.NoError(t, err)
	assert.True(t, other.IsDefault)
	assert.Equal(t, 15, other.LateThresholdMinutes)
}

func TestAttendanceService_UpdateSettingsRejectsUnorderedThresholds(t *testing.T) {
	svc := newTestService()

	half := 9.0
	_, err := svc.UpdateSettings(context.Background(), testCompanyID, attendance.UpdateAttendanceSettingsRequest{
		HalfDayMinHours: &half,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, calculation.ErrInvalidConfiguration)
}

func batchRequest() attendance.ResolveBatchRequest {
	return attendance.ResolveBatchRequest{
		Records: []attendance.ResolveAttendanceRequest{
			{EmployeeID: "emp-1", Date: "2026-01-12", CheckIn: strPtr("09:00"), CheckOut: strPtr("18:00"), ScheduledIn: "09:00", ScheduledOut: "17:00"},
			{EmployeeID: "emp-2", Date: "2026-01-12", CheckIn: strPtr("09:30"), CheckOut: strPtr("14:00"), ScheduledIn: "09:00", ScheduledOut: "17:00"},
			{EmployeeID: "emp-3", Date: "2026-01-12", ScheduledIn: "09:00", ScheduledOut: "17:00"},
		},
	}
}

func TestAttendanceService_ResolveBatch(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	resp, err := svc.ResolveBatch(ctx, testCompanyID, batchRequest())
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "emp-2", resp.Results[1].EmployeeID)
	assert.Equal(t, 3, resp.Summary.TotalRecords)
	assert.Equal(t, 1, resp.Summary.Late)
	assert.Equal(t, 1, resp.Summary.Absent)
	assert.InDelta(t, 1.0, resp.Summary.TotalOvertimeHours, 1e-9)

	t.Run("Empty batch", func(t *testing.T) {
		_, err := svc.ResolveBatch(ctx, testCompanyID, attendance.ResolveBatchRequest{})
		assert.ErrorIs(t, err, attendance.ErrEmptyBatch)
	})

	t.Run("Oversized batch", func(t *testing.T) {
		req := attendance.ResolveBatchRequest{Records: make([]attendance.ResolveAttendanceRequest, attendance.MaxBatchSize+1)}
		_, err := svc.ResolveBatch(ctx, testCompanyID, req)
		assert.ErrorIs(t, err, attendance.ErrBatchTooLarge)
	})

	t.Run("Field errors carry record index", func(t *testing.T) {
		req := batchRequest()
		req.Records[2].ScheduledIn = "9am"
		_, err := svc.ResolveBatch(ctx, testCompanyID, req)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		require.Len(t, errs, 1)
		assert.Equal(t, "records[2].scheduled_in", errs[0].Field)
	})

	t.Run("Classify duration on request", func(t *testing.T) {
		req := batchRequest()
		req.ClassifyDuration = true
		resp, err := svc.ResolveBatch(ctx, testCompanyID, req)
		require.NoError(t, err)
		require.NotNil(t, resp.Results[2].WorkDuration)
		assert.Equal(t, "on_leave", *resp.Results[2].WorkDuration)
		assert.True(t, resp.Results[2].ActionRequired)
		assert.Equal(t, 1, resp.Summary.OnLeave)
	})

	t.Run("Record flag classifies only its own record", func(t *testing.T) {
		absent := func(employeeID string, classify bool) attendance.ResolveAttendanceRequest {
			return attendance.ResolveAttendanceRequest{
				EmployeeID:       employeeID,
				Date:             "2026-01-05",
				ScheduledIn:      "09:00",
				ScheduledOut:     "17:00",
				ClassifyDuration: classify,
			}
		}
		req := attendance.ResolveBatchRequest{
			Records: []attendance.ResolveAttendanceRequest{absent("a", true), absent("b", false)},
		}

		resp, err := svc.ResolveBatch(ctx, testCompanyID, req)
		require.NoError(t, err)
		require.Len(t, resp.Results, 2)

		require.NotNil(t, resp.Results[0].WorkDuration)
		assert.Equal(t, "on_leave", *resp.Results[0].WorkDuration)
		assert.True(t, resp.Results[0].ActionRequired)

		assert.Nil(t, resp.Results[1].WorkDuration)
		assert.False(t, resp.Results[1].ActionRequired)
		assert.Equal(t, 1, resp.Summary.OnLeave)
	})
}

func TestAttendanceService_ExportBatch(t *testing.T) {
	svc := newTestService()

	data, err := svc.ExportBatch(context.Background(), testCompanyID, batchRequest())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Employee ID", rows[0][0])
	assert.Equal(t, "emp-2", rows[2][0])
	assert.Equal(t, "late", rows[2][8])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, "Total Records", summary[0][0])
	assert.Equal(t, "3", summary[0][1])
}
