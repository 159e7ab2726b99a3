package attendance

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/timeofday"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Attendance"
	summarySheet = "Summary"
)

var resultsHeader = []any{
	"Employee ID", "Date", "Check In", "Check Out",
	"Worked Hours", "Overtime Hours", "Late Minutes", "Early Leave Minutes",
	"Arrival Status", "Work Duration", "Action Required",
}

// ExportResults renders resolved attendance records and their summary as an
// XLSX workbook with one row per record.
func ExportResults(results []attendance.AttendanceResult, summary attendance.AttendanceSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &resultsHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			r.EmployeeID,
			r.Date.Format("2006-01-02"),
			optionalTime(r.CheckIn),
			optionalTime(r.CheckOut),
			r.WorkedHours,
			r.OvertimeHours,
			r.LateMinutes,
			r.EarlyLeaveMinutes,
			string(r.ArrivalStatus),
			string(r.WorkDuration),
			r.ActionRequired,
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summaryRows := [][]any{
		{"Total Records", summary.TotalRecords},
		{"On Time", summary.OnTime},
		{"Late", summary.Late},
		{"Absent", summary.Absent},
		{"Full Day", summary.FullDay},
		{"Half Day", summary.HalfDay},
		{"Short Leave", summary.ShortLeave},
		{"On Leave", summary.OnLeave},
		{"Total Worked Hours", summary.TotalWorkedHours},
		{"Total Overtime Hours", summary.TotalOvertimeHours},
		{"Total Late Minutes", summary.TotalLateMinutes},
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func optionalTime(t *timeofday.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}
