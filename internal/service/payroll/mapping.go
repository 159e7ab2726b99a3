package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

func toSettingsResponse(s payroll.PayrollSettings, isDefault bool) payroll.PayrollSettingsResponse {
	multipliers := make(map[string]decimal.Decimal, len(s.OvertimeMultipliers))
	for k, v := range s.OvertimeMultipliers {
		multipliers[string(k)] = v
	}
	taxMode := string(s.TaxMode)
	if s.TaxMode == payroll.TaxModeNone {
		taxMode = "none"
	}
	return payroll.PayrollSettingsResponse{
		ID:                   s.ID,
		CompanyID:            s.CompanyID,
		StandardMonthlyHours: s.StandardMonthlyHours,
		StandardDailyHours:   s.StandardDailyHours,
		OvertimeMultipliers:  multipliers,
		PerformanceBonusRate: s.PerformanceBonusRate,
		TaxMode:              taxMode,
		TaxRate:              s.TaxRate,
		ProvidentFundRate:    s.ProvidentFundRate,
		IsDefault:            isDefault,
	}
}

func toCycleConfigResponse(a payroll.CycleAssignment, source payroll.CycleConfigSource) payroll.CycleConfigResponse {
	resp := payroll.CycleConfigResponse{
		ID:            a.ID,
		CompanyID:     a.CompanyID,
		EmployeeID:    a.EmployeeID,
		Mode:          string(a.Mode),
		CycleStartDay: a.CycleStartDay,
		Source:        string(source),
	}
	if a.EffectiveFrom != nil {
		d := a.EffectiveFrom.Format("2006-01-02")
		resp.EffectiveFrom = &d
	}
	return resp
}

func toPeriodResponse(p payroll.PayPeriod, mode payroll.CycleMode, source payroll.CycleConfigSource) payroll.PayPeriodResponse {
	return payroll.PayPeriodResponse{
		Start:  p.Start.Format("2006-01-02"),
		End:    p.End.Format("2006-01-02"),
		Days:   p.Days(),
		Label:  p.String(),
		Mode:   string(mode),
		Source: string(source),
	}
}

func toBreakdownResponse(b payroll.SalaryBreakdown) payroll.SalaryBreakdownResponse {
	return payroll.SalaryBreakdownResponse{
		BaseSalary:      b.BaseSalary,
		Allowances:      b.Allowances,
		OvertimeAmount:  b.OvertimeAmount,
		Bonus:           b.Bonus,
		Commission:      b.Commission,
		TaxDeduction:    b.TaxDeduction,
		ProvidentFund:   b.ProvidentFund,
		Insurance:       b.Insurance,
		LoanDeduction:   b.LoanDeduction,
		OtherDeductions: b.OtherDeductions,
		GrossSalary:     b.GrossSalary,
		TotalDeductions: b.TotalDeductions,
		NetSalary:       b.NetSalary,
		HourlyRate:      b.HourlyRate,
		DailyRate:       b.DailyRate,
		NegativeNet:     b.NegativeNet,
	}
}

func toRunResponse(run payroll.PayrollRun) payroll.PayrollRunResponse {
	overtime := make(map[string]decimal.Decimal, len(run.OvertimeHoursByDayType))
	for k, v := range run.OvertimeHoursByDayType {
		overtime[string(k)] = v
	}
	return payroll.PayrollRunResponse{
		ID:              run.ID,
		CompanyID:       run.CompanyID,
		EmployeeID:      run.EmployeeID,
		Period:          toPeriodResponse(run.Period, run.PeriodMode, run.PeriodSource),
		ExcludedRecords: run.ExcludedRecords,
		OvertimeHours:   overtime,
		Salary:          toBreakdownResponse(run.Breakdown),
		CreatedAt:       run.CreatedAt.Format(time.RFC3339),
	}
}
