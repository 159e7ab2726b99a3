package payroll

import "context"

// PayrollService defines business logic for pay periods and salary calculation
type PayrollService interface {
	// Period
	ResolvePeriod(ctx context.Context, companyID string, req ResolvePeriodRequest) (PayPeriodResponse, error)

	// Cycle configs. An empty employeeID addresses the company default.
	GetCycleConfig(ctx context.Context, companyID, employeeID string) (CycleConfigResponse, error)
	UpdateCycleConfig(ctx context.Context, companyID, employeeID string, req CycleConfigRequest) (CycleConfigResponse, error)

	// Settings
	GetSettings(ctx context.Context, companyID string) (PayrollSettingsResponse, error)
	UpdateSettings(ctx context.Context, companyID string, req UpdatePayrollSettingsRequest) (PayrollSettingsResponse, error)

	// Tax brackets
	GetTaxBrackets(ctx context.Context, companyID string) (TaxBracketsResponse, error)
	UpdateTaxBrackets(ctx context.Context, companyID string, req UpdateTaxBracketsRequest) (TaxBracketsResponse, error)

	// Salary
	CalculateSalary(ctx context.Context, companyID string, req CalculateSalaryRequest) (SalaryBreakdownResponse, error)
	GeneratePayslip(ctx context.Context, companyID string, req PayslipRequest) ([]byte, error)

	// Run
	RunPayroll(ctx context.Context, companyID string, req RunPayrollRequest) (PayrollRunResponse, error)
	GetRun(ctx context.Context, companyID, runID string) (PayrollRunResponse, error)

	// RefreshSettingsCache reloads the cached company settings from storage
	RefreshSettingsCache(ctx context.Context) error
}
