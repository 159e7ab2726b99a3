package payroll

import "context"

// PayrollRepository defines data access methods for payroll configuration.
// All methods include companyID parameter to prevent cross-company data access.
type PayrollRepository interface {
	// Settings
	GetSettings(ctx context.Context, companyID string) (PayrollSettings, error)
	UpsertSettings(ctx context.Context, settings PayrollSettings) (PayrollSettings, error)

	// Cycle configs. An empty employeeID addresses the company default.
	GetCycleConfig(ctx context.Context, companyID, employeeID string) (CycleAssignment, error)
	UpsertCycleConfig(ctx context.Context, assignment CycleAssignment) (CycleAssignment, error)

	// Tax brackets, ordered by threshold
	GetTaxBrackets(ctx context.Context, companyID string) ([]TaxBracket, error)
	ReplaceTaxBrackets(ctx context.Context, companyID string, brackets []TaxBracket) ([]TaxBracket, error)

	// Runs
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRunByID(ctx context.Context, id, companyID string) (PayrollRun, error)
}
