package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== SETTINGS ==========

const payrollSettingsColumns = `id, company_id, standard_monthly_hours, standard_daily_hours,
	overtime_multipliers, performance_bonus_rate, tax_mode, tax_rate, provident_fund_rate,
	created_at, updated_at`

func scanPayrollSettings(row pgx.Row) (payroll.PayrollSettings, error) {
	var (
		s               payroll.PayrollSettings
		multipliersJSON []byte
		pfRate          decimal.NullDecimal
	)
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.StandardMonthlyHours, &s.StandardDailyHours,
		&multipliersJSON, &s.PerformanceBonusRate, &s.TaxMode, &s.TaxRate, &pfRate,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollSettings{}, err
	}

	if err := json.Unmarshal(multipliersJSON, &s.OvertimeMultipliers); err != nil {
		return payroll.PayrollSettings{}, fmt.Errorf("decode overtime multipliers: %w", err)
	}
	if pfRate.Valid {
		s.ProvidentFundRate = &pfRate.Decimal
	}
	return s, nil
}

func (r *payrollRepository) GetSettings(ctx context.Context, companyID string) (payroll.PayrollSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollSettingsColumns + ` FROM payroll_settings WHERE company_id = $1`

	s, err := scanPayrollSettings(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollSettings{}, payroll.ErrPayrollSettingsNotFound
		}
		return payroll.PayrollSettings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	return s, nil
}

func (r *payrollRepository) UpsertSettings(ctx context.Context, settings payroll.PayrollSettings) (payroll.PayrollSettings, error) {
	q := GetQuerier(ctx, r.db)

	multipliersJSON, err := json.Marshal(settings.OvertimeMultipliers)
	if err != nil {
		return payroll.PayrollSettings{}, fmt.Errorf("encode overtime multipliers: %w", err)
	}
	var pfRate decimal.NullDecimal
	if settings.ProvidentFundRate != nil {
		pfRate = decimal.NewNullDecimal(*settings.ProvidentFundRate)
	}

	query := `
		INSERT INTO payroll_settings (
			company_id, standard_monthly_hours, standard_daily_hours, overtime_multipliers,
			performance_bonus_rate, tax_mode, tax_rate, provident_fund_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id) DO UPDATE SET
			standard_monthly_hours = EXCLUDED.standard_monthly_hours,
			standard_daily_hours = EXCLUDED.standard_daily_hours,
			overtime_multipliers = EXCLUDED.overtime_multipliers,
			performance_bonus_rate = EXCLUDED.performance_bonus_rate,
			tax_mode = EXCLUDED.tax_mode,
			tax_rate = EXCLUDED.tax_rate,
			provident_fund_rate = EXCLUDED.provident_fund_rate,
			updated_at = NOW()
		RETURNING ` + payrollSettingsColumns

	s, err := scanPayrollSettings(q.QueryRow(ctx, query,
		settings.CompanyID, settings.StandardMonthlyHours, settings.StandardDailyHours, multipliersJSON,
		settings.PerformanceBonusRate, string(settings.TaxMode), settings.TaxRate, pfRate,
	))
	if err != nil {
		return payroll.PayrollSettings{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}

	return s, nil
}

// ========== CYCLE CONFIGS ==========

const cycleConfigColumns = `id, company_id, employee_id, mode, cycle_start_day, effective_from, created_at, updated_at`

func scanCycleAssignment(row pgx.Row) (payroll.CycleAssignment, error) {
	var a payroll.CycleAssignment
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.Mode, &a.CycleStartDay, &a.EffectiveFrom,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *payrollRepository) GetCycleConfig(ctx context.Context, companyID, employeeID string) (payroll.CycleAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + cycleConfigColumns + ` FROM payroll_cycle_configs WHERE company_id = $1 AND employee_id = $2`

	a, err := scanCycleAssignment(q.QueryRow(ctx, query, companyID, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.CycleAssignment{}, payroll.ErrCycleConfigNotFound
		}
		return payroll.CycleAssignment{}, fmt.Errorf("failed to get cycle config: %w", err)
	}

	return a, nil
}

func (r *payrollRepository) UpsertCycleConfig(ctx context.Context, assignment payroll.CycleAssignment) (payroll.CycleAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_cycle_configs (company_id, employee_id, mode, cycle_start_day, effective_from)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, employee_id) DO UPDATE SET
			mode = EXCLUDED.mode,
			cycle_start_day = EXCLUDED.cycle_start_day,
			effective_from = EXCLUDED.effective_from,
			updated_at = NOW()
		RETURNING ` + cycleConfigColumns

	a, err := scanCycleAssignment(q.QueryRow(ctx, query,
		assignment.CompanyID, assignment.EmployeeID, string(assignment.Mode),
		assignment.CycleStartDay, assignment.EffectiveFrom,
	))
	if err != nil {
		return payroll.CycleAssignment{}, fmt.Errorf("failed to upsert cycle config: %w", err)
	}

	return a, nil
}

// ========== TAX BRACKETS ==========

func (r *payrollRepository) GetTaxBrackets(ctx context.Context, companyID string) ([]payroll.TaxBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT threshold, rate
		FROM payroll_tax_brackets
		WHERE company_id = $1
		ORDER BY threshold ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tax brackets: %w", err)
	}
	defer rows.Close()

	var brackets []payroll.TaxBracket
	for rows.Next() {
		var b payroll.TaxBracket
		if err := rows.Scan(&b.Threshold, &b.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan tax bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tax brackets: %w", err)
	}

	if len(brackets) == 0 {
		return nil, payroll.ErrTaxBracketsNotFound
	}
	return brackets, nil
}

// ReplaceTaxBrackets swaps the whole table in one transaction.
func (r *payrollRepository) ReplaceTaxBrackets(ctx context.Context, companyID string, brackets []payroll.TaxBracket) ([]payroll.TaxBracket, error) {
	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM payroll_tax_brackets WHERE company_id = $1`, companyID); err != nil {
			return fmt.Errorf("failed to clear tax brackets: %w", err)
		}

		batch := &pgx.Batch{}
		for _, b := range brackets {
			batch.Queue(`INSERT INTO payroll_tax_brackets (company_id, threshold, rate) VALUES ($1, $2, $3)`,
				companyID, b.Threshold, b.Rate)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert tax brackets: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetTaxBrackets(ctx, companyID)
}

// ========== RUNS ==========

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	if run.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return payroll.PayrollRun{}, fmt.Errorf("failed to generate run id: %w", err)
		}
		run.ID = id.String()
	}

	overtimeJSON, err := json.Marshal(run.OvertimeHoursByDayType)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("encode overtime hours: %w", err)
	}
	breakdownJSON, err := json.Marshal(run.Breakdown)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("encode breakdown: %w", err)
	}

	query := `
		INSERT INTO payroll_runs (
			id, company_id, employee_id, period_start, period_end, period_mode, period_source,
			excluded_records, overtime_hours, breakdown, net_salary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		run.ID, run.CompanyID, run.EmployeeID, run.Period.Start, run.Period.End,
		run.PeriodMode, run.PeriodSource, run.ExcludedRecords, overtimeJSON, breakdownJSON, run.Breakdown.NetSalary,
	).Scan(&run.CreatedAt)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	return run, nil
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id, companyID string) (payroll.PayrollRun, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, period_start, period_end, period_mode, period_source,
			   excluded_records, overtime_hours, breakdown, created_at
		FROM payroll_runs
		WHERE id = $1 AND company_id = $2
	`

	var (
		run                         payroll.PayrollRun
		overtimeJSON, breakdownJSON []byte
	)
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&run.ID, &run.CompanyID, &run.EmployeeID, &run.Period.Start, &run.Period.End,
		&run.PeriodMode, &run.PeriodSource, &run.ExcludedRecords, &overtimeJSON, &breakdownJSON, &run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	if err := json.Unmarshal(overtimeJSON, &run.OvertimeHoursByDayType); err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("decode overtime hours: %w", err)
	}
	if err := json.Unmarshal(breakdownJSON, &run.Breakdown); err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("decode breakdown: %w", err)
	}

	return run, nil
}
