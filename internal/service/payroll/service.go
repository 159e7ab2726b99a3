package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cachedSettings struct {
	settings  payroll.PayrollSettings
	isDefault bool
}

type PayrollServiceImpl struct {
	payrollRepo       payroll.PayrollRepository
	attendanceService attendance.AttendanceService
	defaults          payroll.PayrollSettings
	defaultBrackets   []payroll.TaxBracket

	mu    sync.RWMutex
	cache map[string]cachedSettings
}

// NewPayrollService wires the payroll service. defaults are used for companies
// without stored settings and defaultBrackets (possibly empty) for companies
// without a stored tax table.
func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	attendanceService attendance.AttendanceService,
	defaults payroll.PayrollSettings,
	defaultBrackets []payroll.TaxBracket,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:       payrollRepo,
		attendanceService: attendanceService,
		defaults:          defaults,
		defaultBrackets:   defaultBrackets,
		cache:             make(map[string]cachedSettings),
	}
}

// ========== SETTINGS ==========

func (s *PayrollServiceImpl) settings(ctx context.Context, companyID string) (payroll.PayrollSettings, bool, error) {
	s.mu.RLock()
	cached, ok := s.cache[companyID]
	s.mu.RUnlock()
	if ok {
		return cached.settings, cached.isDefault, nil
	}

	cached, err := s.loadSettings(ctx, companyID)
	if err != nil {
		return payroll.PayrollSettings{}, false, err
	}

	// only stored settings are cached; company ids come straight from the URL
	if !cached.isDefault {
		s.mu.Lock()
		s.cache[companyID] = cached
		s.mu.Unlock()
	}

	return cached.settings, cached.isDefault, nil
}

func (s *PayrollServiceImpl) loadSettings(ctx context.Context, companyID string) (cachedSettings, error) {
	settings, err := s.payrollRepo.GetSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollSettingsNotFound) {
			defaults := s.defaults
			defaults.CompanyID = companyID
			return cachedSettings{settings: defaults, isDefault: true}, nil
		}
		return cachedSettings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	return cachedSettings{settings: settings}, nil
}

// RefreshSettingsCache implements payroll.PayrollService.
func (s *PayrollServiceImpl) RefreshSettingsCache(ctx context.Context) error {
	s.mu.RLock()
	companyIDs := make([]string, 0, len(s.cache))
	for id := range s.cache {
		companyIDs = append(companyIDs, id)
	}
	s.mu.RUnlock()

	var errs []error
	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		cached, err := s.loadSettings(ctx, companyID)
		if err != nil {
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}
		s.mu.Lock()
		if cached.isDefault {
			delete(s.cache, companyID)
		} else {
			s.cache[companyID] = cached
		}
		s.mu.Unlock()
	}

	slog.Debug("Payroll settings cache refreshed", "companies", len(companyIDs), "failed", len(errs))
	return errors.Join(errs...)
}

// GetSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSettings(ctx context.Context, companyID string) (payroll.PayrollSettingsResponse, error) {
	settings, isDefault, err := s.settings(ctx, companyID)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}
	return toSettingsResponse(settings, isDefault), nil
}

// UpdateSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, companyID string, req payroll.UpdatePayrollSettingsRequest) (payroll.PayrollSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}

	current, _, err := s.settings(ctx, companyID)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}

	current = req.Apply(current)

	// stored settings must stay usable as calculation options; the tax table
	// is checked when it is loaded
	check := current.Options()
	check.TaxMode = payroll.TaxModeNone
	if err := ValidateOptions(check); err != nil {
		return payroll.PayrollSettingsResponse{}, err
	}

	updated, err := s.payrollRepo.UpsertSettings(ctx, current)
	if err != nil {
		return payroll.PayrollSettingsResponse{}, fmt.Errorf("failed to update payroll settings: %w", err)
	}

	s.mu.Lock()
	s.cache[companyID] = cachedSettings{settings: updated}
	s.mu.Unlock()

	return toSettingsResponse(updated, false), nil
}

// ========== TAX BRACKETS ==========

func (s *PayrollServiceImpl) taxBrackets(ctx context.Context, companyID string) ([]payroll.TaxBracket, payroll.TaxBracketSource, error) {
	brackets, err := s.payrollRepo.GetTaxBrackets(ctx, companyID)
	if err != nil {
		if errors.Is(err, payroll.ErrTaxBracketsNotFound) {
			if len(s.defaultBrackets) == 0 {
				return nil, payroll.TaxBracketSourceNone, nil
			}
			return s.defaultBrackets, payroll.TaxBracketSourceFile, nil
		}
		return nil, "", fmt.Errorf("failed to get tax brackets: %w", err)
	}
	return brackets, payroll.TaxBracketSourceCompany, nil
}

// GetTaxBrackets implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetTaxBrackets(ctx context.Context, companyID string) (payroll.TaxBracketsResponse, error) {
	brackets, source, err := s.taxBrackets(ctx, companyID)
	if err != nil {
		return payroll.TaxBracketsResponse{}, err
	}
	if brackets == nil {
		brackets = []payroll.TaxBracket{}
	}
	return payroll.TaxBracketsResponse{CompanyID: companyID, Brackets: brackets, Source: string(source)}, nil
}

// UpdateTaxBrackets implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateTaxBrackets(ctx context.Context, companyID string, req payroll.UpdateTaxBracketsRequest) (payroll.TaxBracketsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.TaxBracketsResponse{}, err
	}

	brackets, err := s.payrollRepo.ReplaceTaxBrackets(ctx, companyID, req.Brackets)
	if err != nil {
		return payroll.TaxBracketsResponse{}, fmt.Errorf("failed to update tax brackets: %w", err)
	}

	return payroll.TaxBracketsResponse{
		CompanyID: companyID,
		Brackets:  brackets,
		Source:    string(payroll.TaxBracketSourceCompany),
	}, nil
}

// options merges the company settings with the request overrides and loads the
// tax table when progressive tax is in effect.
func (s *PayrollServiceImpl) options(ctx context.Context, companyID string, override *payroll.CalculationOptionsRequest) (payroll.CalculationOptions, error) {
	settings, _, err := s.settings(ctx, companyID)
	if err != nil {
		return payroll.CalculationOptions{}, err
	}

	opts := override.Apply(settings.Options())

	if opts.TaxMode == payroll.TaxModeProgressive {
		brackets, _, err := s.taxBrackets(ctx, companyID)
		if err != nil {
			return payroll.CalculationOptions{}, err
		}
		opts.TaxBrackets = brackets
	}

	return opts, nil
}

// ========== CYCLE ==========

// cycleConfig looks up the employee override, then the company default, then
// falls back to calendar months.
func (s *PayrollServiceImpl) cycleConfig(ctx context.Context, companyID, employeeID string) (payroll.CycleAssignment, payroll.CycleConfigSource, error) {
	if employeeID != "" {
		assignment, err := s.payrollRepo.GetCycleConfig(ctx, companyID, employeeID)
		if err == nil {
			return assignment, payroll.CycleSourceEmployee, nil
		}
		if !errors.Is(err, payroll.ErrCycleConfigNotFound) {
			return payroll.CycleAssignment{}, "", fmt.Errorf("failed to get employee cycle config: %w", err)
		}
	}

	assignment, err := s.payrollRepo.GetCycleConfig(ctx, companyID, "")
	if err == nil {
		return assignment, payroll.CycleSourceCompany, nil
	}
	if !errors.Is(err, payroll.ErrCycleConfigNotFound) {
		return payroll.CycleAssignment{}, "", fmt.Errorf("failed to get company cycle config: %w", err)
	}

	return payroll.CycleAssignment{
		CompanyID:          companyID,
		PayrollCycleConfig: payroll.PayrollCycleConfig{Mode: payroll.CycleModeDefault},
	}, payroll.CycleSourceDefault, nil
}

// GetCycleConfig implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetCycleConfig(ctx context.Context, companyID, employeeID string) (payroll.CycleConfigResponse, error) {
	assignment, source, err := s.cycleConfig(ctx, companyID, employeeID)
	if err != nil {
		return payroll.CycleConfigResponse{}, err
	}
	return toCycleConfigResponse(assignment, source), nil
}

// UpdateCycleConfig implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateCycleConfig(ctx context.Context, companyID, employeeID string, req payroll.CycleConfigRequest) (payroll.CycleConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CycleConfigResponse{}, err
	}

	cfg := req.ToConfig()
	if err := cfg.Validate(); err != nil {
		return payroll.CycleConfigResponse{}, err
	}

	updated, err := s.payrollRepo.UpsertCycleConfig(ctx, payroll.CycleAssignment{
		CompanyID:          companyID,
		EmployeeID:         employeeID,
		PayrollCycleConfig: cfg,
	})
	if err != nil {
		return payroll.CycleConfigResponse{}, fmt.Errorf("failed to update cycle config: %w", err)
	}

	source := payroll.CycleSourceCompany
	if employeeID != "" {
		source = payroll.CycleSourceEmployee
	}
	return toCycleConfigResponse(updated, source), nil
}

// ========== PERIOD ==========

func (s *PayrollServiceImpl) resolvePeriod(ctx context.Context, companyID, employeeID string, ref time.Time, override *payroll.CycleConfigRequest) (payroll.PayPeriod, payroll.PayrollCycleConfig, payroll.CycleConfigSource, error) {
	var (
		cfg    payroll.PayrollCycleConfig
		source payroll.CycleConfigSource
	)

	if override != nil {
		cfg, source = override.ToConfig(), payroll.CycleSourceRequest
	} else {
		assignment, src, err := s.cycleConfig(ctx, companyID, employeeID)
		if err != nil {
			return payroll.PayPeriod{}, payroll.PayrollCycleConfig{}, "", err
		}
		cfg, source = assignment.PayrollCycleConfig, src
	}

	period, err := ResolvePayPeriod(ref, cfg)
	if err != nil {
		return payroll.PayPeriod{}, payroll.PayrollCycleConfig{}, "", err
	}
	return period, cfg, source, nil
}

// ResolvePeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) ResolvePeriod(ctx context.Context, companyID string, req payroll.ResolvePeriodRequest) (payroll.PayPeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayPeriodResponse{}, err
	}

	ref, err := time.Parse("2006-01-02", req.ReferenceDate)
	if err != nil {
		return payroll.PayPeriodResponse{}, err
	}

	period, cfg, source, err := s.resolvePeriod(ctx, companyID, req.EmployeeID, ref, req.Cycle)
	if err != nil {
		return payroll.PayPeriodResponse{}, err
	}

	return toPeriodResponse(period, effectiveMode(cfg, ref), source), nil
}

// effectiveMode is the mode actually applied at ref, taking EffectiveFrom into account.
func effectiveMode(cfg payroll.PayrollCycleConfig, ref time.Time) payroll.CycleMode {
	if cfg.Mode == payroll.CycleModeCustom && cfg.EffectiveFrom != nil &&
		truncateToDate(ref).Before(truncateToDate(*cfg.EffectiveFrom)) {
		return payroll.CycleModeDefault
	}
	return cfg.Mode
}

// ========== SALARY ==========

// CalculateSalary implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateSalary(ctx context.Context, companyID string, req payroll.CalculateSalaryRequest) (payroll.SalaryBreakdownResponse, error) {
	opts, err := s.options(ctx, companyID, req.Options)
	if err != nil {
		return payroll.SalaryBreakdownResponse{}, err
	}

	breakdown, err := CalculateSalary(req.Components.ToComponents(), opts)
	if err != nil {
		return payroll.SalaryBreakdownResponse{}, err
	}
	if breakdown.NegativeNet {
		slog.Warn("Negative net salary", "company_id", companyID, "net_salary", breakdown.NetSalary.String())
	}

	return toBreakdownResponse(breakdown), nil
}

// GeneratePayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GeneratePayslip(ctx context.Context, companyID string, req payroll.PayslipRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ref := now
	if req.ReferenceDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReferenceDate)
		if err != nil {
			return nil, err
		}
		ref = parsed
	}

	period, _, _, err := s.resolvePeriod(ctx, companyID, req.EmployeeID, ref, nil)
	if err != nil {
		return nil, err
	}

	opts, err := s.options(ctx, companyID, req.Options)
	if err != nil {
		return nil, err
	}

	breakdown, err := CalculateSalary(req.Components.ToComponents(), opts)
	if err != nil {
		return nil, err
	}

	return RenderPayslip(Payslip{
		CompanyID:    companyID,
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Period:       period,
		Breakdown:    breakdown,
		GeneratedAt:  now,
	})
}

// ========== RUN ==========

// RunPayroll implements payroll.PayrollService. It resolves the pay period for
// the reference date, resolves the attendance records that fall inside it, pays
// their overtime per day type and calculates the salary.
func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, companyID string, req payroll.RunPayrollRequest) (payroll.PayrollRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	ref, err := time.Parse("2006-01-02", req.ReferenceDate)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	period, cfg, source, err := s.resolvePeriod(ctx, companyID, req.EmployeeID, ref, nil)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	inputs := make([]attendance.AttendanceInput, 0, len(req.Attendance))
	excluded := 0
	for i := range req.Attendance {
		input, err := req.Attendance[i].ToInput()
		if err != nil {
			return payroll.PayrollRunResponse{}, fmt.Errorf("attendance[%d]: %w", i, err)
		}
		if input.EmployeeID == "" {
			input.EmployeeID = req.EmployeeID
		}
		if input.EmployeeID != req.EmployeeID || !period.Contains(input.Date) {
			excluded++
			continue
		}
		inputs = append(inputs, input)
	}

	opts, err := s.options(ctx, companyID, req.Options)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	components := req.Components.ToComponents()

	var batch *attendance.ResolveBatchResponse
	overtimeByType := make(map[payroll.DayType]decimal.Decimal)

	if len(req.Attendance) > 0 {
		results, summary, err := s.attendanceService.ResolveInputs(ctx, companyID, inputs)
		if err != nil {
			return payroll.PayrollRunResponse{}, err
		}
		resp := attendance.NewBatchResponse(results, summary)
		batch = &resp

		holidays := req.HolidaySet()
		for _, r := range results {
			if r.OvertimeHours <= 0 {
				continue
			}
			dayType := payroll.DayTypeOf(r.Date, holidays)
			hours := decimal.NewFromFloat(r.OvertimeHours).Round(2)
			overtimeByType[dayType] = overtimeByType[dayType].Add(hours)
		}

		amount, err := overtimeAmount(components.BaseSalary, opts, overtimeByType)
		if err != nil {
			return payroll.PayrollRunResponse{}, err
		}
		components.OvertimeAmount = amount
		opts.OvertimeHours = decimal.Zero
	}

	breakdown, err := CalculateSalary(components, opts)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	if breakdown.NegativeNet {
		slog.Warn("Negative net salary in payroll run",
			"company_id", companyID,
			"employee_id", req.EmployeeID,
			"period", period.String(),
			"net_salary", breakdown.NetSalary.String(),
		)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to generate run id: %w", err)
	}

	run, err := s.payrollRepo.CreateRun(ctx, payroll.PayrollRun{
		ID:                     id.String(),
		CompanyID:              companyID,
		EmployeeID:             req.EmployeeID,
		Period:                 period,
		PeriodMode:             effectiveMode(cfg, ref),
		PeriodSource:           source,
		ExcludedRecords:        excluded,
		OvertimeHoursByDayType: overtimeByType,
		Breakdown:              breakdown,
	})
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to save payroll run: %w", err)
	}

	resp := toRunResponse(run)
	resp.Attendance = batch
	return resp, nil
}

// overtimeAmount pays each day type's overtime hours at that day type's multiplier.
func overtimeAmount(baseSalary decimal.Decimal, opts payroll.CalculationOptions, hoursByType map[payroll.DayType]decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateOptions(opts); err != nil {
		return decimal.Zero, err
	}

	hourlyRate := HourlyRate(baseSalary, opts)
	total := decimal.Zero
	for _, dayType := range payroll.DayTypes {
		hours, ok := hoursByType[dayType]
		if !ok || !hours.IsPositive() {
			continue
		}
		multiplier, err := OvertimeMultiplier(opts, dayType)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(OvertimePay(hourlyRate, hours, multiplier))
	}
	return total, nil
}

// GetRun implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetRun(ctx context.Context, companyID, runID string) (payroll.PayrollRunResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	return toRunResponse(run), nil
}
