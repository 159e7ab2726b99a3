package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var (
	cycleModes = []string{string(CycleModeDefault), string(CycleModeCustom)}
	taxModes   = []string{"", "none", string(TaxModeFlat), string(TaxModeProgressive)}
	dayTypes   = []string{string(DayTypeWeekday), string(DayTypeSaturday), string(DayTypeSunday), string(DayTypeHoliday)}
)

// ParseTaxMode accepts "none" as an alias of the empty mode.
func ParseTaxMode(s string) TaxMode {
	if s == "none" {
		return TaxModeNone
	}
	return TaxMode(s)
}

// ========== CYCLE DTOs ==========

type CycleConfigRequest struct {
	Mode          string  `json:"mode"`
	CycleStartDay *int    `json:"cycle_start_day,omitempty"`
	EffectiveFrom *string `json:"effective_from,omitempty"` // YYYY-MM-DD
}

func (r *CycleConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Mode, cycleModes) {
		errs = append(errs, validator.ValidationError{Field: "mode", Message: "must be 'default' or 'custom'"})
	}
	if r.CycleStartDay != nil && (*r.CycleStartDay < 1 || *r.CycleStartDay > 31) {
		errs = append(errs, validator.ValidationError{Field: "cycle_start_day", Message: "must be between 1 and 31"})
	}
	if r.EffectiveFrom != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.Mode == string(CycleModeCustom) {
		if r.CycleStartDay == nil {
			errs = append(errs, validator.ValidationError{Field: "cycle_start_day", Message: "is required for custom mode"})
		}
		if r.EffectiveFrom == nil {
			errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "is required for custom mode"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToConfig converts the request. Unparseable dates are left nil.
func (r *CycleConfigRequest) ToConfig() PayrollCycleConfig {
	cfg := PayrollCycleConfig{Mode: CycleMode(r.Mode), CycleStartDay: r.CycleStartDay}
	if r.EffectiveFrom != nil {
		if d, ok := validator.IsValidDate(*r.EffectiveFrom); ok {
			cfg.EffectiveFrom = &d
		}
	}
	return cfg
}

// CycleConfigSource tells where a resolved cycle config came from
type CycleConfigSource string

const (
	CycleSourceRequest  CycleConfigSource = "request"
	CycleSourceEmployee CycleConfigSource = "employee"
	CycleSourceCompany  CycleConfigSource = "company"
	CycleSourceDefault  CycleConfigSource = "default"
)

type CycleConfigResponse struct {
	ID            string  `json:"id,omitempty"`
	CompanyID     string  `json:"company_id"`
	EmployeeID    string  `json:"employee_id,omitempty"`
	Mode          string  `json:"mode"`
	CycleStartDay *int    `json:"cycle_start_day,omitempty"`
	EffectiveFrom *string `json:"effective_from,omitempty"`
	Source        string  `json:"source"`
}

type ResolvePeriodRequest struct {
	ReferenceDate string              `json:"reference_date"` // YYYY-MM-DD
	EmployeeID    string              `json:"employee_id,omitempty"`
	Cycle         *CycleConfigRequest `json:"cycle,omitempty"` // overrides stored configs
}

func (r *ResolvePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.ReferenceDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "reference_date", Message: "reference_date must be in YYYY-MM-DD format"})
	}
	if r.Cycle != nil {
		if err := r.Cycle.Validate(); err != nil {
			if v, ok := err.(validator.ValidationErrors); ok {
				for _, e := range v {
					errs = append(errs, validator.ValidationError{Field: "cycle." + e.Field, Message: e.Message})
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayPeriodResponse struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Days   int    `json:"days"`
	Label  string `json:"label"`
	Mode   string `json:"mode,omitempty"`
	Source string `json:"source,omitempty"`
}

// ========== SETTINGS DTOs ==========

type PayrollSettingsResponse struct {
	ID                   string                     `json:"id,omitempty"`
	CompanyID            string                     `json:"company_id"`
	StandardMonthlyHours decimal.Decimal            `json:"standard_monthly_hours"`
	StandardDailyHours   decimal.Decimal            `json:"standard_daily_hours"`
	OvertimeMultipliers  map[string]decimal.Decimal `json:"overtime_multipliers"`
	PerformanceBonusRate decimal.Decimal            `json:"performance_bonus_rate"`
	TaxMode              string                     `json:"tax_mode"`
	TaxRate              decimal.Decimal            `json:"tax_rate"`
	ProvidentFundRate    *decimal.Decimal           `json:"provident_fund_rate,omitempty"`
	IsDefault            bool                       `json:"is_default"`
}

type UpdatePayrollSettingsRequest struct {
	StandardMonthlyHours *decimal.Decimal           `json:"standard_monthly_hours,omitempty"`
	StandardDailyHours   *decimal.Decimal           `json:"standard_daily_hours,omitempty"`
	OvertimeMultipliers  map[string]decimal.Decimal `json:"overtime_multipliers,omitempty"`
	PerformanceBonusRate *decimal.Decimal           `json:"performance_bonus_rate,omitempty"`
	TaxMode              *string                    `json:"tax_mode,omitempty"`
	TaxRate              *decimal.Decimal           `json:"tax_rate,omitempty"`
	ProvidentFundRate    *decimal.Decimal           `json:"provident_fund_rate,omitempty"`
}

func (r *UpdatePayrollSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StandardMonthlyHours != nil && !r.StandardMonthlyHours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "standard_monthly_hours", Message: "must be greater than zero"})
	}
	if r.StandardDailyHours != nil && r.StandardDailyHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "standard_daily_hours", Message: "must be non-negative"})
	}
	for dayType, m := range r.OvertimeMultipliers {
		if !validator.IsInSlice(dayType, dayTypes) {
			errs = append(errs, validator.ValidationError{Field: "overtime_multipliers." + dayType, Message: "unknown day type"})
			continue
		}
		if m.LessThan(decimal.NewFromInt(1)) {
			errs = append(errs, validator.ValidationError{Field: "overtime_multipliers." + dayType, Message: "must be at least 1.0"})
		}
	}
	if r.PerformanceBonusRate != nil && r.PerformanceBonusRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "performance_bonus_rate", Message: "must be non-negative"})
	}
	if r.TaxMode != nil && !validator.IsInSlice(*r.TaxMode, taxModes) {
		errs = append(errs, validator.ValidationError{Field: "tax_mode", Message: "must be 'none', 'flat' or 'progressive'"})
	}
	if r.TaxRate != nil && r.TaxRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "tax_rate", Message: "must be non-negative"})
	}
	if r.ProvidentFundRate != nil && r.ProvidentFundRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "provident_fund_rate", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply merges the non-nil fields of the request into s.
func (r *UpdatePayrollSettingsRequest) Apply(s PayrollSettings) PayrollSettings {
	if r.StandardMonthlyHours != nil {
		s.StandardMonthlyHours = *r.StandardMonthlyHours
	}
	if r.StandardDailyHours != nil {
		s.StandardDailyHours = *r.StandardDailyHours
	}
	if len(r.OvertimeMultipliers) > 0 {
		merged := make(OvertimeMultipliers, len(s.OvertimeMultipliers)+len(r.OvertimeMultipliers))
		for k, v := range s.OvertimeMultipliers {
			merged[k] = v
		}
		for k, v := range r.OvertimeMultipliers {
			merged[DayType(k)] = v
		}
		s.OvertimeMultipliers = merged
	}
	if r.PerformanceBonusRate != nil {
		s.PerformanceBonusRate = *r.PerformanceBonusRate
	}
	if r.TaxMode != nil {
		s.TaxMode = ParseTaxMode(*r.TaxMode)
	}
	if r.TaxRate != nil {
		s.TaxRate = *r.TaxRate
	}
	if r.ProvidentFundRate != nil {
		rate := *r.ProvidentFundRate
		s.ProvidentFundRate = &rate
	}
	return s
}

// ========== TAX BRACKET DTOs ==========

type UpdateTaxBracketsRequest struct {
	Brackets []TaxBracket `json:"brackets"`
}

func (r *UpdateTaxBracketsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Brackets) == 0 {
		errs = append(errs, validator.ValidationError{Field: "brackets", Message: "at least one bracket is required"})
	}
	for i, b := range r.Brackets {
		field := fmt.Sprintf("brackets[%d]", i)
		if b.Threshold.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field + ".threshold", Message: "must be non-negative"})
		}
		if i > 0 && !b.Threshold.GreaterThan(r.Brackets[i-1].Threshold) {
			errs = append(errs, validator.ValidationError{Field: field + ".threshold", Message: "thresholds must be strictly ascending"})
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, validator.ValidationError{Field: field + ".rate", Message: "must be between 0 and 1"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TaxBracketSource tells where the active tax table came from
type TaxBracketSource string

const (
	TaxBracketSourceCompany TaxBracketSource = "company"
	TaxBracketSourceFile    TaxBracketSource = "file"
	TaxBracketSourceNone    TaxBracketSource = "none"
)

type TaxBracketsResponse struct {
	CompanyID string       `json:"company_id"`
	Brackets  []TaxBracket `json:"brackets"`
	Source    string       `json:"source"`
}

// ========== SALARY DTOs ==========

type SalaryComponentsRequest struct {
	BaseSalary     decimal.Decimal `json:"base_salary"`
	Allowances     decimal.Decimal `json:"allowances"`
	OvertimeAmount decimal.Decimal `json:"overtime_amount"`
	Bonus          decimal.Decimal `json:"bonus"`
	Commission     decimal.Decimal `json:"commission"`

	TaxDeduction    decimal.Decimal `json:"tax_deduction"`
	ProvidentFund   decimal.Decimal `json:"provident_fund"`
	Insurance       decimal.Decimal `json:"insurance"`
	LoanDeduction   decimal.Decimal `json:"loan_deduction"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
}

func (r SalaryComponentsRequest) ToComponents() SalaryComponents {
	return SalaryComponents{
		BaseSalary:      r.BaseSalary,
		Allowances:      r.Allowances,
		OvertimeAmount:  r.OvertimeAmount,
		Bonus:           r.Bonus,
		Commission:      r.Commission,
		TaxDeduction:    r.TaxDeduction,
		ProvidentFund:   r.ProvidentFund,
		Insurance:       r.Insurance,
		LoanDeduction:   r.LoanDeduction,
		OtherDeductions: r.OtherDeductions,
	}
}

// CalculationOptionsRequest overrides the company settings for one calculation.
// Structural problems such as a multiplier below 1.0 are reported by the
// calculator as configuration errors.
type CalculationOptionsRequest struct {
	StandardMonthlyHours *decimal.Decimal `json:"standard_monthly_hours,omitempty"`
	StandardDailyHours   *decimal.Decimal `json:"standard_daily_hours,omitempty"`
	OvertimeHours        *decimal.Decimal `json:"overtime_hours,omitempty"`
	OvertimeMultiplier   *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	OvertimeDayType      *string          `json:"overtime_day_type,omitempty"`
	PerformanceScore     *decimal.Decimal `json:"performance_score,omitempty"`
	PerformanceBonusRate *decimal.Decimal `json:"performance_bonus_rate,omitempty"`
	TaxMode              *string          `json:"tax_mode,omitempty"`
	TaxRate              *decimal.Decimal `json:"tax_rate,omitempty"`
	ProvidentFundRate    *decimal.Decimal `json:"provident_fund_rate,omitempty"`
}

// Apply merges the non-nil fields of the request into opts.
func (r *CalculationOptionsRequest) Apply(opts CalculationOptions) CalculationOptions {
	if r == nil {
		return opts
	}
	if r.StandardMonthlyHours != nil {
		opts.StandardMonthlyHours = *r.StandardMonthlyHours
	}
	if r.StandardDailyHours != nil {
		opts.StandardDailyHours = *r.StandardDailyHours
	}
	if r.OvertimeHours != nil {
		opts.OvertimeHours = *r.OvertimeHours
	}
	if r.OvertimeMultiplier != nil {
		m := *r.OvertimeMultiplier
		opts.OvertimeMultiplier = &m
	}
	if r.OvertimeDayType != nil {
		opts.OvertimeDayType = DayType(*r.OvertimeDayType)
	}
	if r.PerformanceScore != nil {
		score := *r.PerformanceScore
		opts.PerformanceScore = &score
	}
	if r.PerformanceBonusRate != nil {
		opts.PerformanceBonusRate = *r.PerformanceBonusRate
	}
	if r.TaxMode != nil {
		opts.TaxMode = ParseTaxMode(*r.TaxMode)
	}
	if r.TaxRate != nil {
		opts.TaxRate = *r.TaxRate
	}
	if r.ProvidentFundRate != nil {
		rate := *r.ProvidentFundRate
		opts.ProvidentFundRate = &rate
	}
	return opts
}

type CalculateSalaryRequest struct {
	Components SalaryComponentsRequest    `json:"components"`
	Options    *CalculationOptionsRequest `json:"options,omitempty"`
}

type SalaryBreakdownResponse struct {
	BaseSalary      decimal.Decimal `json:"base_salary"`
	Allowances      decimal.Decimal `json:"allowances"`
	OvertimeAmount  decimal.Decimal `json:"overtime_amount"`
	Bonus           decimal.Decimal `json:"bonus"`
	Commission      decimal.Decimal `json:"commission"`
	TaxDeduction    decimal.Decimal `json:"tax_deduction"`
	ProvidentFund   decimal.Decimal `json:"provident_fund"`
	Insurance       decimal.Decimal `json:"insurance"`
	LoanDeduction   decimal.Decimal `json:"loan_deduction"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	NegativeNet     bool            `json:"negative_net"`
}

type PayslipRequest struct {
	EmployeeID    string                     `json:"employee_id,omitempty"`
	EmployeeName  string                     `json:"employee_name"`
	ReferenceDate string                     `json:"reference_date,omitempty"` // YYYY-MM-DD, defaults to today
	Components    SalaryComponentsRequest    `json:"components"`
	Options       *CalculationOptionsRequest `json:"options,omitempty"`
}

func (r *PayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{Field: "employee_name", Message: "employee_name is required"})
	}
	if r.ReferenceDate != "" {
		if _, ok := validator.IsValidDate(r.ReferenceDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "reference_date", Message: "reference_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RUN DTOs ==========

type RunPayrollRequest struct {
	EmployeeID    string                                `json:"employee_id"`
	ReferenceDate string                                `json:"reference_date"` // YYYY-MM-DD
	Components    SalaryComponentsRequest               `json:"components"`
	Options       *CalculationOptionsRequest            `json:"options,omitempty"`
	Attendance    []attendance.ResolveAttendanceRequest `json:"attendance"`
	Holidays      []string                              `json:"holidays,omitempty"` // YYYY-MM-DD
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDate(r.ReferenceDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "reference_date", Message: "reference_date must be in YYYY-MM-DD format"})
	}
	if len(r.Attendance) > attendance.MaxBatchSize {
		errs = append(errs, validator.ValidationError{Field: "attendance", Message: fmt.Sprintf("at most %d records are allowed", attendance.MaxBatchSize)})
	}
	for i := range r.Attendance {
		if err := r.Attendance[i].ValidateAt(fmt.Sprintf("attendance[%d].", i)); err != nil {
			if v, ok := err.(validator.ValidationErrors); ok {
				errs = append(errs, v...)
			}
		}
	}
	for i, h := range r.Holidays {
		if _, ok := validator.IsValidDate(h); !ok {
			errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("holidays[%d]", i), Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HolidaySet indexes the holiday dates by their YYYY-MM-DD form.
func (r *RunPayrollRequest) HolidaySet() map[string]bool {
	set := make(map[string]bool, len(r.Holidays))
	for _, h := range r.Holidays {
		if d, err := time.Parse(dateLayout, h); err == nil {
			set[d.Format(dateLayout)] = true
		}
	}
	return set
}

type PayrollRunResponse struct {
	ID              string                           `json:"id"`
	CompanyID       string                           `json:"company_id"`
	EmployeeID      string                           `json:"employee_id"`
	Period          PayPeriodResponse                `json:"period"`
	Attendance      *attendance.ResolveBatchResponse `json:"attendance,omitempty"`
	ExcludedRecords int                              `json:"excluded_records"`
	OvertimeHours   map[string]decimal.Decimal       `json:"overtime_hours"`
	Salary          SalaryBreakdownResponse          `json:"salary"`
	CreatedAt       string                           `json:"created_at"`
}
