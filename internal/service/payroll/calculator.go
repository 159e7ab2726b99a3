package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/calculation"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// moneyPlaces is the precision of every derived money amount.
const moneyPlaces = 2

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// CalculateSalary applies the options to the components and derives gross,
// deductions and net salary. Options that are set replace the matching
// component: overtime hours replace OvertimeAmount, a performance score replaces
// Bonus, a tax mode replaces TaxDeduction and a provident fund rate replaces
// ProvidentFund. Negative inputs are accepted and a negative net is flagged,
// not clamped.
func CalculateSalary(components payroll.SalaryComponents, options payroll.CalculationOptions) (payroll.SalaryBreakdown, error) {
	if err := ValidateOptions(options); err != nil {
		return payroll.SalaryBreakdown{}, err
	}

	b := payroll.SalaryBreakdown{SalaryComponents: components}

	hourlyRate := HourlyRate(components.BaseSalary, options)
	b.HourlyRate = hourlyRate.Round(moneyPlaces)
	b.DailyRate = hourlyRate.Mul(options.StandardDailyHours).Round(moneyPlaces)

	if options.OvertimeHours.IsPositive() {
		multiplier, err := OvertimeMultiplier(options, options.OvertimeDayType)
		if err != nil {
			return payroll.SalaryBreakdown{}, err
		}
		b.OvertimeAmount = OvertimePay(hourlyRate, options.OvertimeHours, multiplier)
	}

	if options.PerformanceScore != nil {
		b.Bonus = options.PerformanceScore.Div(hundred).
			Mul(options.PerformanceBonusRate).
			Mul(components.BaseSalary).
			Round(moneyPlaces)
	}

	b.GrossSalary = b.BaseSalary.
		Add(b.Allowances).
		Add(b.OvertimeAmount).
		Add(b.Bonus).
		Add(b.Commission)

	switch options.TaxMode {
	case payroll.TaxModeFlat:
		b.TaxDeduction = b.GrossSalary.Mul(options.TaxRate).Round(moneyPlaces)
	case payroll.TaxModeProgressive:
		b.TaxDeduction = ProgressiveTax(b.GrossSalary, options.TaxBrackets)
	}

	if options.ProvidentFundRate != nil {
		b.ProvidentFund = components.BaseSalary.Mul(*options.ProvidentFundRate).Round(moneyPlaces)
	}

	b.TotalDeductions = b.TaxDeduction.
		Add(b.ProvidentFund).
		Add(b.Insurance).
		Add(b.LoanDeduction).
		Add(b.OtherDeductions)

	b.NetSalary = b.GrossSalary.Sub(b.TotalDeductions)
	b.NegativeNet = b.NetSalary.IsNegative()

	return b, nil
}

// ValidateOptions checks the structural invariants of the calculation options.
func ValidateOptions(options payroll.CalculationOptions) error {
	if !options.StandardMonthlyHours.IsPositive() {
		return calculation.NewConfigurationError("standard_monthly_hours", "must be greater than zero")
	}
	if options.StandardDailyHours.IsNegative() {
		return calculation.NewConfigurationError("standard_daily_hours", "must be non-negative")
	}
	if options.OvertimeMultiplier != nil && options.OvertimeMultiplier.LessThan(one) {
		return calculation.NewConfigurationError("overtime_multiplier", "must be at least 1.0")
	}
	for dayType, m := range options.OvertimeMultipliers {
		if !isKnownDayType(dayType) {
			return calculation.NewConfigurationError("overtime_multipliers", fmt.Sprintf("unknown day type %q", dayType))
		}
		if m.LessThan(one) {
			return calculation.NewConfigurationError("overtime_multipliers."+string(dayType), "must be at least 1.0")
		}
	}
	if options.OvertimeDayType != "" && !isKnownDayType(options.OvertimeDayType) {
		return calculation.NewConfigurationError("overtime_day_type", fmt.Sprintf("unknown day type %q", options.OvertimeDayType))
	}
	if options.PerformanceScore != nil &&
		(options.PerformanceScore.IsNegative() || options.PerformanceScore.GreaterThan(hundred)) {
		return calculation.NewConfigurationError("performance_score", "must be between 0 and 100")
	}

	switch options.TaxMode {
	case payroll.TaxModeNone, payroll.TaxModeFlat:
	case payroll.TaxModeProgressive:
		if err := validateBrackets(options.TaxBrackets); err != nil {
			return err
		}
	default:
		return calculation.NewConfigurationError("tax_mode", fmt.Sprintf("unknown tax mode %q", options.TaxMode))
	}

	return nil
}

func validateBrackets(brackets []payroll.TaxBracket) error {
	if len(brackets) == 0 {
		return calculation.NewConfigurationError("tax_brackets", "are required for progressive mode")
	}
	for i, b := range brackets {
		if b.Threshold.IsNegative() || b.Rate.IsNegative() {
			return calculation.NewConfigurationError("tax_brackets", "must have non-negative thresholds and rates")
		}
		if i > 0 && !b.Threshold.GreaterThan(brackets[i-1].Threshold) {
			return calculation.NewConfigurationError("tax_brackets", "thresholds must be strictly ascending")
		}
	}
	return nil
}

func isKnownDayType(t payroll.DayType) bool {
	for _, known := range payroll.DayTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HourlyRate is the unrounded base salary per standard monthly hour.
func HourlyRate(baseSalary decimal.Decimal, options payroll.CalculationOptions) decimal.Decimal {
	return baseSalary.Div(options.StandardMonthlyHours)
}

// OvertimeMultiplier returns the explicit multiplier when set, otherwise the
// configured multiplier for dayType. An empty dayType means a weekday.
func OvertimeMultiplier(options payroll.CalculationOptions, dayType payroll.DayType) (decimal.Decimal, error) {
	if options.OvertimeMultiplier != nil {
		return *options.OvertimeMultiplier, nil
	}
	if dayType == "" {
		dayType = payroll.DayTypeWeekday
	}
	m, ok := options.OvertimeMultipliers[dayType]
	if !ok {
		return decimal.Zero, calculation.NewConfigurationError("overtime_multipliers", fmt.Sprintf("no multiplier for %s", dayType))
	}
	return m, nil
}

// OvertimePay is hourlyRate x hours x multiplier, rounded to money precision.
func OvertimePay(hourlyRate, hours, multiplier decimal.Decimal) decimal.Decimal {
	return hourlyRate.Mul(hours).Mul(multiplier).Round(moneyPlaces)
}

// ProgressiveTax applies marginal rates: each bracket taxes the part of gross
// above its threshold and below the next bracket's threshold. Brackets must be
// ordered by ascending threshold.
func ProgressiveTax(gross decimal.Decimal, brackets []payroll.TaxBracket) decimal.Decimal {
	tax := decimal.Zero
	for i, b := range brackets {
		if gross.LessThanOrEqual(b.Threshold) {
			break
		}
		upper := gross
		if i+1 < len(brackets) && brackets[i+1].Threshold.LessThan(gross) {
			upper = brackets[i+1].Threshold
		}
		tax = tax.Add(upper.Sub(b.Threshold).Mul(b.Rate))
	}
	return tax.Round(moneyPlaces)
}
