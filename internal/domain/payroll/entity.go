package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/calculation"
	"github.com/shopspring/decimal"
)

// ========== CYCLE ==========

// CycleMode enum
type CycleMode string

const (
	CycleModeDefault CycleMode = "default"
	CycleModeCustom  CycleMode = "custom"
)

// PayrollCycleConfig - how pay periods are cut for a company or an employee
type PayrollCycleConfig struct {
	Mode          CycleMode
	CycleStartDay *int
	EffectiveFrom *time.Time
}

func (c PayrollCycleConfig) Validate() error {
	switch c.Mode {
	case CycleModeDefault:
		return nil
	case CycleModeCustom:
		if c.CycleStartDay == nil {
			return calculation.NewConfigurationError("cycle_start_day", "is required for custom mode")
		}
		if *c.CycleStartDay < 1 || *c.CycleStartDay > 31 {
			return calculation.NewConfigurationError("cycle_start_day", "must be between 1 and 31")
		}
		if c.EffectiveFrom == nil {
			return calculation.NewConfigurationError("effective_from", "is required for custom mode")
		}
		return nil
	default:
		return calculation.NewConfigurationError("mode", fmt.Sprintf("unknown cycle mode %q", c.Mode))
	}
}

// PayPeriod - inclusive date range, both ends at UTC midnight
type PayPeriod struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of d falls inside the period.
func (p PayPeriod) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(p.Start) && !day.After(p.End)
}

// Days is the number of calendar days in the period, both ends included.
func (p PayPeriod) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

func (p PayPeriod) String() string {
	return p.Start.Format("2006-01-02") + " - " + p.End.Format("2006-01-02")
}

// CycleAssignment - stored cycle config. EmployeeID is empty for the company default.
type CycleAssignment struct {
	ID         string
	CompanyID  string
	EmployeeID string
	PayrollCycleConfig
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ========== SALARY ==========

// TaxMode enum. The zero value keeps the tax deduction given in the components.
type TaxMode string

const (
	TaxModeNone        TaxMode = ""
	TaxModeFlat        TaxMode = "flat"
	TaxModeProgressive TaxMode = "progressive"
)

// TaxBracket taxes the part of gross above Threshold, up to the next bracket, at Rate.
type TaxBracket struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
}

// DayType enum for overtime multipliers
type DayType string

const (
	DayTypeWeekday  DayType = "weekday"
	DayTypeSaturday DayType = "saturday"
	DayTypeSunday   DayType = "sunday"
	DayTypeHoliday  DayType = "holiday"
)

var DayTypes = []DayType{DayTypeWeekday, DayTypeSaturday, DayTypeSunday, DayTypeHoliday}

// DayTypeOf classifies a calendar date. Holidays take precedence over weekends.
func DayTypeOf(d time.Time, holidays map[string]bool) DayType {
	if holidays[d.Format("2006-01-02")] {
		return DayTypeHoliday
	}
	switch d.Weekday() {
	case time.Saturday:
		return DayTypeSaturday
	case time.Sunday:
		return DayTypeSunday
	default:
		return DayTypeWeekday
	}
}

// OvertimeMultipliers maps a day type onto its overtime pay multiplier
type OvertimeMultipliers map[DayType]decimal.Decimal

// SalaryComponents - raw money inputs for one pay period
type SalaryComponents struct {
	BaseSalary     decimal.Decimal
	Allowances     decimal.Decimal
	OvertimeAmount decimal.Decimal
	Bonus          decimal.Decimal
	Commission     decimal.Decimal

	TaxDeduction    decimal.Decimal
	ProvidentFund   decimal.Decimal
	Insurance       decimal.Decimal
	LoanDeduction   decimal.Decimal
	OtherDeductions decimal.Decimal
}

// CalculationOptions - optional overrides applied on top of the components
type CalculationOptions struct {
	StandardMonthlyHours decimal.Decimal
	StandardDailyHours   decimal.Decimal

	OvertimeHours       decimal.Decimal
	OvertimeMultiplier  *decimal.Decimal
	OvertimeDayType     DayType
	OvertimeMultipliers OvertimeMultipliers

	PerformanceScore     *decimal.Decimal
	PerformanceBonusRate decimal.Decimal

	TaxMode     TaxMode
	TaxRate     decimal.Decimal
	TaxBrackets []TaxBracket

	ProvidentFundRate *decimal.Decimal
}

// SalaryBreakdown - components after overrides, plus the derived totals.
// GrossSalary - TotalDeductions == NetSalary holds exactly.
type SalaryBreakdown struct {
	SalaryComponents
	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	HourlyRate      decimal.Decimal
	DailyRate       decimal.Decimal
	NegativeNet     bool
}

// ========== SETTINGS ==========

// PayrollSettings - company calculation defaults
type PayrollSettings struct {
	ID                   string
	CompanyID            string
	StandardMonthlyHours decimal.Decimal
	StandardDailyHours   decimal.Decimal
	OvertimeMultipliers  OvertimeMultipliers
	PerformanceBonusRate decimal.Decimal
	TaxMode              TaxMode
	TaxRate              decimal.Decimal
	ProvidentFundRate    *decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Options builds calculation options from the stored defaults.
func (s PayrollSettings) Options() CalculationOptions {
	multipliers := make(OvertimeMultipliers, len(s.OvertimeMultipliers))
	for k, v := range s.OvertimeMultipliers {
		multipliers[k] = v
	}
	return CalculationOptions{
		StandardMonthlyHours: s.StandardMonthlyHours,
		StandardDailyHours:   s.StandardDailyHours,
		OvertimeDayType:      DayTypeWeekday,
		OvertimeMultipliers:  multipliers,
		PerformanceBonusRate: s.PerformanceBonusRate,
		TaxMode:              s.TaxMode,
		TaxRate:              s.TaxRate,
		ProvidentFundRate:    s.ProvidentFundRate,
	}
}

// ========== RUN ==========

// PayrollRun - result of the attendance, period and salary pipeline for one employee
type PayrollRun struct {
	ID                     string
	CompanyID              string
	EmployeeID             string
	Period                 PayPeriod
	PeriodMode             CycleMode
	PeriodSource           CycleConfigSource
	ExcludedRecords        int
	OvertimeHoursByDayType map[DayType]decimal.Decimal
	Breakdown              SalaryBreakdown
	CreatedAt              time.Time
}
