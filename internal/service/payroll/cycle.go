package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
)

// ResolvePayPeriod returns the pay period that contains referenceDate.
//
// In default mode the period is the calendar month of the reference date. In
// custom mode with start day d the period runs from day d of one month to the
// day before day d of the next month. A start day past the end of a month is
// clamped to that month's last day. Before EffectiveFrom the custom cycle is not
// active yet and the calendar month is returned.
func ResolvePayPeriod(referenceDate time.Time, config payroll.PayrollCycleConfig) (payroll.PayPeriod, error) {
	if err := config.Validate(); err != nil {
		return payroll.PayPeriod{}, err
	}

	ref := truncateToDate(referenceDate)

	if config.Mode == payroll.CycleModeDefault || ref.Before(truncateToDate(*config.EffectiveFrom)) {
		return calendarMonth(ref), nil
	}

	d := *config.CycleStartDay
	year, month := ref.Year(), ref.Month()
	if ref.Day() < min(d, daysIn(year, month)) {
		month--
	}

	start := cycleStart(year, month, d)
	next := cycleStart(year, month+1, d)

	return payroll.PayPeriod{Start: start, End: next.AddDate(0, 0, -1)}, nil
}

// NextPayPeriod resolves the period that follows p under the same config.
func NextPayPeriod(p payroll.PayPeriod, config payroll.PayrollCycleConfig) (payroll.PayPeriod, error) {
	return ResolvePayPeriod(p.End.AddDate(0, 0, 1), config)
}

// PreviousPayPeriod resolves the period that precedes p under the same config.
func PreviousPayPeriod(p payroll.PayPeriod, config payroll.PayrollCycleConfig) (payroll.PayPeriod, error) {
	return ResolvePayPeriod(p.Start.AddDate(0, 0, -1), config)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func calendarMonth(ref time.Time) payroll.PayPeriod {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	return payroll.PayPeriod{Start: start, End: start.AddDate(0, 1, -1)}
}

// daysIn accepts out-of-range months and normalizes them like time.Date.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// cycleStart is day d of the given month, clamped to the month's last day.
func cycleStart(year int, month time.Month, d int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	day := min(d, daysIn(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
