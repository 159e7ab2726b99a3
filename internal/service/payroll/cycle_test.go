package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/calculation"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

func customCycle(day int, effectiveFrom time.Time) payroll.PayrollCycleConfig {
	return payroll.PayrollCycleConfig{
		Mode:          payroll.CycleModeCustom,
		CycleStartDay: intPtr(day),
		EffectiveFrom: timePtr(effectiveFrom),
	}
}

func TestResolvePayPeriod(t *testing.T) {
	effective := date(2025, time.January, 1)

	tests := []struct {
		name      string
		ref       time.Time
		config    payroll.PayrollCycleConfig
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "Default mode is the calendar month",
			ref:       date(2026, time.February, 14),
			config:    payroll.PayrollCycleConfig{Mode: payroll.CycleModeDefault},
			wantStart: date(2026, time.February, 1),
			wantEnd:   date(2026, time.February, 28),
		},
		{
			name:      "Default mode in a leap year",
			ref:       date(2024, time.February, 29),
			config:    payroll.PayrollCycleConfig{Mode: payroll.CycleModeDefault},
			wantStart: date(2024, time.February, 1),
			wantEnd:   date(2024, time.February, 29),
		},
		{
			name:      "Custom before start day uses previous month",
			ref:       date(2026, time.January, 10),
			config:    customCycle(19, effective),
			wantStart: date(2025, time.December, 19),
			wantEnd:   date(2026, time.January, 18),
		},
		{
			name:      "Custom on start day",
			ref:       date(2026, time.January, 19),
			config:    customCycle(19, effective),
			wantStart: date(2026, time.January, 19),
			wantEnd:   date(2026, time.February, 18),
		},
		{
			name:      "Custom day before start day",
			ref:       date(2026, time.January, 18),
			config:    customCycle(19, effective),
			wantStart: date(2025, time.December, 19),
			wantEnd:   date(2026, time.January, 18),
		},
		{
			name:      "Start day one is the calendar month",
			ref:       date(2026, time.March, 31),
			config:    customCycle(1, effective),
			wantStart: date(2026, time.March, 1),
			wantEnd:   date(2026, time.March, 31),
		},
		{
			name:      "Start day clamped in February",
			ref:       date(2026, time.February, 28),
			config:    customCycle(31, effective),
			wantStart: date(2026, time.February, 28),
			wantEnd:   date(2026, time.March, 30),
		},
		{
			name:      "End clamped by February",
			ref:       date(2026, time.February, 10),
			config:    customCycle(31, effective),
			wantStart: date(2026, time.January, 31),
			wantEnd:   date(2026, time.February, 27),
		},
		{
			name:      "Year boundary",
			ref:       date(2025, time.December, 30),
			config:    customCycle(25, effective),
			wantStart: date(2025, time.December, 25),
			wantEnd:   date(2026, time.January, 24),
		},
		{
			name:      "Before effective date falls back to calendar month",
			ref:       date(2024, time.December, 10),
			config:    customCycle(19, effective),
			wantStart: date(2024, time.December, 1),
			wantEnd:   date(2024, time.December, 31),
		},
		{
			name:      "Time of day is ignored",
			ref:       time.Date(2026, time.January, 19, 23, 59, 0, 0, time.UTC),
			config:    customCycle(19, effective),
			wantStart: date(2026, time.January, 19),
			wantEnd:   date(2026, time.February, 18),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, err := ResolvePayPeriod(tt.ref, tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, period.Start)
			assert.Equal(t, tt.wantEnd, period.End)
			assert.True(t, period.Contains(tt.ref))
		})
	}
}

func TestResolvePayPeriod_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config payroll.PayrollCycleConfig
		field  string
	}{
		{name: "Custom without start day", config: payroll.PayrollCycleConfig{Mode: payroll.CycleModeCustom, EffectiveFrom: timePtr(date(2025, 1, 1))}, field: "cycle_start_day"},
		{name: "Custom without effective date", config: payroll.PayrollCycleConfig{Mode: payroll.CycleModeCustom, CycleStartDay: intPtr(5)}, field: "effective_from"},
		{name: "Start day zero", config: customCycle(0, date(2025, 1, 1)), field: "cycle_start_day"},
		{name: "Start day 32", config: customCycle(32, date(2025, 1, 1)), field: "cycle_start_day"},
		{name: "Unknown mode", config: payroll.PayrollCycleConfig{Mode: "weekly"}, field: "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolvePayPeriod(date(2026, 1, 10), tt.config)
			require.Error(t, err)
			assert.ErrorIs(t, err, calculation.ErrInvalidConfiguration)

			var cfgErr *calculation.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestResolvePayPeriod_CustomProperties(t *testing.T) {
	effective := date(2020, time.January, 1)
	from := date(2024, time.January, 1)
	to := date(2026, time.December, 31)

	for d := 1; d <= 31; d++ {
		config := customCycle(d, effective)
		for ref := from; !ref.After(to); ref = ref.AddDate(0, 0, 3) {
			first, err := ResolvePayPeriod(ref, config)
			require.NoError(t, err)

			second, err := ResolvePayPeriod(ref, config)
			require.NoError(t, err)
			require.Equal(t, first, second, "idempotent for d=%d ref=%s", d, ref.Format("2006-01-02"))

			require.True(t, first.Contains(ref), "d=%d ref=%s period=%s", d, ref.Format("2006-01-02"), first)
			require.GreaterOrEqual(t, first.Days(), 28, "d=%d period=%s", d, first)
			require.LessOrEqual(t, first.Days(), 31, "d=%d period=%s", d, first)
			require.Equal(t, min(d, daysIn(first.Start.Year(), first.Start.Month())), first.Start.Day(),
				"d=%d period=%s", d, first)
		}
	}
}

func TestNextAndPreviousPayPeriod(t *testing.T) {
	config := customCycle(31, date(2020, time.January, 1))

	period, err := ResolvePayPeriod(date(2026, time.January, 15), config)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.December, 31), period.Start)

	// consecutive periods are contiguous
	for i := 0; i < 24; i++ {
		next, err := NextPayPeriod(period, config)
		require.NoError(t, err)
		assert.Equal(t, period.End.AddDate(0, 0, 1), next.Start)

		prev, err := PreviousPayPeriod(next, config)
		require.NoError(t, err)
		assert.Equal(t, period, prev)

		period = next
	}
}

func TestPayPeriod_Helpers(t *testing.T) {
	p := payroll.PayPeriod{Start: date(2025, time.December, 19), End: date(2026, time.January, 18)}

	assert.Equal(t, 31, p.Days())
	assert.Equal(t, "2025-12-19 - 2026-01-18", p.String())
	assert.True(t, p.Contains(time.Date(2026, time.January, 18, 18, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(date(2026, time.January, 19)))
	assert.False(t, p.Contains(date(2025, time.December, 18)))
}
