package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PROVIDENT_FUND_RATE", "0.08")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 15, cfg.Engine.LateThresholdMinutes)
	assert.Equal(t, 5*time.Minute, cfg.Engine.SettingsRefreshInterval)

	schedule := cfg.ScheduleDefaults()
	assert.Equal(t, 8.0, schedule.StandardWorkingHours)
	assert.Equal(t, 4.0, schedule.HalfDayMinHours)

	settings := cfg.PayrollDefaults()
	assert.True(t, settings.StandardMonthlyHours.Equal(decimal.NewFromInt(200)))
	assert.True(t, settings.OvertimeMultipliers[payroll.DayTypeSunday].Equal(decimal.NewFromInt(2)))
	assert.Equal(t, payroll.TaxModeNone, settings.TaxMode)
	require.NotNil(t, settings.ProvidentFundRate)
	assert.True(t, settings.ProvidentFundRate.Equal(decimal.RequireFromString("0.08")))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown store driver", "STORE_DRIVER", "sqlite"},
		{"bad multiplier", "OVERTIME_MULTIPLIER_HOLIDAY", "0.5"},
		{"bad monthly hours", "STANDARD_MONTHLY_HOURS", "0"},
		{"bad tax mode", "TAX_MODE", "regressive"},
		{"unordered thresholds", "HALF_DAY_MIN_HOURS", "9"},
		{"bad duration", "SETTINGS_REFRESH_INTERVAL", "soon"},
		{"bad number", "TAX_RATE", "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_PostgresRequiresPassword(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestConfig_SlogLevel(t *testing.T) {
	cfg := &Config{App: AppConfig{LogLevel: "debug"}}
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	cfg.App.LogLevel = "loud"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
