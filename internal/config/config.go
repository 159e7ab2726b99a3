package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Driver        string // postgres or memory
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxConns      int32
	MinConns      int32
	RunMigrations bool
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// EngineConfig holds the built-in calculation defaults used for companies
// without stored settings.
type EngineConfig struct {
	LateThresholdMinutes int
	StandardWorkingHours float64
	FullDayMinHours      float64
	HalfDayMinHours      float64
	ShortLeaveMinHours   float64

	StandardMonthlyHours decimal.Decimal
	StandardDailyHours   decimal.Decimal
	OvertimeMultipliers  payroll.OvertimeMultipliers
	PerformanceBonusRate decimal.Decimal
	TaxMode              payroll.TaxMode
	TaxRate              decimal.Decimal
	ProvidentFundRate    *decimal.Decimal

	TaxBracketsFile         string
	SettingsRefreshInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "25"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	runMigrations, err := strconv.ParseBool(getEnv("DB_RUN_MIGRATIONS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_RUN_MIGRATIONS: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:        getEnv("STORE_DRIVER", StoreDriverPostgres),
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          dbPort,
		User:          getEnv("DB_USER", "postgres"),
		Password:      getEnv("DB_PASSWORD", ""),
		Name:          getEnv("DB_NAME", "hris-payroll"),
		SSLMode:       getEnv("DB_SSL_MODE", "disable"),
		MaxConns:      int32(maxConns),
		MinConns:      int32(minConns),
		RunMigrations: runMigrations,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "hris-payroll-engine"),
		Version:        getEnv("APP_VERSION", "v0.1.0"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// Engine defaults
	engine, err := loadEngine()
	if err != nil {
		return nil, err
	}
	config.Engine = engine

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadEngine() (EngineConfig, error) {
	var errs []error

	intVar := func(key, fallback string) int {
		v, err := strconv.Atoi(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}
	floatVar := func(key, fallback string) float64 {
		v, err := strconv.ParseFloat(getEnv(key, fallback), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}
	decimalVar := func(key, fallback string) decimal.Decimal {
		v, err := decimal.NewFromString(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}

	engine := EngineConfig{
		LateThresholdMinutes: intVar("LATE_THRESHOLD_MINUTES", "15"),
		StandardWorkingHours: floatVar("STANDARD_WORKING_HOURS", "8"),
		FullDayMinHours:      floatVar("FULL_DAY_MIN_HOURS", "8"),
		HalfDayMinHours:      floatVar("HALF_DAY_MIN_HOURS", "4"),
		ShortLeaveMinHours:   floatVar("SHORT_LEAVE_MIN_HOURS", "2"),

		StandardMonthlyHours: decimalVar("STANDARD_MONTHLY_HOURS", "200"),
		StandardDailyHours:   decimalVar("STANDARD_DAILY_HOURS", "8"),
		OvertimeMultipliers: payroll.OvertimeMultipliers{
			payroll.DayTypeWeekday:  decimalVar("OVERTIME_MULTIPLIER_WEEKDAY", "1.5"),
			payroll.DayTypeSaturday: decimalVar("OVERTIME_MULTIPLIER_SATURDAY", "1.5"),
			payroll.DayTypeSunday:   decimalVar("OVERTIME_MULTIPLIER_SUNDAY", "2.0"),
			payroll.DayTypeHoliday:  decimalVar("OVERTIME_MULTIPLIER_HOLIDAY", "2.0"),
		},
		PerformanceBonusRate: decimalVar("PERFORMANCE_BONUS_RATE", "0.10"),
		TaxMode:              payroll.ParseTaxMode(getEnv("TAX_MODE", "none")),
		TaxRate:              decimalVar("TAX_RATE", "0"),
		TaxBracketsFile:      getEnv("TAX_BRACKETS_FILE", ""),
	}

	// an empty PROVIDENT_FUND_RATE keeps the provident fund component as given
	if raw, ok := os.LookupEnv("PROVIDENT_FUND_RATE"); !ok || raw != "" {
		rate := decimalVar("PROVIDENT_FUND_RATE", "0.08")
		engine.ProvidentFundRate = &rate
	}

	interval, err := time.ParseDuration(getEnv("SETTINGS_REFRESH_INTERVAL", "5m"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid SETTINGS_REFRESH_INTERVAL: %w", err))
	}
	engine.SettingsRefreshInterval = interval

	return engine, errors.Join(errs...)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverMemory)
	}

	if c.Engine.SettingsRefreshInterval <= 0 {
		return fmt.Errorf("SETTINGS_REFRESH_INTERVAL must be positive")
	}
	if err := c.ScheduleDefaults().Validate(); err != nil {
		return err
	}
	switch c.Engine.TaxMode {
	case payroll.TaxModeNone, payroll.TaxModeFlat, payroll.TaxModeProgressive:
	default:
		return fmt.Errorf("TAX_MODE must be none, flat or progressive")
	}
	if !c.Engine.StandardMonthlyHours.IsPositive() {
		return fmt.Errorf("STANDARD_MONTHLY_HOURS must be greater than zero")
	}
	if c.Engine.StandardDailyHours.IsNegative() {
		return fmt.Errorf("STANDARD_DAILY_HOURS must be non-negative")
	}
	for dayType, m := range c.Engine.OvertimeMultipliers {
		if m.LessThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("OVERTIME_MULTIPLIER_%s must be at least 1.0", strings.ToUpper(string(dayType)))
		}
	}
	return nil
}

// ScheduleDefaults returns the schedule config used when a company has none stored.
func (c *Config) ScheduleDefaults() attendance.ScheduleConfig {
	return attendance.ScheduleConfig{
		LateThresholdMinutes: c.Engine.LateThresholdMinutes,
		StandardWorkingHours: c.Engine.StandardWorkingHours,
		FullDayMinHours:      c.Engine.FullDayMinHours,
		HalfDayMinHours:      c.Engine.HalfDayMinHours,
		ShortLeaveMinHours:   c.Engine.ShortLeaveMinHours,
	}
}

// PayrollDefaults returns the payroll settings used when a company has none stored.
func (c *Config) PayrollDefaults() payroll.PayrollSettings {
	multipliers := make(payroll.OvertimeMultipliers, len(c.Engine.OvertimeMultipliers))
	for k, v := range c.Engine.OvertimeMultipliers {
		multipliers[k] = v
	}
	return payroll.PayrollSettings{
		StandardMonthlyHours: c.Engine.StandardMonthlyHours,
		StandardDailyHours:   c.Engine.StandardDailyHours,
		OvertimeMultipliers:  multipliers,
		PerformanceBonusRate: c.Engine.PerformanceBonusRate,
		TaxMode:              c.Engine.TaxMode,
		TaxRate:              c.Engine.TaxRate,
		ProvidentFundRate:    c.Engine.ProvidentFundRate,
	}
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
