package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/memory"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	payrollService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	taxBrackets, err := config.LoadTaxBrackets(cfg.Engine.TaxBracketsFile)
	if err != nil {
		return err
	}
	if len(taxBrackets) > 0 {
		slog.Info("Tax brackets loaded", "file", cfg.Engine.TaxBracketsFile, "brackets", len(taxBrackets))
	}

	var (
		attendanceSettingsRepo attendance.AttendanceSettingsRepository
		payrollRepo            payroll.PayrollRepository
	)

	switch cfg.Database.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if cfg.Database.RunMigrations {
			if err := postgresql.Migrate(ctx, db); err != nil {
				return err
			}
		}

		attendanceSettingsRepo = postgresql.NewAttendanceSettingsRepository(db)
		payrollRepo = postgresql.NewPayrollRepository(db)
	case config.StoreDriverMemory:
		slog.Warn("Using in-memory store, settings are lost on restart")
		attendanceSettingsRepo = memory.NewAttendanceSettingsRepository()
		payrollRepo = memory.NewPayrollRepository()
	}

	attendanceSvc := attendanceService.NewAttendanceService(attendanceSettingsRepo, cfg.ScheduleDefaults())
	payrollSvc := payrollService.NewPayrollService(payrollRepo, attendanceSvc, cfg.PayrollDefaults(), taxBrackets)

	scheduler := cron.NewScheduler(ctx)
	cron.NewPayrollJobs(payrollSvc, cfg.Engine.SettingsRefreshInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
	}, attendanceHandler, payrollHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
