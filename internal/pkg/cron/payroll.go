package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
)

// PayrollJobs contains payroll-related cron jobs
type PayrollJobs struct {
	payrollService  payroll.PayrollService
	refreshInterval time.Duration
}

// NewPayrollJobs creates payroll cron jobs
func NewPayrollJobs(payrollService payroll.PayrollService, refreshInterval time.Duration) *PayrollJobs {
	return &PayrollJobs{
		payrollService:  payrollService,
		refreshInterval: refreshInterval,
	}
}

// RegisterJobs registers all payroll-related cron jobs
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	// Pick up settings changed by other instances sharing the database
	scheduler.AddJob(
		"refresh_payroll_settings",
		j.refreshInterval,
		j.RefreshSettings,
	)
}

// RefreshSettings reloads the cached company payroll settings
func (j *PayrollJobs) RefreshSettings(ctx context.Context) error {
	return j.payrollService.RefreshSettingsCache(ctx)
}
