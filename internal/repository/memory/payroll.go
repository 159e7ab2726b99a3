package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/google/uuid"
)

type cycleKey struct {
	companyID  string
	employeeID string
}

type payrollRepository struct {
	mu       sync.RWMutex
	settings map[string]payroll.PayrollSettings
	cycles   map[cycleKey]payroll.CycleAssignment
	brackets map[string][]payroll.TaxBracket
	runs     map[string]payroll.PayrollRun
}

func NewPayrollRepository() payroll.PayrollRepository {
	return &payrollRepository{
		settings: make(map[string]payroll.PayrollSettings),
		cycles:   make(map[cycleKey]payroll.CycleAssignment),
		brackets: make(map[string][]payroll.TaxBracket),
		runs:     make(map[string]payroll.PayrollRun),
	}
}

// ========== SETTINGS ==========

func (r *payrollRepository) GetSettings(ctx context.Context, companyID string) (payroll.PayrollSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[companyID]
	if !ok {
		return payroll.PayrollSettings{}, payroll.ErrPayrollSettingsNotFound
	}
	return s, nil
}

func (r *payrollRepository) UpsertSettings(ctx context.Context, settings payroll.PayrollSettings) (payroll.PayrollSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.settings[settings.CompanyID]; ok {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
	} else {
		settings.ID = uuid.NewString()
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	r.settings[settings.CompanyID] = settings
	return settings, nil
}

// ========== CYCLE CONFIGS ==========

func (r *payrollRepository) GetCycleConfig(ctx context.Context, companyID, employeeID string) (payroll.CycleAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.cycles[cycleKey{companyID, employeeID}]
	if !ok {
		return payroll.CycleAssignment{}, payroll.ErrCycleConfigNotFound
	}
	return a, nil
}

func (r *payrollRepository) UpsertCycleConfig(ctx context.Context, assignment payroll.CycleAssignment) (payroll.CycleAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := cycleKey{assignment.CompanyID, assignment.EmployeeID}
	now := time.Now().UTC()
	if existing, ok := r.cycles[key]; ok {
		assignment.ID = existing.ID
		assignment.CreatedAt = existing.CreatedAt
	} else {
		assignment.ID = uuid.NewString()
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	r.cycles[key] = assignment
	return assignment, nil
}

// ========== TAX BRACKETS ==========

func (r *payrollRepository) GetTaxBrackets(ctx context.Context, companyID string) ([]payroll.TaxBracket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.brackets[companyID]
	if !ok || len(b) == 0 {
		return nil, payroll.ErrTaxBracketsNotFound
	}
	return append([]payroll.TaxBracket(nil), b...), nil
}

func (r *payrollRepository) ReplaceTaxBrackets(ctx context.Context, companyID string, brackets []payroll.TaxBracket) ([]payroll.TaxBracket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := append([]payroll.TaxBracket(nil), brackets...)
	r.brackets[companyID] = stored
	return append([]payroll.TaxBracket(nil), stored...), nil
}

// ========== RUNS ==========

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.CreatedAt = time.Now().UTC()
	r.runs[run.ID] = run
	return run, nil
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id, companyID string) (payroll.PayrollRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok || run.CompanyID != companyID {
		return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
	}
	return run, nil
}
