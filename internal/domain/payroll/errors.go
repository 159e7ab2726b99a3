package payroll

import "errors"

var (
	ErrPayrollSettingsNotFound = errors.New("payroll settings not found")
	ErrCycleConfigNotFound     = errors.New("payroll cycle config not found")
	ErrTaxBracketsNotFound     = errors.New("tax brackets not found")
	ErrPayrollRunNotFound      = errors.New("payroll run not found")
)
