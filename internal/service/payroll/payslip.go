package payroll

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Payslip holds everything printed on one payslip
type Payslip struct {
	CompanyID    string
	EmployeeID   string
	EmployeeName string
	Period       payroll.PayPeriod
	Breakdown    payroll.SalaryBreakdown
	GeneratedAt  time.Time
}

type payslipLine struct {
	label  string
	amount decimal.Decimal
}

// RenderPayslip renders a single page A4 payslip.
func RenderPayslip(p Payslip) ([]byte, error) {
	b := p.Breakdown

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(p.GeneratedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", p.EmployeeName))
	pdf.Ln(6)
	if p.EmployeeID != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Employee ID: %s", p.EmployeeID))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", p.Period.Start.Format("2006-01-02"), p.Period.End.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Hourly rate: %s   Daily rate: %s", b.HourlyRate.StringFixed(2), b.DailyRate.StringFixed(2)))
	pdf.Ln(10)

	writeSection(pdf, "Earnings", []payslipLine{
		{"Base salary", b.BaseSalary},
		{"Allowances", b.Allowances},
		{"Overtime", b.OvertimeAmount},
		{"Bonus", b.Bonus},
		{"Commission", b.Commission},
	}, "Gross salary", b.GrossSalary)

	writeSection(pdf, "Deductions", []payslipLine{
		{"Tax", b.TaxDeduction},
		{"Provident fund", b.ProvidentFund},
		{"Insurance", b.Insurance},
		{"Loan", b.LoanDeduction},
		{"Other", b.OtherDeductions},
	}, "Total deductions", b.TotalDeductions)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(120, 9, "Net salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, b.NetSalary.StringFixed(2), "T", 1, "R", false, 0, "")
	if b.NegativeNet {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 7, "Net salary is negative, check the deductions.")
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.Ln(6)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s", p.GeneratedAt.UTC().Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *gofpdf.Fpdf, title string, lines []payslipLine, totalLabel string, total decimal.Decimal) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		if l.amount.IsZero() {
			continue
		}
		pdf.CellFormat(120, 7, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, l.amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 7, totalLabel, "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, total.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.Ln(4)
}
