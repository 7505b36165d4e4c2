package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus enum
//
// Lifecycle: draft → calculated → approved → exported.
// cancelled is reachable from draft or calculated only; cancelling keeps the
// run's items but marks them superseded.
type RunStatus string

const (
	RunStatusDraft      RunStatus = "draft"
	RunStatusCalculated RunStatus = "calculated"
	RunStatusApproved   RunStatus = "approved"
	RunStatusExported   RunStatus = "exported"
	RunStatusCancelled  RunStatus = "cancelled"
)

// CanTransition reports whether the state machine allows from → to.
func CanTransition(from, to RunStatus) bool {
	switch to {
	case RunStatusCalculated:
		return from == RunStatusDraft
	case RunStatusApproved:
		return from == RunStatusCalculated
	case RunStatusExported:
		return from == RunStatusApproved
	case RunStatusCancelled:
		return from == RunStatusDraft || from == RunStatusCalculated
	case RunStatusDraft:
		// Re-opening to fix a setting; all items are invalidated.
		return from == RunStatusCalculated
	}
	return false
}

// Run - one payroll run per (client, month, year), unique among non-cancelled.
type Run struct {
	ID          string
	ClientID    string
	Month       int
	Year        int
	Status      RunStatus
	Notes       *string
	RunTotals

	CreatedBy    *string
	CalculatedAt *time.Time
	ApprovedBy   *string
	ApprovedAt   *time.Time
	ExportedAt   *time.Time
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RunTotals - aggregates over the run's successfully calculated items.
type RunTotals struct {
	StaffCount        int
	TotalGrossPay     decimal.Decimal
	TotalDeductions   decimal.Decimal
	TotalNetPay       decimal.Decimal
	TotalCreditToBank decimal.Decimal
}

// PeriodEnd returns the last day of the run's month, used as the as-of date
// for settings and bracket resolution.
func (r Run) PeriodEnd() time.Time {
	return time.Date(r.Year, time.Month(r.Month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// Item - the immutable calculation snapshot for one staff member in one run.
// Every intermediate amount is persisted so the breakdown can be audited and
// reproduced without re-reading mutable upstream records.
type Item struct {
	ID       string
	RunID    string
	StaffID  string
	ClientID string

	// Staff snapshot as of calculation time
	StaffName     string
	StaffCode     string
	BankName      *string
	AccountNumber *string
	PFACode       *string

	// Attendance inputs
	DaysPresent     int
	DaysAbsent      int
	TotalDays       int
	ProrationFactor decimal.Decimal

	// Annual reference amounts
	AnnualGrossSalary   decimal.Decimal
	AnnualReimbursables decimal.Decimal
	PensionableAmount   decimal.Decimal

	// Monthly entitlement (unprorated, for reporting) and actual payment
	MonthlyGross                 decimal.Decimal
	MonthlyReimbursables         decimal.Decimal
	ProratedMonthlyGross         decimal.Decimal
	ProratedMonthlyReimbursables decimal.Decimal

	// Tax reliefs (reduce taxable income, never deducted from pay)
	PensionRelief decimal.Decimal
	NHISRelief    decimal.Decimal
	RentRelief    decimal.Decimal

	// Tax
	TaxableIncome decimal.Decimal
	AnnualPayeTax decimal.Decimal
	MonthlyPaye   decimal.Decimal

	// Deductions
	PensionDeduction         decimal.Decimal
	LeaveAllowanceDeduction  decimal.Decimal
	ThirteenthMonthDeduction decimal.Decimal
	OtherDeductions          decimal.Decimal
	TotalDeductions          decimal.Decimal

	// Final amounts
	NetPay       decimal.Decimal
	CreditToBank decimal.Decimal

	EmolumentsSnapshot map[string]decimal.Decimal

	Superseded      bool
	CalculationDate time.Time
	CreatedAt       time.Time
}
