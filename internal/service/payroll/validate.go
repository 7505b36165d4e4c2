package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zenithhr/payroll-backend-go/internal/domain/payroll"
)

// validateItem cross-checks a finished breakdown before it is persisted.
// A mismatch here is a calculation bug, reported for the affected staff
// member instead of writing a wrong amount to the audit trail.
func validateItem(item payroll.Item) error {
	if item.ProrationFactor.IsNegative() || item.ProrationFactor.GreaterThan(one) {
		return fmt.Errorf("%w: proration factor %s outside [0, 1]", payroll.ErrCalculationInvalid, item.ProrationFactor)
	}
	if item.DaysPresent+item.DaysAbsent != item.TotalDays {
		return fmt.Errorf("%w: attendance days do not add up", payroll.ErrCalculationInvalid)
	}
	if item.MonthlyGross.IsNegative() {
		return fmt.Errorf("%w: monthly gross is negative", payroll.ErrCalculationInvalid)
	}

	expectedDeductions := item.MonthlyPaye.
		Add(item.PensionDeduction).
		Add(item.LeaveAllowanceDeduction).
		Add(item.ThirteenthMonthDeduction).
		Add(item.OtherDeductions)
	if !expectedDeductions.Equal(item.TotalDeductions) {
		return fmt.Errorf("%w: total deductions mismatch: %s != %s", payroll.ErrCalculationInvalid, item.TotalDeductions, expectedDeductions)
	}

	if !item.ProratedMonthlyGross.Sub(item.TotalDeductions).Equal(item.NetPay) {
		return fmt.Errorf("%w: net pay mismatch", payroll.ErrCalculationInvalid)
	}
	if !item.NetPay.Add(item.ProratedMonthlyReimbursables).Equal(item.CreditToBank) {
		return fmt.Errorf("%w: credit to bank mismatch", payroll.ErrCalculationInvalid)
	}
	if item.TaxableIncome.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: taxable income is negative", payroll.ErrCalculationInvalid)
	}

	return nil
}
