package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/zenithhr/payroll-backend-go/internal/domain/emolument"
)

// Aggregation - a pay grade's component amounts classified for calculation.
type Aggregation struct {
	AnnualGross         decimal.Decimal
	PensionableAmount   decimal.Decimal
	AnnualReimbursables decimal.Decimal

	// Category "salary" total, the NHIS relief base.
	BasicSalary decimal.Decimal

	// Deduction-category components handled explicitly by the calculator.
	LeaveAllowance  decimal.Decimal
	ThirteenthMonth decimal.Decimal

	// Every resolved component amount, persisted as the item's snapshot.
	Snapshot map[string]decimal.Decimal
}

// AggregateEmoluments classifies a grade's component-amount map against the
// catalog.
//
// Gross is salary + allowance only; pensionable follows the is_pensionable
// flag regardless of category; reimbursables are tracked separately and never
// enter the tax base. Deduction and statutory components are excluded from
// gross and surfaced individually for the calculator.
func AggregateEmoluments(emoluments map[string]decimal.Decimal, catalog emolument.Catalog) (Aggregation, error) {
	agg := Aggregation{
		AnnualGross:         decimal.Zero,
		PensionableAmount:   decimal.Zero,
		AnnualReimbursables: decimal.Zero,
		BasicSalary:         decimal.Zero,
		LeaveAllowance:      decimal.Zero,
		ThirteenthMonth:     decimal.Zero,
		Snapshot:            make(map[string]decimal.Decimal, len(emoluments)),
	}

	for code, amount := range emoluments {
		comp, err := catalog.Lookup(code)
		if err != nil {
			return Aggregation{}, err
		}

		agg.Snapshot[code] = amount

		switch comp.PayrollCategory {
		case emolument.CategorySalary:
			agg.AnnualGross = agg.AnnualGross.Add(amount)
			agg.BasicSalary = agg.BasicSalary.Add(amount)
		case emolument.CategoryAllowance:
			agg.AnnualGross = agg.AnnualGross.Add(amount)
		case emolument.CategoryReimbursable:
			agg.AnnualReimbursables = agg.AnnualReimbursables.Add(amount)
		case emolument.CategoryDeduction:
			switch code {
			case emolument.CodeLeaveAllowance:
				agg.LeaveAllowance = agg.LeaveAllowance.Add(amount)
			case emolument.CodeThirteenthMonth:
				agg.ThirteenthMonth = agg.ThirteenthMonth.Add(amount)
			}
		case emolument.CategoryStatutory:
			// Statutory components are driven by settings, not grade amounts.
		}

		if comp.IsPensionable {
			agg.PensionableAmount = agg.PensionableAmount.Add(amount)
		}
	}

	return agg, nil
}
