package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/zenithhr/payroll-backend-go/internal/domain/attendance"
	"github.com/zenithhr/payroll-backend-go/internal/domain/emolument"
	"github.com/zenithhr/payroll-backend-go/internal/domain/payroll"
	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
	"github.com/zenithhr/payroll-backend-go/internal/domain/staff"
	settingsvc "github.com/zenithhr/payroll-backend-go/internal/service/settings"
	"github.com/zenithhr/payroll-backend-go/internal/service/tax"
)

var (
	oneHundred            = decimal.NewFromInt(100)
	defaultDivisionFactor = decimal.NewFromInt(12)
)

// CalculationInput carries everything one item calculation reads. All inputs
// are value copies or frozen snapshots, so the function is deterministic:
// identical inputs produce a byte-identical breakdown.
type CalculationInput struct {
	Staff      staff.Staff
	PayGrade   emolument.PayGradeStructure
	Attendance attendance.Record
	Catalog    emolument.Catalog
	Settings   *settingsvc.Snapshot
}

// CalculateItem produces the full payroll breakdown for one staff member.
//
// Monthly gross and reimbursables are kept twice: the unprorated entitlement
// for reporting and the prorated actual payment. PAYE divides the annual
// figure without proration; the pension deduction is prorated because it is
// withheld from actual pay, unlike the pension relief which only narrows the
// tax base.
func CalculateItem(in CalculationInput) (payroll.Item, error) {
	snap := in.Settings

	// Step 1: classify the grade's emoluments.
	agg, err := AggregateEmoluments(in.PayGrade.Emoluments, in.Catalog)
	if err != nil {
		return payroll.Item{}, err
	}

	divisionFactor, err := snap.AmountOrDefault(settings.KeyAnnualDivisionFactor, defaultDivisionFactor)
	if err != nil {
		return payroll.Item{}, err
	}
	minimumFactor, err := snap.AmountOrDefault(settings.KeyMinAttendanceFactor, decimal.Zero)
	if err != nil {
		return payroll.Item{}, err
	}
	pensionRate, err := snap.Rate(settings.KeyPensionRate)
	if err != nil {
		return payroll.Item{}, err
	}
	nhisRate, err := snap.Rate(settings.KeyNHISRate)
	if err != nil {
		return payroll.Item{}, err
	}
	rentReliefRate, err := snap.Rate(settings.KeyRentReliefRate)
	if err != nil {
		return payroll.Item{}, err
	}
	rentReliefCap, err := snap.Amount(settings.KeyRentReliefCap)
	if err != nil {
		return payroll.Item{}, err
	}

	// Steps 2-3: full monthly entitlement, unprorated. Kept for reporting
	// even when attendance reduces the actual payment.
	monthlyGross := agg.AnnualGross.DivRound(divisionFactor, 2)
	monthlyReimbursables := agg.AnnualReimbursables.DivRound(divisionFactor, 2)

	// Step 4: bounded attendance factor.
	prorationFactor, err := AttendanceFactor(in.Attendance, minimumFactor)
	if err != nil {
		return payroll.Item{}, err
	}

	// Step 5: actual payment amounts.
	proratedMonthlyGross := monthlyGross.Mul(prorationFactor).Round(2)
	proratedMonthlyReimbursables := monthlyReimbursables.Mul(prorationFactor).Round(2)

	// Step 6: reliefs. These narrow taxable income only; none of them is
	// withheld from pay.
	pensionRelief := agg.PensionableAmount.Mul(pensionRate).Div(oneHundred).Round(2)
	nhisRelief := agg.BasicSalary.Mul(nhisRate).Div(oneHundred).Round(2)
	rentRelief := in.Staff.AnnualRentPaid.Mul(rentReliefRate).Div(oneHundred).Round(2)
	if rentRelief.GreaterThan(rentReliefCap) {
		rentRelief = rentReliefCap
	}

	// Step 7: annual taxable income, floored at zero.
	taxableIncome := agg.AnnualGross.Sub(pensionRelief).Sub(nhisRelief).Sub(rentRelief)
	if taxableIncome.IsNegative() {
		taxableIncome = decimal.Zero
	}

	// Step 8: annual PAYE on full taxable capacity; the monthly deduction is
	// the annual figure divided, never prorated by attendance.
	annualPaye, err := tax.Compute(snap.Brackets(), taxableIncome)
	if err != nil {
		return payroll.Item{}, err
	}
	monthlyPaye := annualPaye.DivRound(divisionFactor, 2)

	// Step 9: pension withheld from actual pay, so it is prorated.
	pensionDeduction := agg.PensionableAmount.Mul(pensionRate).Div(oneHundred).
		Div(divisionFactor).Mul(prorationFactor).Round(2)

	// Step 10: annual lump-sum components reserved monthly.
	leaveAllowanceDeduction := agg.LeaveAllowance.Div(divisionFactor).Mul(prorationFactor).Round(2)
	thirteenthMonthDeduction := agg.ThirteenthMonth.Div(divisionFactor).Mul(prorationFactor).Round(2)
	otherDeductions := decimal.Zero

	// Steps 11-13.
	totalDeductions := monthlyPaye.Add(pensionDeduction).
		Add(leaveAllowanceDeduction).Add(thirteenthMonthDeduction).Add(otherDeductions)
	netPay := proratedMonthlyGross.Sub(totalDeductions)
	creditToBank := netPay.Add(proratedMonthlyReimbursables)

	// Days logged past the expected period length do not raise pay; the
	// factor already clamps at 1, and the recorded days clamp with it.
	daysPresent := in.Attendance.ActualWorkingDays
	if daysPresent > in.Attendance.TotalExpectedDays {
		daysPresent = in.Attendance.TotalExpectedDays
	}

	item := payroll.Item{
		StaffID:  in.Staff.ID,
		ClientID: in.Staff.ClientID,

		StaffName:     in.Staff.FullName(),
		StaffCode:     in.Staff.EmployeeCode,
		BankName:      copyString(in.Staff.BankName),
		AccountNumber: copyString(in.Staff.AccountNumber),
		PFACode:       copyString(in.Staff.PFACode),

		DaysPresent:     daysPresent,
		DaysAbsent:      in.Attendance.TotalExpectedDays - daysPresent,
		TotalDays:       in.Attendance.TotalExpectedDays,
		ProrationFactor: prorationFactor,

		AnnualGrossSalary:   agg.AnnualGross,
		AnnualReimbursables: agg.AnnualReimbursables,
		PensionableAmount:   agg.PensionableAmount,

		MonthlyGross:                 monthlyGross,
		MonthlyReimbursables:         monthlyReimbursables,
		ProratedMonthlyGross:         proratedMonthlyGross,
		ProratedMonthlyReimbursables: proratedMonthlyReimbursables,

		PensionRelief: pensionRelief,
		NHISRelief:    nhisRelief,
		RentRelief:    rentRelief,

		TaxableIncome: taxableIncome,
		AnnualPayeTax: annualPaye,
		MonthlyPaye:   monthlyPaye,

		PensionDeduction:         pensionDeduction,
		LeaveAllowanceDeduction:  leaveAllowanceDeduction,
		ThirteenthMonthDeduction: thirteenthMonthDeduction,
		OtherDeductions:          otherDeductions,
		TotalDeductions:          totalDeductions,

		NetPay:       netPay,
		CreditToBank: creditToBank,

		EmolumentsSnapshot: agg.Snapshot,

		CalculationDate: snap.AsOf(),
	}

	if err := validateItem(item); err != nil {
		return payroll.Item{}, err
	}

	return item, nil
}

// copyString keeps the item's snapshot independent of the staff record it was
// read from.
func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
