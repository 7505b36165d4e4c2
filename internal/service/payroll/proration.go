package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/zenithhr/payroll-backend-go/internal/domain/attendance"
)

var one = decimal.NewFromInt(1)

// AttendanceFactor derives the bounded proration factor for a record.
//
// rawFactor = actualWorkingDays / totalExpectedDays, clamped into
// [minimumFactor, 1.0]. minimumFactor is the calculation template's pay floor
// (default 0): a template may guarantee e.g. half pay regardless of
// attendance. Zero expected days fails with ErrZeroExpectedDays.
func AttendanceFactor(rec attendance.Record, minimumFactor decimal.Decimal) (decimal.Decimal, error) {
	factor, err := rec.RawFactor()
	if err != nil {
		return decimal.Zero, err
	}
	if factor.LessThan(minimumFactor) {
		factor = minimumFactor
	}
	if factor.GreaterThan(one) {
		factor = one
	}
	return factor, nil
}
