package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationMethod enum - how TotalExpectedDays was counted for the period.
// Resolved by the attendance subsystem when the record is ingested; the
// payroll engine never recomputes it.
type CalculationMethod string

const (
	MethodWorkingDays  CalculationMethod = "working_days"
	MethodCalendarDays CalculationMethod = "calendar_days"
)

// Record - per staff per period attendance input.
type Record struct {
	ID                  string
	StaffID             string
	Month               int
	Year                int
	ActualWorkingDays   int
	TotalExpectedDays   int
	CalculationMethod   CalculationMethod
	ReadyForCalculation bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RawFactor returns ActualWorkingDays / TotalExpectedDays without clamping.
// Zero expected days is a configuration error, never a silent 1.0.
func (r Record) RawFactor() (decimal.Decimal, error) {
	if r.TotalExpectedDays == 0 {
		return decimal.Zero, ErrZeroExpectedDays
	}
	return decimal.NewFromInt(int64(r.ActualWorkingDays)).
		DivRound(decimal.NewFromInt(int64(r.TotalExpectedDays)), 8), nil
}
