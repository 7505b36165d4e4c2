package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingType enum
type SettingType string

const (
	SettingTypeTaxBracket    SettingType = "tax_bracket"
	SettingTypeStatutoryRate SettingType = "statutory_rate"
	SettingTypeFormula       SettingType = "formula"
	SettingTypeReference     SettingType = "reference"
)

// Well-known setting keys consumed by the calculation engine.
const (
	KeyPensionRate          = "PENSION_RATE"
	KeyNHISRate             = "NHIS_RATE"
	KeyRentReliefRate       = "RENT_RELIEF_RATE"
	KeyRentReliefCap        = "RENT_RELIEF_CAP"
	KeyAnnualDivisionFactor = "ANNUAL_DIVISION_FACTOR"
	KeyMinAttendanceFactor  = "MIN_ATTENDANCE_FACTOR"
)

// PayrollSetting - one versioned configuration row.
// Edits never mutate a row in place: the active row is deactivated and a new
// row inserted, so historical runs stay reproducible.
type PayrollSetting struct {
	ID            string
	SettingKey    string
	SettingType   SettingType
	RawValue      []byte // JSON payload, decoded via ParseValue
	Description   *string
	IsActive      bool
	EffectiveFrom time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TaxBracket - one tier of a progressive PAYE schedule.
// Tiers active for the same period are contiguous and non-overlapping; the
// highest tier has IncomeTo = nil.
type TaxBracket struct {
	ID            string
	TierNumber    int
	IncomeFrom    decimal.Decimal
	IncomeTo      *decimal.Decimal // nil = unbounded top tier
	TaxRate       decimal.Decimal  // percentage
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
}

// ActiveAt reports whether the bracket applies on the given date.
func (b TaxBracket) ActiveAt(asOf time.Time) bool {
	if b.EffectiveFrom.After(asOf) {
		return false
	}
	return b.EffectiveTo == nil || !b.EffectiveTo.Before(asOf)
}
