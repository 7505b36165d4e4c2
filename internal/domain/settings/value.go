package settings

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ValueKind discriminates the decoded setting payload.
type ValueKind string

const (
	ValueKindPercentageOfBase   ValueKind = "percentage_of_base"
	ValueKindFixedAmount        ValueKind = "fixed_amount"
	ValueKindProgressiveBracket ValueKind = "progressive_bracket"
	ValueKindReference          ValueKind = "reference"
)

// RateBase names the amount a percentage rate applies to.
type RateBase string

const (
	BasePensionableAmount RateBase = "pensionable_amount"
	BaseBasicSalary       RateBase = "basic_salary"
	BaseAnnualRent        RateBase = "annual_rent"
	BaseAnnualGross       RateBase = "annual_gross"
)

// Value is the decoded form of PayrollSetting.RawValue.
type Value struct {
	Kind   ValueKind
	Rate   decimal.Decimal // percentage, set for percentage_of_base
	Base   RateBase        // set for percentage_of_base
	Amount decimal.Decimal // set for fixed_amount
	Raw    json.RawMessage // original payload, kept for reference values
}

type rawValue struct {
	Kind   string           `json:"kind"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
	Base   *string          `json:"base,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// kindsByType bounds the payload kinds each setting type may carry. A
// statutory rate is a percentage or a capped amount; a formula is a plain
// number; bracket and reference rows carry their marker kind only.
var kindsByType = map[SettingType]map[ValueKind]bool{
	SettingTypeStatutoryRate: {ValueKindPercentageOfBase: true, ValueKindFixedAmount: true},
	SettingTypeFormula:       {ValueKindFixedAmount: true},
	SettingTypeTaxBracket:    {ValueKindProgressiveBracket: true},
	SettingTypeReference:     {ValueKindReference: true},
}

// ParseValue decodes a setting row's payload according to its SettingType.
// Payloads that do not match the expected shape fail with ErrSettingMalformed.
func ParseValue(s PayrollSetting) (Value, error) {
	var raw rawValue
	if err := json.Unmarshal(s.RawValue, &raw); err != nil {
		return Value{}, fmt.Errorf("%w: %s: %v", ErrSettingMalformed, s.SettingKey, err)
	}

	allowed, ok := kindsByType[s.SettingType]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s: unknown setting type %q", ErrSettingMalformed, s.SettingKey, s.SettingType)
	}
	if kind := ValueKind(raw.Kind); !allowed[kind] {
		return Value{}, fmt.Errorf("%w: %s: kind %q is not valid for setting type %q", ErrSettingMalformed, s.SettingKey, raw.Kind, s.SettingType)
	}

	switch ValueKind(raw.Kind) {
	case ValueKindPercentageOfBase:
		if raw.Rate == nil || raw.Base == nil {
			return Value{}, fmt.Errorf("%w: %s: percentage_of_base requires rate and base", ErrSettingMalformed, s.SettingKey)
		}
		if raw.Rate.IsNegative() {
			return Value{}, fmt.Errorf("%w: %s: rate must be non-negative", ErrSettingMalformed, s.SettingKey)
		}
		return Value{Kind: ValueKindPercentageOfBase, Rate: *raw.Rate, Base: RateBase(*raw.Base), Raw: s.RawValue}, nil

	case ValueKindFixedAmount:
		if raw.Amount == nil {
			return Value{}, fmt.Errorf("%w: %s: fixed_amount requires amount", ErrSettingMalformed, s.SettingKey)
		}
		return Value{Kind: ValueKindFixedAmount, Amount: *raw.Amount, Raw: s.RawValue}, nil

	case ValueKindProgressiveBracket:
		// Bracket tiers live in the tax_brackets table; the setting row only
		// marks that the key resolves through the progressive schedule.
		return Value{Kind: ValueKindProgressiveBracket, Raw: s.RawValue}, nil

	case ValueKindReference:
		return Value{Kind: ValueKindReference, Raw: s.RawValue}, nil

	default:
		return Value{}, fmt.Errorf("%w: %s: unknown value kind %q", ErrSettingMalformed, s.SettingKey, raw.Kind)
	}
}
