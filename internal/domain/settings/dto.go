package settings

import (
	"encoding/json"
	"time"

	"github.com/zenithhr/payroll-backend-go/internal/pkg/validator"
)

// ========== SETTINGS DTOs ==========

type SettingResponse struct {
	ID            string          `json:"id"`
	SettingKey    string          `json:"setting_key"`
	SettingType   string          `json:"setting_type"`
	Value         json.RawMessage `json:"value"`
	Description   *string         `json:"description,omitempty"`
	IsActive      bool            `json:"is_active"`
	EffectiveFrom time.Time       `json:"effective_from"`
	CreatedAt     time.Time       `json:"created_at"`
}

type UpdateSettingRequest struct {
	SettingKey    string          `json:"-"`
	SettingType   string          `json:"setting_type"`
	Value         json.RawMessage `json:"value"`
	Description   *string         `json:"description,omitempty"`
	EffectiveFrom *time.Time      `json:"effective_from,omitempty"`
}

func (r *UpdateSettingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SettingKey) {
		errs = append(errs, validator.ValidationError{Field: "setting_key", Message: "is required"})
	}
	switch SettingType(r.SettingType) {
	case SettingTypeTaxBracket, SettingTypeStatutoryRate, SettingTypeFormula, SettingTypeReference:
	default:
		errs = append(errs, validator.ValidationError{Field: "setting_type", Message: "must be one of tax_bracket, statutory_rate, formula, reference"})
	}
	if len(r.Value) == 0 {
		errs = append(errs, validator.ValidationError{Field: "value", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TaxBracketResponse struct {
	ID            string     `json:"id"`
	TierNumber    int        `json:"tier_number"`
	IncomeFrom    string     `json:"income_from"`
	IncomeTo      *string    `json:"income_to,omitempty"`
	TaxRate       string     `json:"tax_rate"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}
