package emolument

import (
	"strings"
	"time"

	"github.com/zenithhr/payroll-backend-go/internal/pkg/validator"
)

// ========== COMPONENT DTOs ==========

type CreateComponentRequest struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	PayrollCategory string  `json:"payroll_category"`
	IsPensionable   bool    `json:"is_pensionable"`
	ClientID        *string `json:"client_id,omitempty"`
	DisplayOrder    int     `json:"display_order"`
}

var payrollCategories = []string{
	string(CategorySalary),
	string(CategoryAllowance),
	string(CategoryReimbursable),
	string(CategoryDeduction),
	string(CategoryStatutory),
}

func (r *CreateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "is required"})
	} else if r.Code != strings.ToUpper(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be uppercase"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !validator.IsInSlice(r.PayrollCategory, payrollCategories) {
		errs = append(errs, validator.ValidationError{Field: "payroll_category", Message: "must be one of " + strings.Join(payrollCategories, ", ")})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ComponentResponse struct {
	ID                  string    `json:"id"`
	Code                string    `json:"code"`
	Name                string    `json:"name"`
	PayrollCategory     string    `json:"payroll_category"`
	IsPensionable       bool      `json:"is_pensionable"`
	IsUniversalTemplate bool      `json:"is_universal_template"`
	ClientID            *string   `json:"client_id,omitempty"`
	IsActive            bool      `json:"is_active"`
	DisplayOrder        int       `json:"display_order"`
	CreatedAt           time.Time `json:"created_at"`
}
