package emolument

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollCategory enum
type PayrollCategory string

const (
	CategorySalary       PayrollCategory = "salary"
	CategoryAllowance    PayrollCategory = "allowance"
	CategoryReimbursable PayrollCategory = "reimbursable"
	CategoryDeduction    PayrollCategory = "deduction"
	CategoryStatutory    PayrollCategory = "statutory"
)

// Universal template component codes referenced by the calculation engine.
const (
	CodeBasicSalary     = "BASIC_SALARY"
	CodeHousing         = "HOUSING"
	CodeTransport       = "TRANSPORT"
	CodeLeaveAllowance  = "LEAVE_ALLOWANCE"
	CodeThirteenthMonth = "THIRTEENTH_MONTH"
)

// Component - a named pay element in the catalog.
// Immutable once referenced by a calculation; edits create a new component
// row rather than changing what a historical snapshot meant.
type Component struct {
	ID                  string
	Code                string
	Name                string
	PayrollCategory     PayrollCategory
	IsPensionable       bool
	IsUniversalTemplate bool
	ClientID            *string // nil = shared across all clients
	IsActive            bool
	DisplayOrder        int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// PayGradeStructure - a job structure's emolument amounts, keyed by component
// code with annual amounts. Read-only input to calculation.
type PayGradeStructure struct {
	ID             string
	JobStructureID string
	Name           string
	Emoluments     map[string]decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Catalog indexes components by code for calculation-time lookup.
type Catalog map[string]Component

func NewCatalog(components []Component) Catalog {
	c := make(Catalog, len(components))
	for _, comp := range components {
		c[comp.Code] = comp
	}
	return c
}

// Lookup resolves a component code. Unknown codes are an input error, never
// silently skipped: skipping would underpay or undercount the tax base.
func (c Catalog) Lookup(code string) (Component, error) {
	comp, ok := c[code]
	if !ok {
		return Component{}, fmt.Errorf("%w: %s", ErrUnknownComponent, code)
	}
	return comp, nil
}
