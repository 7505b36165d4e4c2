package fixtures

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zenithhr/payroll-backend-go/internal/domain/emolument"
	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ==========================================
// UNIVERSAL PAYROLL COMPONENTS
// ==========================================

// GetUniversalComponents returns the shared component template seeded for every
// client. ClientID is nil on all of them; client-specific components are
// created on top of these, never instead of them.
func GetUniversalComponents() []emolument.Component {
	return []emolument.Component{
		// Salary
		{Code: emolument.CodeBasicSalary, Name: "Basic Salary", PayrollCategory: emolument.CategorySalary, IsPensionable: true, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 1},

		// Pensionable allowances
		{Code: emolument.CodeHousing, Name: "Housing Allowance", PayrollCategory: emolument.CategoryAllowance, IsPensionable: true, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 2},
		{Code: emolument.CodeTransport, Name: "Transport Allowance", PayrollCategory: emolument.CategoryAllowance, IsPensionable: true, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 3},

		// Non-pensionable allowances
		{Code: "OTHER_ALLOWANCES", Name: "Other Allowances", PayrollCategory: emolument.CategoryAllowance, IsPensionable: false, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 4},
		{Code: "MEAL_ALLOWANCE", Name: "Meal Allowance", PayrollCategory: emolument.CategoryAllowance, IsPensionable: false, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 5},

		// Deducted monthly, paid out as a lump sum when due
		{Code: emolument.CodeLeaveAllowance, Name: "Leave Allowance", PayrollCategory: emolument.CategoryDeduction, IsPensionable: false, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 6},
		{Code: emolument.CodeThirteenthMonth, Name: "Thirteenth Month", PayrollCategory: emolument.CategoryDeduction, IsPensionable: false, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 7},

		// Reimbursables - outside the tax base, paid on top of net
		{Code: "OTJ_TELEPHONE", Name: "On-the-Job Telephone", PayrollCategory: emolument.CategoryReimbursable, IsPensionable: false, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 8},
		{Code: "OTJ_TRANSPORT", Name: "On-the-Job Transport", PayrollCategory: emolument.CategoryReimbursable, IsPensionable: false, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 9},
		{Code: "UNIFORM", Name: "Uniform", PayrollCategory: emolument.CategoryReimbursable, IsPensionable: false, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 10},
		{Code: "CLIENT_OP_FUND", Name: "Client Operational Fund", PayrollCategory: emolument.CategoryReimbursable, IsPensionable: false, IsUniversalTemplate: true, IsActive: true, DisplayOrder: 11},
	}
}

// ==========================================
// DEFAULT PAYROLL SETTINGS
// ==========================================

// GetDefaultSettings returns the statutory configuration rows a fresh
// deployment starts from. Rates follow the Nigeria Tax Act 2025 regime.
func GetDefaultSettings(effectiveFrom time.Time) []settings.PayrollSetting {
	return []settings.PayrollSetting{
		{
			SettingKey:    settings.KeyPensionRate,
			SettingType:   settings.SettingTypeStatutoryRate,
			RawValue:      []byte(`{"kind":"percentage_of_base","rate":"8","base":"pensionable_amount"}`),
			Description:   strPtr("Employee pension contribution, Pension Reform Act 2014"),
			IsActive:      true,
			EffectiveFrom: effectiveFrom,
		},
		{
			SettingKey:    settings.KeyNHISRate,
			SettingType:   settings.SettingTypeStatutoryRate,
			RawValue:      []byte(`{"kind":"percentage_of_base","rate":"5","base":"basic_salary"}`),
			Description:   strPtr("NHIS relief, applied against taxable income only"),
			IsActive:      true,
			EffectiveFrom: effectiveFrom,
		},
		{
			SettingKey:    settings.KeyRentReliefRate,
			SettingType:   settings.SettingTypeStatutoryRate,
			RawValue:      []byte(`{"kind":"percentage_of_base","rate":"20","base":"annual_rent"}`),
			Description:   strPtr("Rent relief rate, Nigeria Tax Act 2025"),
			IsActive:      true,
			EffectiveFrom: effectiveFrom,
		},
		{
			SettingKey:    settings.KeyRentReliefCap,
			SettingType:   settings.SettingTypeStatutoryRate,
			RawValue:      []byte(`{"kind":"fixed_amount","amount":"500000"}`),
			Description:   strPtr("Annual cap on rent relief"),
			IsActive:      true,
			EffectiveFrom: effectiveFrom,
		},
		{
			SettingKey:    "PAYE_BRACKETS",
			SettingType:   settings.SettingTypeTaxBracket,
			RawValue:      []byte(`{"kind":"progressive_bracket"}`),
			Description:   strPtr("PAYE resolves through the tax_brackets schedule"),
			IsActive:      true,
			EffectiveFrom: effectiveFrom,
		},
		{
			SettingKey:    settings.KeyAnnualDivisionFactor,
			SettingType:   settings.SettingTypeFormula,
			RawValue:      []byte(`{"kind":"fixed_amount","amount":"12"}`),
			Description:   strPtr("Months per annual period when deriving monthly figures"),
			IsActive:      true,
			EffectiveFrom: effectiveFrom,
		},
		{
			SettingKey:    settings.KeyMinAttendanceFactor,
			SettingType:   settings.SettingTypeFormula,
			RawValue:      []byte(`{"kind":"fixed_amount","amount":"0"}`),
			Description:   strPtr("Lower clamp on the proration factor"),
			IsActive:      true,
			EffectiveFrom: effectiveFrom,
		},
	}
}

// ==========================================
// DEFAULT TAX BRACKETS
// ==========================================

// GetDefaultTaxBrackets returns the progressive PAYE schedule of the Nigeria
// Tax Act 2025. Annual taxable income bands in naira.
func GetDefaultTaxBrackets(effectiveFrom time.Time) []settings.TaxBracket {
	return []settings.TaxBracket{
		{TierNumber: 1, IncomeFrom: dec("0"), IncomeTo: decPtr("800000"), TaxRate: dec("0"), EffectiveFrom: effectiveFrom},
		{TierNumber: 2, IncomeFrom: dec("800000"), IncomeTo: decPtr("3000000"), TaxRate: dec("15"), EffectiveFrom: effectiveFrom},
		{TierNumber: 3, IncomeFrom: dec("3000000"), IncomeTo: decPtr("12000000"), TaxRate: dec("18"), EffectiveFrom: effectiveFrom},
		{TierNumber: 4, IncomeFrom: dec("12000000"), IncomeTo: decPtr("25000000"), TaxRate: dec("21"), EffectiveFrom: effectiveFrom},
		{TierNumber: 5, IncomeFrom: dec("25000000"), IncomeTo: decPtr("50000000"), TaxRate: dec("23"), EffectiveFrom: effectiveFrom},
		{TierNumber: 6, IncomeFrom: dec("50000000"), IncomeTo: nil, TaxRate: dec("25"), EffectiveFrom: effectiveFrom},
	}
}
