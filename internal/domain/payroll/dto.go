package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zenithhr/payroll-backend-go/internal/pkg/validator"
)

// ========== RUN DTOs ==========

type CreateRunRequest struct {
	ClientID  string  `json:"client_id"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Notes     *string `json:"notes,omitempty"`
	CreatedBy *string `json:"-"`
}

func (r *CreateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClientID) {
		errs = append(errs, validator.ValidationError{Field: "client_id", Message: "is required"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2020 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2020 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveRunRequest struct {
	ApproverID string     `json:"approver_id"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

func (r *ApproveRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RunFilter struct {
	ClientID *string
	Status   *RunStatus
	Month    *int
	Year     *int
	Page     int
	Limit    int
}

type RunResponse struct {
	ID                string          `json:"id"`
	ClientID          string          `json:"client_id"`
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	Status            string          `json:"status"`
	Notes             *string         `json:"notes,omitempty"`
	StaffCount        int             `json:"staff_count"`
	TotalGrossPay     decimal.Decimal `json:"total_gross_pay"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	TotalNetPay       decimal.Decimal `json:"total_net_pay"`
	TotalCreditToBank decimal.Decimal `json:"total_credit_to_bank"`
	CreatedBy         *string         `json:"created_by,omitempty"`
	CalculatedAt      *time.Time      `json:"calculated_at,omitempty"`
	ApprovedBy        *string         `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time      `json:"approved_at,omitempty"`
	ExportedAt        *time.Time      `json:"exported_at,omitempty"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

type ListRunResponse struct {
	Data       []RunResponse `json:"data"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

// ItemFailure - one staff member whose calculation was rejected. The run
// proceeds for everyone else; failures are reported, never swallowed.
type ItemFailure struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name,omitempty"`
	Error     string `json:"error"`
}

type CalculateRunResponse struct {
	RunID          string        `json:"run_id"`
	Status         string        `json:"status"`
	ProcessedCount int           `json:"processed_count"`
	FailedCount    int           `json:"failed_count"`
	Succeeded      []string      `json:"succeeded"`
	Failed         []ItemFailure `json:"failed"`
	Totals         RunTotalsDTO  `json:"totals"`
}

type RunTotalsDTO struct {
	StaffCount        int             `json:"staff_count"`
	TotalGrossPay     decimal.Decimal `json:"total_gross_pay"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	TotalNetPay       decimal.Decimal `json:"total_net_pay"`
	TotalCreditToBank decimal.Decimal `json:"total_credit_to_bank"`
}

// ========== ITEM DTOs ==========

type ItemResponse struct {
	ID       string `json:"id"`
	RunID    string `json:"run_id"`
	StaffID  string `json:"staff_id"`
	ClientID string `json:"client_id"`

	StaffName     string  `json:"staff_name"`
	StaffCode     string  `json:"staff_code"`
	BankName      *string `json:"bank_name,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	PFACode       *string `json:"pfa_code,omitempty"`

	DaysPresent     int             `json:"days_present"`
	DaysAbsent      int             `json:"days_absent"`
	TotalDays       int             `json:"total_days"`
	ProrationFactor decimal.Decimal `json:"proration_factor"`

	AnnualGrossSalary   decimal.Decimal `json:"annual_gross_salary"`
	AnnualReimbursables decimal.Decimal `json:"annual_reimbursables"`
	PensionableAmount   decimal.Decimal `json:"pensionable_amount"`

	MonthlyGross                 decimal.Decimal `json:"monthly_gross"`
	MonthlyReimbursables         decimal.Decimal `json:"monthly_reimbursables"`
	ProratedMonthlyGross         decimal.Decimal `json:"prorated_monthly_gross"`
	ProratedMonthlyReimbursables decimal.Decimal `json:"prorated_monthly_reimbursables"`

	PensionRelief decimal.Decimal `json:"pension_relief"`
	NHISRelief    decimal.Decimal `json:"nhis_relief"`
	RentRelief    decimal.Decimal `json:"rent_relief"`

	TaxableIncome decimal.Decimal `json:"taxable_income"`
	AnnualPayeTax decimal.Decimal `json:"annual_paye_tax"`
	MonthlyPaye   decimal.Decimal `json:"monthly_paye"`

	PensionDeduction         decimal.Decimal `json:"pension_deduction"`
	LeaveAllowanceDeduction  decimal.Decimal `json:"leave_allowance_deduction"`
	ThirteenthMonthDeduction decimal.Decimal `json:"thirteenth_month_deduction"`
	OtherDeductions          decimal.Decimal `json:"other_deductions"`
	TotalDeductions          decimal.Decimal `json:"total_deductions"`

	NetPay       decimal.Decimal `json:"net_pay"`
	CreditToBank decimal.Decimal `json:"credit_to_bank"`

	EmolumentsSnapshot map[string]decimal.Decimal `json:"emoluments_snapshot"`

	Superseded      bool      `json:"superseded"`
	CalculationDate time.Time `json:"calculation_date"`
}
