package staff

import (
	"time"

	"github.com/shopspring/decimal"
)

// Staff - the slice of the staff record the payroll engine reads. Name, bank
// details and PFA code are copied onto each PayrollItem at calculation time;
// later edits to this record never alter a finalized item.
type Staff struct {
	ID             string
	ClientID       string
	FirstName      string
	LastName       string
	EmployeeCode   string
	BankName       *string
	AccountNumber  *string
	PFACode        *string
	AnnualRentPaid decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}
