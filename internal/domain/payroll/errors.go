package payroll

import "errors"

var (
	ErrRunNotFound            = errors.New("payroll run not found")
	ErrDuplicatePeriod        = errors.New("payroll run already exists for this client and period")
	ErrInvalidStateTransition = errors.New("payroll run state transition not allowed")
	ErrItemAlreadyExists      = errors.New("payroll item already exists for this run and staff member")
	ErrItemNotFound           = errors.New("payroll item not found")
	ErrCalculationInvalid     = errors.New("payroll calculation failed internal validation")
	ErrNoStaffForRun          = errors.New("no active staff found for this client")
)
