package settings

import "errors"

var (
	ErrSettingNotFound  = errors.New("payroll setting not found")
	ErrSettingMalformed = errors.New("payroll setting value is malformed")
	ErrNoBracketsActive = errors.New("no tax brackets active for date")
	ErrSettingReadOnly  = errors.New("payroll setting is not editable")
)
