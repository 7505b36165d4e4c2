package emolument

import "errors"

var (
	ErrUnknownComponent    = errors.New("unknown emolument component")
	ErrComponentCodeExists = errors.New("emolument component code already exists")
	ErrPayGradeNotFound    = errors.New("pay grade structure not found")
)
