package form

import "errors"

var (
	ErrUnknownField = errors.New("unknown form field")
	ErrSubmitting   = errors.New("form is being submitted")
)
