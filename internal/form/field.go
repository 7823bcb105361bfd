package form

import "fmt"

// FieldName identifies one of the sign-up form inputs.
type FieldName string

const (
	FieldUsername        FieldName = "username"
	FieldPassword        FieldName = "password"
	FieldPasswordConfirm FieldName = "passwordConfirm"
)

// Fields lists every form field in display order.
var Fields = []FieldName{FieldUsername, FieldPassword, FieldPasswordConfirm}

func (f FieldName) Valid() bool {
	switch f {
	case FieldUsername, FieldPassword, FieldPasswordConfirm:
		return true
	}
	return false
}

func (f FieldName) String() string {
	return string(f)
}

// ParseField converts a wire name into a FieldName.
func ParseField(name string) (FieldName, error) {
	field := FieldName(name)
	if !field.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return field, nil
}

// Target is the scope of a validation pass. The zero value targets nothing,
// so only touched fields are evaluated.
type Target struct {
	field FieldName
	all   bool
}

// All targets every field regardless of touched state.
var All = Target{all: true}

// FieldTarget targets a single field.
func FieldTarget(field FieldName) Target {
	return Target{field: field}
}

// Includes reports whether the target forces evaluation of field.
func (t Target) Includes(field FieldName) bool {
	return t.all || (t.field != "" && t.field == field)
}

func (t Target) String() string {
	switch {
	case t.all:
		return "ALL"
	case t.field != "":
		return t.field.String()
	default:
		return "touched"
	}
}
