package form

import (
	"strings"
	"unicode/utf8"
)

const (
	MsgRequired      = "Field is Required."
	MsgMinLength5    = "Needs to be atleast 5 characters long."
	MsgPasswordRule  = "To be super secure, your password must include 'password' and your userName"
	MsgPasswordMatch = "Passwords need to match."

	passwordMarker = "password"
	minLength      = 5
)

// RuleID enumerates the validation rules.
type RuleID int

const (
	RuleRequired RuleID = iota + 1
	RuleMinLength5
	RulePasswordContainsMarker
	RulePasswordMatch
)

func (r RuleID) String() string {
	switch r {
	case RuleRequired:
		return "REQUIRED"
	case RuleMinLength5:
		return "MIN_LENGTH_5"
	case RulePasswordContainsMarker:
		return "PASSWORD_CONTAINS_MARKER"
	case RulePasswordMatch:
		return "PASSWORD_MATCH"
	default:
		return "UNKNOWN"
	}
}

// Check runs the rule against value and returns the failure message, or an
// empty string when the rule passes.
func (r RuleID) Check(value string, values Values) string {
	switch r {
	case RuleRequired:
		if value == "" {
			return MsgRequired
		}
	case RuleMinLength5:
		if utf8.RuneCountInString(value) < minLength {
			return MsgMinLength5
		}
	case RulePasswordContainsMarker:
		if !strings.Contains(value, passwordMarker) || !strings.Contains(value, values[FieldUsername]) {
			return MsgPasswordRule
		}
	case RulePasswordMatch:
		password, confirm := values[FieldPassword], values[FieldPasswordConfirm]
		if password != "" && confirm != "" && password != confirm {
			return MsgPasswordMatch
		}
	}
	return ""
}

// RuleTable maps each field to its ordered rules. Rule order is message
// order.
type RuleTable map[FieldName][]RuleID

// DefaultRules is the sign-up form rule table.
func DefaultRules() RuleTable {
	return RuleTable{
		FieldUsername:        {RuleRequired, RuleMinLength5},
		FieldPassword:        {RulePasswordContainsMarker},
		FieldPasswordConfirm: {RulePasswordMatch},
	}
}
