package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleRequired(t *testing.T) {
	values := NewValues()
	assert.Equal(t, MsgRequired, RuleRequired.Check("", values))
	assert.Empty(t, RuleRequired.Check(" ", values))
	assert.Empty(t, RuleRequired.Check("a", values))
}

func TestRuleMinLength5(t *testing.T) {
	values := NewValues()
	for _, tc := range []struct {
		value string
		fails bool
	}{
		{"", true},
		{"abcd", true},
		{"abcde", false},
		{"abcdef", false},
		{"héllo", false},
		{"日本語で", true},
	} {
		got := RuleMinLength5.Check(tc.value, values)
		if tc.fails {
			assert.Equal(t, MsgMinLength5, got, "value %q", tc.value)
		} else {
			assert.Empty(t, got, "value %q", tc.value)
		}
	}
}

func TestRulePasswordContainsMarker(t *testing.T) {
	values := NewValues()
	values[FieldUsername] = "alice"

	assert.Empty(t, RulePasswordContainsMarker.Check("password_alice", values))
	assert.Equal(t, MsgPasswordRule, RulePasswordContainsMarker.Check("alice_secret", values))
	assert.Equal(t, MsgPasswordRule, RulePasswordContainsMarker.Check("password_bob", values))
	assert.Equal(t, MsgPasswordRule, RulePasswordContainsMarker.Check("", values))

	values[FieldUsername] = ""
	assert.Empty(t, RulePasswordContainsMarker.Check("password", values))
}

func TestRulePasswordMatch(t *testing.T) {
	for _, tc := range []struct {
		password, confirm string
		fails             bool
	}{
		{"", "", false},
		{"abc", "", false},
		{"", "abc", false},
		{"abc", "abc", false},
		{"abc", "abd", true},
	} {
		values := NewValues()
		values[FieldPassword] = tc.password
		values[FieldPasswordConfirm] = tc.confirm
		got := RulePasswordMatch.Check(tc.confirm, values)
		if tc.fails {
			assert.Equal(t, MsgPasswordMatch, got)
		} else {
			assert.Empty(t, got)
		}
	}
}

func TestRuleIDString(t *testing.T) {
	names := []string{}
	for _, r := range []RuleID{RuleRequired, RuleMinLength5, RulePasswordContainsMarker, RulePasswordMatch} {
		names = append(names, r.String())
	}
	assert.Equal(t, "REQUIRED,MIN_LENGTH_5,PASSWORD_CONTAINS_MARKER,PASSWORD_MATCH", strings.Join(names, ","))
	assert.Equal(t, "UNKNOWN", RuleID(0).String())
	assert.Empty(t, RuleID(0).Check("", NewValues()))
}
