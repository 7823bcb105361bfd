package form

import "encoding/gob"

// State is a detached snapshot of a Store.
type State struct {
	Values     Values  `json:"values"`
	Touched    Touched `json:"touched"`
	Errors     Errors  `json:"errors"`
	Submitting bool    `json:"submitting"`
}

func init() {
	gob.Register(State{})
}

// NewState returns the initial form state.
func NewState() State {
	return State{
		Values:  NewValues(),
		Touched: NewTouched(),
		Errors:  NewErrors(),
	}
}

// Clone deep-copies the state and fills in any missing field keys.
func (s State) Clone() State {
	return State{
		Values:     s.Values.Clone(),
		Touched:    s.Touched.Clone(),
		Errors:     s.Errors.Clone(),
		Submitting: s.Submitting,
	}
}

// VisibleErrors returns the messages that should be displayed under field:
// only once it is touched and has errors.
func (s State) VisibleErrors(field FieldName) []string {
	if !s.Touched[field] || len(s.Errors[field]) == 0 {
		return nil
	}
	return append([]string(nil), s.Errors[field]...)
}

// Redacted returns a copy with the password inputs blanked, for output that
// leaves the process.
func (s State) Redacted() State {
	out := s.Clone()
	out.Values[FieldPassword] = ""
	out.Values[FieldPasswordConfirm] = ""
	return out
}
