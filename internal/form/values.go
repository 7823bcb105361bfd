package form

// Values holds the current input of every field. It always carries all
// known fields.
type Values map[FieldName]string

// Touched records which fields the user has visited and left.
type Touched map[FieldName]bool

// Errors holds the last computed messages per field. A nil entry means no
// errors were computed for the field, which is not the same as valid.
type Errors map[FieldName][]string

func NewValues() Values {
	values := make(Values, len(Fields))
	for _, f := range Fields {
		values[f] = ""
	}
	return values
}

func NewTouched() Touched {
	touched := make(Touched, len(Fields))
	for _, f := range Fields {
		touched[f] = false
	}
	return touched
}

func NewErrors() Errors {
	errs := make(Errors, len(Fields))
	for _, f := range Fields {
		errs[f] = nil
	}
	return errs
}

func (v Values) Clone() Values {
	out := NewValues()
	for _, f := range Fields {
		out[f] = v[f]
	}
	return out
}

func (t Touched) Clone() Touched {
	out := NewTouched()
	for _, f := range Fields {
		out[f] = t[f]
	}
	return out
}

// Clone copies the error lists. Empty lists are normalised to nil so a
// decoded snapshot never reports a computed-but-empty entry.
func (e Errors) Clone() Errors {
	out := NewErrors()
	for _, f := range Fields {
		if msgs := e[f]; len(msgs) > 0 {
			out[f] = append([]string(nil), msgs...)
		}
	}
	return out
}

// HasErrors reports whether any field has at least one message.
func (e Errors) HasErrors() bool {
	for _, f := range Fields {
		if len(e[f]) > 0 {
			return true
		}
	}
	return false
}
