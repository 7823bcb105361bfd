package render

import "github.com/khanghh/signup-form/internal/form"

type FieldView struct {
	Name   string
	Label  string
	Type   string
	Value  string
	Errors []string
}

type SignupPageData struct {
	CSRFToken  string
	Fields     []FieldView
	Submitting bool
	Notice     string
}

var fieldInputs = map[form.FieldName]struct{ label, inputType string }{
	form.FieldUsername:        {"Username", "text"},
	form.FieldPassword:        {"Password", "password"},
	form.FieldPasswordConfirm: {"Confirm Password", "password"},
}

// NewSignupPageData builds the view of a form state. Password inputs are
// never echoed back.
func NewSignupPageData(state form.State, csrfToken string, notice string) SignupPageData {
	redacted := state.Redacted()
	fields := make([]FieldView, 0, len(form.Fields))
	for _, f := range form.Fields {
		input := fieldInputs[f]
		fields = append(fields, FieldView{
			Name:   f.String(),
			Label:  input.label,
			Type:   input.inputType,
			Value:  redacted.Values[f],
			Errors: state.VisibleErrors(f),
		})
	}
	return SignupPageData{
		CSRFToken:  csrfToken,
		Fields:     fields,
		Submitting: state.Submitting,
		Notice:     notice,
	}
}
