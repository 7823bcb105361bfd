package handlers

import (
	"context"

	"github.com/khanghh/signup-form/internal/form"
	"github.com/khanghh/signup-form/internal/signup"
)

type SignupService interface {
	Get(ctx context.Context, sid string) (signup.Record, error)
	TakeNotice(ctx context.Context, sid string) (signup.Record, error)
	SetValue(ctx context.Context, sid string, field form.FieldName, value string) (signup.Record, error)
	Blur(ctx context.Context, sid string, field form.FieldName, touched bool) (signup.Record, error)
	Submit(ctx context.Context, sid string) (signup.Record, form.SubmitResult, error)
	Reset(ctx context.Context, sid string) error
}

// StateResponse is the JSON view of a session's form.
type StateResponse struct {
	Values     form.Values  `json:"values"`
	Touched    form.Touched `json:"touched"`
	Errors     form.Errors  `json:"errors"`
	Submitting bool         `json:"submitting"`
	Notice     string       `json:"notice"`
}

func newStateResponse(rec signup.Record) StateResponse {
	state := rec.Form.Redacted()
	return StateResponse{
		Values:     state.Values,
		Touched:    state.Touched,
		Errors:     state.Errors,
		Submitting: state.Submitting,
		Notice:     rec.Notice,
	}
}
