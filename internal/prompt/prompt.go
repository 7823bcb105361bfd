package prompt

import (
	"context"
	"fmt"

	"github.com/khanghh/signup-form/internal/form"
)

const DefaultMaxAttempts = 3

var questions = map[form.FieldName]InputConfig{
	form.FieldUsername:        {Message: "Username:", Help: "At least 5 characters."},
	form.FieldPassword:        {Message: "Password:", Help: "Must include 'password' and your username."},
	form.FieldPasswordConfirm: {Message: "Confirm Password:", Help: "Repeat the password."},
}

type Option func(*Runner)

func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// CompleteFunc runs once the submission completed, before the acknowledgment
// is shown.
type CompleteFunc func(ctx context.Context, state form.State) error

// WithOnComplete registers fn to finish a completed submission, such as
// creating the user. A failure is returned from Run instead of the
// acknowledgment.
func WithOnComplete(fn CompleteFunc) Option {
	return func(r *Runner) {
		r.onComplete = fn
	}
}

// WithStoreOptions passes options to the form store built for each run.
func WithStoreOptions(opts ...form.Option) Option {
	return func(r *Runner) {
		r.storeOpts = append(r.storeOpts, opts...)
	}
}

// Runner fills the sign-up form interactively: each answer is treated as a
// blur of its field and the form is submitted once every field was asked.
type Runner struct {
	driver      Driver
	maxAttempts int
	storeOpts   []form.Option
	onComplete  CompleteFunc
}

func New(driver Driver, opts ...Option) *Runner {
	r := &Runner{
		driver:      driver,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives one sign-up and returns the final form state once the
// submission completed.
func (r *Runner) Run(ctx context.Context) (form.State, error) {
	done := make(chan completion, 1)
	opts := append([]form.Option{}, r.storeOpts...)
	opts = append(opts, form.WithNotifier(form.NotifierFunc(func(ctx context.Context, state form.State, message string) {
		done <- completion{state: state, message: message}
	})))
	fs := form.NewStore(opts...)

	pending := form.Fields
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		for _, field := range pending {
			if err := r.ask(ctx, fs, field); err != nil {
				return fs.State(), err
			}
		}

		result, err := fs.Submit(ctx)
		if err != nil {
			return fs.State(), err
		}
		if result.Accepted {
			return r.wait(ctx, fs, done)
		}

		if err := r.driver.Info(ctx, "Please fix the following:"); err != nil {
			return fs.State(), err
		}
		pending = nil
		state := fs.State()
		for _, field := range form.Fields {
			msgs := state.VisibleErrors(field)
			if len(msgs) == 0 {
				continue
			}
			pending = append(pending, field)
			if err := r.report(ctx, field, msgs); err != nil {
				return state, err
			}
		}
		pending = withConfirm(pending)
	}
	return fs.State(), ErrTooManyAttempts
}

type completion struct {
	state   form.State
	message string
}

// withConfirm appends passwordConfirm when password is asked again, since a
// new password invalidates the old confirmation.
func withConfirm(pending []form.FieldName) []form.FieldName {
	hasPassword := false
	for _, field := range pending {
		switch field {
		case form.FieldPassword:
			hasPassword = true
		case form.FieldPasswordConfirm:
			return pending
		}
	}
	if hasPassword {
		pending = append(pending, form.FieldPasswordConfirm)
	}
	return pending
}

func (r *Runner) ask(ctx context.Context, fs *form.Store, field form.FieldName) error {
	cfg := questions[field]
	var (
		value string
		err   error
	)
	if field == form.FieldUsername {
		cfg.Default = fs.State().Values[field]
		value, err = r.driver.Input(ctx, cfg)
	} else {
		value, err = r.driver.Password(ctx, cfg)
	}
	if err != nil {
		return err
	}

	if err := fs.SetValue(field, value); err != nil {
		return err
	}
	errs, err := fs.Blur(field)
	if err != nil {
		return err
	}
	return r.report(ctx, field, errs[field])
}

func (r *Runner) report(ctx context.Context, field form.FieldName, msgs []string) error {
	for _, msg := range msgs {
		if err := r.driver.Info(ctx, fmt.Sprintf("  %s: %s", field, msg)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) wait(ctx context.Context, fs *form.Store, done <-chan completion) (form.State, error) {
	if err := r.driver.Info(ctx, "Creating user..."); err != nil {
		return fs.State(), err
	}
	select {
	case c := <-done:
		if r.onComplete != nil {
			if err := r.onComplete(ctx, c.state); err != nil {
				return c.state, fmt.Errorf("complete sign-up: %w", err)
			}
		}
		return c.state, r.driver.Info(ctx, c.message)
	case <-ctx.Done():
		return fs.State(), ctx.Err()
	}
}
