package form

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultSubmitDelay = 1000 * time.Millisecond
	SuccessMessage     = "Username Created succesfully in the void"
)

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Notifier receives the acknowledgment of a completed submission along with
// the final form state.
type Notifier interface {
	Notify(ctx context.Context, state State, message string)
}

type NotifierFunc func(ctx context.Context, state State, message string)

func (f NotifierFunc) Notify(ctx context.Context, state State, message string) {
	f(ctx, state, message)
}

// SubmitResult describes the outcome of a submit attempt.
type SubmitResult struct {
	Accepted bool
	Errors   Errors
}

// Store is the single source of truth for one form instance. It is safe for
// concurrent use; the submission completion runs on a timer goroutine.
type Store struct {
	mu         sync.Mutex
	engine     *Engine
	values     Values
	touched    Touched
	errors     Errors
	submitting bool

	delay     time.Duration
	scheduler Scheduler
	notifier  Notifier
}

type Option func(*Store)

func WithEngine(engine *Engine) Option {
	return func(s *Store) {
		s.engine = engine
	}
}

func WithSubmitDelay(delay time.Duration) Option {
	return func(s *Store) {
		s.delay = delay
	}
}

func WithScheduler(scheduler Scheduler) Option {
	return func(s *Store) {
		s.scheduler = scheduler
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(s *Store) {
		s.notifier = notifier
	}
}

// WithState seeds the store from a previously taken snapshot.
func WithState(state State) Option {
	return func(s *Store) {
		state = state.Clone()
		s.values = state.Values
		s.touched = state.Touched
		s.errors = state.Errors
		s.submitting = state.Submitting
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		engine:    defaultEngine,
		values:    NewValues(),
		touched:   NewTouched(),
		errors:    NewErrors(),
		delay:     DefaultSubmitDelay,
		scheduler: timerScheduler{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetValue replaces the value of field without validating it.
func (s *Store) SetValue(field FieldName, value string) error {
	if !field.Valid() {
		return ErrUnknownField
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return ErrSubmitting
	}
	s.values[field] = value
	return nil
}

// SetTouched replaces the touched flag of field.
func (s *Store) SetTouched(field FieldName, touched bool) error {
	if !field.Valid() {
		return ErrUnknownField
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[field] = touched
	return nil
}

// Blur marks field as touched and revalidates it.
func (s *Store) Blur(field FieldName) (Errors, error) {
	if err := s.SetTouched(field, true); err != nil {
		return nil, err
	}
	return s.Validate(FieldTarget(field)), nil
}

// Validate recomputes errors for target, stores them and returns a copy.
func (s *Store) Validate(target Target) Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked(target).Clone()
}

func (s *Store) validateLocked(target Target) Errors {
	s.errors = s.engine.Evaluate(s.values, s.touched, target, s.errors)
	return s.errors
}

// Submit validates every field. When the form is valid the store enters the
// submitting state and the acknowledgment is delivered after the submit
// delay. Otherwise every field is marked touched so all failures surface at
// once.
func (s *Store) Submit(ctx context.Context) (SubmitResult, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return SubmitResult{}, ErrSubmitting
	}

	errs := s.validateLocked(All).Clone()
	if errs.HasErrors() {
		for _, f := range Fields {
			s.touched[f] = true
		}
		s.mu.Unlock()
		return SubmitResult{Errors: errs}, nil
	}

	s.submitting = true
	s.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	s.scheduler.AfterFunc(s.delay, func() {
		s.complete(bg)
	})
	return SubmitResult{Accepted: true, Errors: errs}, nil
}

func (s *Store) complete(ctx context.Context) {
	s.mu.Lock()
	s.submitting = false
	state := s.stateLocked()
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Notify(ctx, state, SuccessMessage)
	}
}

func (s *Store) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// State returns a snapshot of the store.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	return State{
		Values:     s.values.Clone(),
		Touched:    s.touched.Clone(),
		Errors:     s.errors.Clone(),
		Submitting: s.submitting,
	}
}
