package signup

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/khanghh/signup-form/internal/form"
	"github.com/khanghh/signup-form/internal/store"
	"github.com/khanghh/signup-form/internal/users"
	"github.com/khanghh/signup-form/model"
)

const (
	lockStripes = 64

	MsgSubmitFailed = "Could not create the user, please try again."
)

type UserService interface {
	CreateUser(ctx context.Context, opts users.CreateUserOptions) (*model.User, error)
}

type Config struct {
	StateTTL    time.Duration
	SubmitDelay time.Duration
	// StaleAfter bounds how long a record may stay submitting before the
	// pending completion is considered lost, e.g. across a restart.
	StaleAfter time.Duration
	// Scheduler must not invoke its callback synchronously.
	Scheduler form.Scheduler
	Engine    *form.Engine
}

// Service applies form events to the record of a session. Events of one
// session are serialised.
type Service struct {
	records     store.Store[Record]
	userService UserService
	config      Config
	now         func() time.Time
	locks       [lockStripes]sync.Mutex
}

func (s *Service) lockFor(sid string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sid))
	return &s.locks[h.Sum32()%lockStripes]
}

func (s *Service) load(ctx context.Context, sid string) (*Record, error) {
	rec, err := s.records.Get(ctx, sid)
	if errors.Is(err, store.ErrNotFound) {
		return newRecord(), nil
	} else if err != nil {
		return nil, fmt.Errorf("load form state: %w", err)
	}
	rec.Form = rec.Form.Clone()
	if rec.Form.Submitting && s.config.StaleAfter > 0 && s.now().Sub(rec.SubmittedAt) > s.config.StaleAfter {
		slog.WarnContext(ctx, "Dropping stale submission", "submissionID", rec.SubmissionID)
		rec.Form.Submitting = false
		rec.SubmissionID = ""
	}
	return rec, nil
}

func (s *Service) save(ctx context.Context, sid string, rec *Record) error {
	rec.UpdatedAt = s.now()
	if err := s.records.Set(ctx, sid, *rec, s.config.StateTTL); err != nil {
		return fmt.Errorf("save form state: %w", err)
	}
	return nil
}

func (s *Service) newStore(rec *Record, opts ...form.Option) *form.Store {
	opts = append([]form.Option{
		form.WithState(rec.Form),
		form.WithSubmitDelay(s.config.SubmitDelay),
	}, opts...)
	if s.config.Scheduler != nil {
		opts = append(opts, form.WithScheduler(s.config.Scheduler))
	}
	if s.config.Engine != nil {
		opts = append(opts, form.WithEngine(s.config.Engine))
	}
	return form.NewStore(opts...)
}

// update loads the record of sid, runs fn against a store seeded from it and
// saves the resulting state.
func (s *Service) update(ctx context.Context, sid string, fn func(rec *Record, fs *form.Store) error, opts ...form.Option) (Record, error) {
	mu := s.lockFor(sid)
	mu.Lock()
	defer mu.Unlock()

	rec, err := s.load(ctx, sid)
	if err != nil {
		return Record{}, err
	}
	fs := s.newStore(rec, opts...)
	if err := fn(rec, fs); err != nil {
		return Record{}, err
	}
	rec.Form = fs.State()
	if err := s.save(ctx, sid, rec); err != nil {
		return Record{}, err
	}
	return *rec, nil
}

// Get returns the current record of sid without modifying it.
func (s *Service) Get(ctx context.Context, sid string) (Record, error) {
	mu := s.lockFor(sid)
	mu.Lock()
	defer mu.Unlock()

	rec, err := s.load(ctx, sid)
	if err != nil {
		return Record{}, err
	}
	return *rec, nil
}

// TakeNotice returns the current record and clears its pending notice, so
// the acknowledgment is shown once.
func (s *Service) TakeNotice(ctx context.Context, sid string) (Record, error) {
	var notice string
	rec, err := s.update(ctx, sid, func(rec *Record, fs *form.Store) error {
		notice, rec.Notice = rec.Notice, ""
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	rec.Notice = notice
	return rec, nil
}

func (s *Service) SetValue(ctx context.Context, sid string, field form.FieldName, value string) (Record, error) {
	return s.update(ctx, sid, func(rec *Record, fs *form.Store) error {
		return fs.SetValue(field, value)
	})
}

// Blur sets the touched flag of field and revalidates it.
func (s *Service) Blur(ctx context.Context, sid string, field form.FieldName, touched bool) (Record, error) {
	return s.update(ctx, sid, func(rec *Record, fs *form.Store) error {
		if err := fs.SetTouched(field, touched); err != nil {
			return err
		}
		fs.Validate(form.FieldTarget(field))
		return nil
	})
}

// Submit validates the whole form and, when valid, schedules the
// submission completion.
func (s *Service) Submit(ctx context.Context, sid string) (Record, form.SubmitResult, error) {
	var (
		result       form.SubmitResult
		submissionID = uuid.NewString()
	)
	rec, err := s.update(ctx, sid, func(rec *Record, fs *form.Store) error {
		var err error
		result, err = fs.Submit(ctx)
		if err != nil {
			return err
		}
		if result.Accepted {
			rec.Notice = ""
			rec.SubmissionID = submissionID
			rec.SubmittedAt = s.now()
			slog.InfoContext(ctx, "Form submitted", "submissionID", submissionID)
		}
		return nil
	}, form.WithNotifier(s.completion(sid, submissionID)))
	if err != nil {
		return Record{}, form.SubmitResult{}, err
	}
	return rec, result, nil
}

// Reset discards the record of sid.
func (s *Service) Reset(ctx context.Context, sid string) error {
	mu := s.lockFor(sid)
	mu.Lock()
	defer mu.Unlock()
	return s.records.Del(ctx, sid)
}

func (s *Service) completion(sid, submissionID string) form.Notifier {
	return form.NotifierFunc(func(ctx context.Context, state form.State, message string) {
		mu := s.lockFor(sid)
		mu.Lock()
		defer mu.Unlock()

		rec, err := s.load(ctx, sid)
		if err != nil {
			slog.ErrorContext(ctx, "Could not complete submission", "submissionID", submissionID, "error", err)
			return
		}
		if rec.SubmissionID != submissionID {
			slog.WarnContext(ctx, "Submission superseded", "submissionID", submissionID)
			return
		}

		_, err = s.userService.CreateUser(ctx, users.CreateUserOptions{
			Username: state.Values[form.FieldUsername],
			Password: state.Values[form.FieldPassword],
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create user", "submissionID", submissionID, "error", err)
			message = MsgSubmitFailed
		}

		rec.Form.Submitting = false
		rec.Notice = message
		rec.SubmissionID = ""
		if err := s.save(ctx, sid, rec); err != nil {
			slog.ErrorContext(ctx, "Could not complete submission", "submissionID", submissionID, "error", err)
		}
	})
}

func NewService(records store.Store[Record], userService UserService, config Config) *Service {
	if config.SubmitDelay <= 0 {
		config.SubmitDelay = form.DefaultSubmitDelay
	}
	return &Service{
		records:     records,
		userService: userService,
		config:      config,
		now:         time.Now,
	}
}
