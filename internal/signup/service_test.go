package signup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/khanghh/signup-form/internal/form"
	"github.com/khanghh/signup-form/internal/store"
	"github.com/khanghh/signup-form/internal/users"
	"github.com/khanghh/signup-form/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, f)
}

func (s *manualScheduler) fire() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, f := range pending {
		f()
	}
}

type fakeUserService struct {
	created []users.CreateUserOptions
	err     error
}

func (f *fakeUserService) CreateUser(ctx context.Context, opts users.CreateUserOptions) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, opts)
	return &model.User{Username: opts.Username}, nil
}

func newTestService(t *testing.T) (*Service, *manualScheduler, *fakeUserService) {
	t.Helper()
	records := store.NewMemoryStore[Record]()
	t.Cleanup(func() { records.Close() })
	scheduler := &manualScheduler{}
	userService := &fakeUserService{}
	svc := NewService(records, userService, Config{
		StateTTL:   time.Hour,
		StaleAfter: time.Minute,
		Scheduler:  scheduler,
	})
	return svc, scheduler, userService
}

func fillForm(t *testing.T, svc *Service, sid, username, password, confirm string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.SetValue(ctx, sid, form.FieldUsername, username)
	require.NoError(t, err)
	_, err = svc.SetValue(ctx, sid, form.FieldPassword, password)
	require.NoError(t, err)
	_, err = svc.SetValue(ctx, sid, form.FieldPasswordConfirm, confirm)
	require.NoError(t, err)
}

func TestGetFreshSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	rec, err := svc.Get(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, form.NewState(), rec.Form)
	assert.Empty(t, rec.Notice)
}

func TestSetValuePersists(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetValue(ctx, "sid", form.FieldUsername, "alice")
	require.NoError(t, err)

	rec, err := svc.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Form.Values[form.FieldUsername])

	other, err := svc.Get(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, other.Form.Values[form.FieldUsername])
}

func TestBlurValidatesField(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.SetValue(ctx, "sid", form.FieldUsername, "abc")
	require.NoError(t, err)

	rec, err := svc.Blur(ctx, "sid", form.FieldUsername, true)
	require.NoError(t, err)
	assert.True(t, rec.Form.Touched[form.FieldUsername])
	assert.Equal(t, []string{form.MsgMinLength5}, rec.Form.VisibleErrors(form.FieldUsername))
	assert.Nil(t, rec.Form.Errors[form.FieldPassword])

	_, err = svc.Blur(ctx, "sid", "email", true)
	assert.ErrorIs(t, err, form.ErrUnknownField)
}

func TestSubmitFlow(t *testing.T) {
	svc, scheduler, userService := newTestService(t)
	ctx := context.Background()
	pw := "password_alice_long_enough"
	fillForm(t, svc, "sid", "alice", pw, pw)

	rec, result, err := svc.Submit(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.True(t, rec.Form.Submitting)
	assert.NotEmpty(t, rec.SubmissionID)

	_, _, err = svc.Submit(ctx, "sid")
	assert.ErrorIs(t, err, form.ErrSubmitting)
	_, err = svc.SetValue(ctx, "sid", form.FieldUsername, "bob")
	assert.ErrorIs(t, err, form.ErrSubmitting)

	scheduler.fire()

	rec, err = svc.TakeNotice(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, rec.Form.Submitting)
	assert.Equal(t, form.SuccessMessage, rec.Notice)
	require.Len(t, userService.created, 1)
	assert.Equal(t, "alice", userService.created[0].Username)
	assert.Equal(t, pw, userService.created[0].Password)

	rec, err = svc.TakeNotice(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, rec.Notice)
}

func TestSubmitRejected(t *testing.T) {
	svc, scheduler, _ := newTestService(t)

	rec, result, err := svc.Submit(context.Background(), "sid")
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.False(t, rec.Form.Submitting)
	assert.Empty(t, scheduler.pending)
	for _, f := range form.Fields {
		assert.True(t, rec.Form.Touched[f])
	}
	assert.Equal(t, []string{form.MsgRequired, form.MsgMinLength5}, rec.Form.VisibleErrors(form.FieldUsername))
}

func TestSubmitUserServiceFailure(t *testing.T) {
	svc, scheduler, userService := newTestService(t)
	userService.err = errors.New("boom")
	pw := "password_alice"
	fillForm(t, svc, "sid", "alice", pw, pw)

	_, _, err := svc.Submit(context.Background(), "sid")
	require.NoError(t, err)
	scheduler.fire()

	rec, err := svc.Get(context.Background(), "sid")
	require.NoError(t, err)
	assert.False(t, rec.Form.Submitting)
	assert.Equal(t, MsgSubmitFailed, rec.Notice)
}

func TestResetSupersedesSubmission(t *testing.T) {
	svc, scheduler, userService := newTestService(t)
	ctx := context.Background()
	pw := "password_alice"
	fillForm(t, svc, "sid", "alice", pw, pw)

	_, _, err := svc.Submit(ctx, "sid")
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, "sid"))

	scheduler.fire()

	rec, err := svc.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, rec.Notice)
	assert.Empty(t, userService.created)
}

func TestStaleSubmissionIsDropped(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	pw := "password_alice"
	fillForm(t, svc, "sid", "alice", pw, pw)

	_, _, err := svc.Submit(ctx, "sid")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	rec, err := svc.Get(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, rec.Form.Submitting)
	assert.Empty(t, rec.SubmissionID)
}
