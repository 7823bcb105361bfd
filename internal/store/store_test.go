package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gofiber/storage/memory/v2"
	fredis "github.com/gofiber/storage/redis/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name   string
	Tags   map[string][]string
	Active bool
}

func exerciseStore(t *testing.T, s Store[record]) {
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	want := record{Name: "alice", Tags: map[string][]string{"a": {"x", "y"}}, Active: true}
	require.NoError(t, s.Set(ctx, "1", want, time.Minute))

	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	require.NoError(t, s.Del(ctx, "1"))
	_, err = s.Get(ctx, "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore[record]()
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}
	storage := fredis.New(fredis.Config{URL: redisURL})
	defer storage.Close()
	exerciseStore(t, NewRedisStore[record](storage.Conn(), "test:record:"))
}

func TestPrefixedStorage(t *testing.T) {
	backend := memory.New()
	defer backend.Close()
	sessions := NewPrefixedStorage(backend, "session:")

	require.NoError(t, sessions.Set("abc", []byte("data"), 0))

	raw, err := backend.Get("session:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), raw)

	val, err := sessions.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), val)

	require.NoError(t, sessions.Delete("abc"))
	val, err = backend.Get("session:abc")
	require.NoError(t, err)
	assert.Nil(t, val)

	assert.ErrorIs(t, sessions.Reset(), ErrResetUnsupported)
	require.NoError(t, sessions.Close())
	require.NoError(t, backend.Set("other", []byte("1"), 0))
}
