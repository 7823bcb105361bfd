package store

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

var ErrResetUnsupported = errors.New("reset is not supported on a shared storage")

// PrefixedStorage namespaces keys of a fiber.Storage shared with other
// components. Close and Reset never touch the shared backend.
type PrefixedStorage struct {
	backend   fiber.Storage
	keyPrefix string
}

func (s *PrefixedStorage) Get(key string) ([]byte, error) {
	return s.backend.Get(s.keyPrefix + key)
}

func (s *PrefixedStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.backend.Set(s.keyPrefix+key, val, exp)
}

func (s *PrefixedStorage) Delete(key string) error {
	return s.backend.Delete(s.keyPrefix + key)
}

func (s *PrefixedStorage) Reset() error {
	return ErrResetUnsupported
}

func (s *PrefixedStorage) Close() error {
	return nil
}

func NewPrefixedStorage(backend fiber.Storage, keyPrefix string) *PrefixedStorage {
	return &PrefixedStorage{
		backend:   backend,
		keyPrefix: keyPrefix,
	}
}
