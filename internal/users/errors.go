package users

import (
	"errors"
)

var (
	ErrMissingUsername = errors.New("username is required")
	ErrMissingPassword = errors.New("password is required")
)
