package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/khanghh/signup-form/model"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserOptions struct {
	Username string
	Password string
}

// UserService creates users in the void: accounts are hashed, logged and
// dropped, nothing is persisted.
type UserService struct {
	hashCost int
	now      func() time.Time
}

func (s *UserService) CreateUser(ctx context.Context, opts CreateUserOptions) (*model.User, error) {
	if opts.Username == "" {
		return nil, ErrMissingUsername
	}
	if opts.Password == "" {
		return nil, ErrMissingPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     opts.Username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	slog.InfoContext(ctx, "User created in the void", "userID", user.ID, "username", user.Username)
	return user, nil
}

func NewUserService(hashCost int) *UserService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &UserService{
		hashCost: hashCost,
		now:      time.Now,
	}
}
