package repository

import (
	"context"
	"errors"

	"github.com/mindgrid-app/mindgrid-api/internal/domain/entity"
)

// Store-level outcomes every implementation must translate to. The unique
// constraints in the store are the final arbiter for the conflict errors; the
// service-level pre-checks are only an optimization.
var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateOnboarding(ctx context.Context, u *entity.User) error
	UpdateImage(ctx context.Context, id, imageURL string) error
}
