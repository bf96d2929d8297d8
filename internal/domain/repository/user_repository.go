package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
)

var (
	// ErrNotFound is returned by lookups and updates when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key (username, subscription email) already exists.
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related storage operations.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	CreateUser(ctx context.Context, u entity.NewUser) (*entity.User, error)
}
