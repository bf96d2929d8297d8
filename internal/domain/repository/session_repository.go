package repository

import (
	"context"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
)

// SessionRepository keeps server-side admin sessions keyed by opaque id.
// Get returns ErrNotFound for unknown or expired sessions.
type SessionRepository interface {
	Save(ctx context.Context, s *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
