package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/internal/domain/repository"
)

// SessionStore keeps sessions in process memory. Expired entries are dropped
// lazily on lookup.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]entity.Session), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, sess *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id)
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

var _ repository.SessionRepository = (*SessionStore)(nil)
