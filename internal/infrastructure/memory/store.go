package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/internal/domain/repository"
)

// Store is a volatile map-backed record store. A single RWMutex serializes
// every write so the check-then-insert on subscription emails and the
// read-merge-write on lead updates cannot interleave.
type Store struct {
	mu            sync.RWMutex
	users         map[string]entity.User
	subscriptions map[string]entity.NewsletterSubscription
	leads         map[string]entity.Lead

	now func() time.Time
}

type Option func(*Store)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		users:         make(map[string]entity.User),
		subscriptions: make(map[string]entity.NewsletterSubscription),
		leads:         make(map[string]entity.Lead),
		now:           time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Users

func (s *Store) GetUser(_ context.Context, id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, in entity.NewUser) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == in.Username {
			return nil, repository.ErrDuplicate
		}
	}
	u := entity.User{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Password:  in.Password,
		IsAdmin:   in.IsAdmin,
		CreatedAt: s.now(),
	}
	s.users[u.ID] = u
	return &u, nil
}

// Newsletter

func (s *Store) CreateNewsletterSubscription(_ context.Context, in entity.NewSubscription) (*entity.NewsletterSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscriptions {
		if sub.Email == in.Email {
			return nil, repository.ErrDuplicate
		}
	}
	source := in.Source
	if source == "" {
		source = entity.DefaultSubscriptionSource
	}
	sub := entity.NewsletterSubscription{
		ID:           uuid.NewString(),
		Email:        in.Email,
		SubscribedAt: s.now(),
		Status:       entity.SubscriptionActive,
		Source:       source,
	}
	s.subscriptions[sub.ID] = sub
	return &sub, nil
}

func (s *Store) GetNewsletterSubscriptionByEmail(_ context.Context, email string) (*entity.NewsletterSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subscriptions {
		if sub.Email == email {
			return &sub, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetAllNewsletterSubscriptions(_ context.Context) ([]entity.NewsletterSubscription, error) {
	s.mu.RLock()
	out := make([]entity.NewsletterSubscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		out = append(out, sub)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubscribedAt.Equal(out[j].SubscribedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SubscribedAt.After(out[j].SubscribedAt)
	})
	return out, nil
}

// Leads

func (s *Store) CreateLead(_ context.Context, in entity.NewLead) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	l := entity.Lead{
		ID:        uuid.NewString(),
		Email:     in.Email,
		Name:      in.Name,
		Phone:     in.Phone,
		Message:   in.Message,
		Source:    in.Source,
		Status:    entity.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.leads[l.ID] = l
	return &l, nil
}

func (s *Store) GetAllLeads(_ context.Context) ([]entity.Lead, error) {
	return s.filterLeads(func(entity.Lead) bool { return true }), nil
}

func (s *Store) GetLeadByID(_ context.Context, id string) (*entity.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (s *Store) UpdateLead(_ context.Context, id string, u entity.LeadUpdate) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Apply(&l)
	now := s.now()
	// updatedAt must move forward even if the clock did not.
	if !now.After(l.UpdatedAt) {
		now = l.UpdatedAt.Add(time.Microsecond)
	}
	l.UpdatedAt = now
	s.leads[id] = l
	return &l, nil
}

func (s *Store) GetLeadsByStatus(_ context.Context, status entity.LeadStatus) ([]entity.Lead, error) {
	return s.filterLeads(func(l entity.Lead) bool { return l.Status == status }), nil
}

func (s *Store) GetLeadsBySource(_ context.Context, source entity.LeadSource) ([]entity.Lead, error) {
	return s.filterLeads(func(l entity.Lead) bool { return l.Source == source }), nil
}

func (s *Store) SearchLeads(_ context.Context, term string) ([]entity.Lead, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.filterLeads(func(entity.Lead) bool { return true }), nil
	}
	lower := strings.ToLower(term)
	return s.filterLeads(func(l entity.Lead) bool {
		if strings.Contains(strings.ToLower(l.Email), lower) {
			return true
		}
		if l.Name != nil && strings.Contains(strings.ToLower(*l.Name), lower) {
			return true
		}
		return l.Phone != nil && strings.Contains(*l.Phone, term)
	}), nil
}

func (s *Store) filterLeads(keep func(entity.Lead) bool) []entity.Lead {
	s.mu.RLock()
	out := make([]entity.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		if keep(l) {
			out = append(out, l)
		}
	}
	s.mu.RUnlock()
	sortLeadsNewestFirst(out)
	return out
}

func sortLeadsNewestFirst(leads []entity.Lead) {
	sort.Slice(leads, func(i, j int) bool {
		if leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].ID > leads[j].ID
		}
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
}

var _ repository.Store = (*Store)(nil)
