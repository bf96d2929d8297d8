package postgres

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/internal/domain/repository"
)

// newTestStore connects to TEST_DATABASE_URL, migrates, and truncates all tables.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	require.NoError(t, RunMigrations(dsn, "../../../db/migrations", logger))

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 4, 1, time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE users, newsletter_subscriptions, leads`)
	require.NoError(t, err)
	return NewStore(pool)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}

func TestPostgresSubscriptionUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub, err := s.CreateNewsletterSubscription(ctx, entity.NewSubscription{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionActive, sub.Status)
	assert.Equal(t, "website", sub.Source)

	_, err = s.CreateNewsletterSubscription(ctx, entity.NewSubscription{Email: "a@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	all, err := s.GetAllNewsletterSubscriptions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPostgresLeadLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	name := "Bea"
	l, err := s.CreateLead(ctx, entity.NewLead{Email: "b@x.com", Name: &name, Source: entity.SourceWebinar})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusNew, l.Status)
	assert.Nil(t, l.Notes)

	contacted := entity.StatusContacted
	upd, err := s.UpdateLead(ctx, l.ID, entity.LeadUpdate{Status: &contacted, Notes: entity.Some("called")})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusContacted, upd.Status)
	require.NotNil(t, upd.Notes)
	assert.Equal(t, "called", *upd.Notes)
	assert.Equal(t, "Bea", *upd.Name)
	assert.True(t, upd.UpdatedAt.After(l.CreatedAt))
	assert.Nil(t, upd.ContactedAt)

	upd, err = s.UpdateLead(ctx, l.ID, entity.LeadUpdate{Notes: entity.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, upd.Notes)
	assert.Equal(t, entity.StatusContacted, upd.Status)

	_, err = s.UpdateLead(ctx, uuid.NewString(), entity.LeadUpdate{Status: &contacted})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.GetLeadByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	byStatus, err := s.GetLeadsByStatus(ctx, entity.StatusContacted)
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	found, err := s.SearchLeads(ctx, "bea")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestPostgresUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, entity.NewUser{Username: "ops", Password: "hash"})
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)

	_, err = s.CreateUser(ctx, entity.NewUser{Username: "ops", Password: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	promoted, err := s.PromoteUser(ctx, "ops", "newhash")
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)
	assert.Equal(t, u.ID, promoted.ID)
}
