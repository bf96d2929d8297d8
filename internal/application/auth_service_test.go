package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/internal/infrastructure/memory"
	"github.com/oksasatya/lead-funnel/pkg/helpers"
)

func newAuthService(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewAuthService(store, memory.NewSessionStore(), helpers.NewSessionSigner("test-secret"), 0, helpers.NewDiscardLogger())
	return svc, store
}

func TestLoginIssuesResolvableSession(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "admin", "correct horse")
	require.NoError(t, err)
	assert.True(t, created)

	id, issued, err := svc.Login(ctx, "admin", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "admin", id.Username)
	assert.True(t, id.IsAdmin)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), issued.ExpiresAt, time.Minute)

	sess, err := svc.Resolve(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, id.ID, sess.UserID)
	assert.True(t, sess.IsAdmin)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	_, err = svc.Resolve(ctx, issued.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLoginRejects(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	_, err := svc.EnsureAdmin(ctx, "admin", "correct horse")
	require.NoError(t, err)
	hash, err := helpers.HashPassword("viewer-pass")
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, entity.NewUser{Username: "viewer", Password: hash})
	require.NoError(t, err)

	tests := []struct {
		name, username, password string
	}{
		{"wrong password", "admin", "nope"},
		{"unknown user", "ghost", "correct horse"},
		{"non-admin user", "viewer", "viewer-pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "admin", "pw-one-123")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = svc.EnsureAdmin(ctx, "admin", "pw-two-456")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "pw-one-123"))
}

func TestResolveRejectsForeignToken(t *testing.T) {
	svc, _ := newAuthService(t)
	other := helpers.NewSessionSigner("another-secret")
	tok, err := other.Sign("whatever", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), tok)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMeUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Me(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
