package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/internal/domain/repository"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionStore(rdb), mr
}

func TestSaveAndGet(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	sess := &entity.Session{ID: "abc", UserID: "u1", IsAdmin: true, CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour)}
	require.NoError(t, s.Save(ctx, sess))

	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, "u1", mr.HGet("session:abc", "user_id"))
	ttl := mr.TTL("session:abc")
	assert.Greater(t, ttl, 23*time.Hour)

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.IsAdmin)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Millisecond)
}

func TestGetMissing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDelete(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Save(ctx, &entity.Session{ID: "abc", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, s.Delete(ctx, "abc"))

	assert.False(t, mr.Exists("session:abc"))
	_, err := s.Get(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExpiredByTTL(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Save(ctx, &entity.Session{ID: "abc", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	mr.FastForward(2 * time.Hour)

	_, err := s.Get(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
