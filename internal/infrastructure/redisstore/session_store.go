package redisstore

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/internal/domain/repository"
)

func sessionKey(id string) string {
	return "session:" + id
}

// SessionStore keeps admin sessions as Redis hashes that expire with the session.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Save(ctx context.Context, sess *entity.Session) error {
	key := sessionKey(sess.ID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    sess.UserID,
		"is_admin":   strconv.FormatBool(sess.IsAdmin),
		"created_at": sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		"expires_at": sess.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, time.Until(sess.ExpiresAt))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data["user_id"] == "" {
		return nil, repository.ErrNotFound
	}
	sess := &entity.Session{ID: id, UserID: data["user_id"]}
	sess.IsAdmin, _ = strconv.ParseBool(data["is_admin"])
	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, data["created_at"])
	if sess.ExpiresAt, err = time.Parse(time.RFC3339Nano, data["expires_at"]); err != nil {
		return nil, repository.ErrNotFound
	}
	if sess.Expired(time.Now()) {
		return nil, repository.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}

var _ repository.SessionRepository = (*SessionStore)(nil)
