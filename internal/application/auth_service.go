package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	repo "github.com/oksasatya/lead-funnel/internal/domain/repository"
	"github.com/oksasatya/lead-funnel/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
)

// DefaultSessionTTL is how long an admin login stays valid.
const DefaultSessionTTL = 24 * time.Hour

type AuthService struct {
	Users    repo.UserRepository
	Sessions repo.SessionRepository
	Signer   *helpers.SessionSigner
	TTL      time.Duration
	Logger   *logrus.Logger

	now func() time.Time
}

func NewAuthService(users repo.UserRepository, sessions repo.SessionRepository, signer *helpers.SessionSigner, ttl time.Duration, logger *logrus.Logger) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{Users: users, Sessions: sessions, Signer: signer, TTL: ttl, Logger: logger, now: time.Now}
}

// Identity is the public view of a logged-in operator.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

func identityOf(u *entity.User) *Identity {
	return &Identity{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

// IssuedSession is what the HTTP layer needs to set the cookie.
type IssuedSession struct {
	ID        string
	Token     string
	ExpiresAt time.Time
}

// Authenticate checks the credentials and only accepts admin users: the
// dashboard is the sole consumer of sessions.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			helpers.CompareHashAndPassword("", password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) || !u.IsAdmin {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and opens a server-side session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Identity, IssuedSession, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, IssuedSession{}, err
	}
	issued, err := s.openSession(ctx, u)
	if err != nil {
		return nil, IssuedSession{}, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("admin login")
	}
	return identityOf(u), issued, nil
}

func (s *AuthService) openSession(ctx context.Context, u *entity.User) (IssuedSession, error) {
	now := s.now()
	sess := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		IsAdmin:   u.IsAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return IssuedSession{}, fmt.Errorf("save session: %w", err)
	}
	token, err := s.Signer.Sign(sess.ID, sess.ExpiresAt)
	if err != nil {
		_ = s.Sessions.Delete(ctx, sess.ID)
		return IssuedSession{}, fmt.Errorf("sign session: %w", err)
	}
	return IssuedSession{ID: sess.ID, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// Resolve turns a cookie token into a live session. Any failure short of a
// backend error is reported as ErrSessionNotFound.
func (s *AuthService) Resolve(ctx context.Context, token string) (*entity.Session, error) {
	sid, err := s.Signer.Parse(token)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	sess, err := s.Sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Logout destroys the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*Identity, error) {
	u, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return identityOf(u), nil
}

// EnsureAdmin creates an admin user unless the username is taken. It reports
// whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if _, err := s.Users.GetUserByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return false, fmt.Errorf("lookup user: %w", err)
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.Users.CreateUser(ctx, entity.NewUser{Username: username, Password: hash, IsAdmin: true}); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}
