package entity

import (
	"time"
)

// User is an operator account for the admin dashboard.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser carries the fields accepted by the store when creating a user.
type NewUser struct {
	Username string
	Password string
	IsAdmin  bool
}

// Session is the server-side half of an admin login. The cookie only carries ID.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
