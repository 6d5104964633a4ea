package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session binds an opaque token to a user. The role here is a snapshot
// taken at login; the authentication gate re-reads the role from the
// user record on every request, so the store stays authoritative.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Principal is the authenticated identity attached to a request after
// the authentication gate resolves a session token.
type Principal struct {
	UserID uuid.UUID
	Role   Role
	Email  string
}
