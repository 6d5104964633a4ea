package repository

import (
	"context"

	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionRepository is the session registry. At most one valid session
// exists per user: Create revokes whatever token the user held before.
//
// FindByToken returns (nil, nil) for unknown or expired tokens —
// absence is the "not logged in" state, not an error.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindByToken(ctx context.Context, token string) (*entity.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
