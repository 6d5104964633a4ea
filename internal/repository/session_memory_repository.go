package repository

import (
	"context"
	"sync"
	"time"

	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"

	"github.com/google/uuid"
)

// memorySessionRepository keeps sessions in process memory behind a
// RWMutex. Suitable for a single-instance deployment; the Redis
// implementation covers anything else. Expired sessions are dropped
// lazily on lookup.
type memorySessionRepository struct {
	mu      sync.RWMutex
	byToken map[string]entity.Session
	byUser  map[uuid.UUID]string
}

func NewMemorySessionRepository() domainRepo.SessionRepository {
	return &memorySessionRepository{
		byToken: make(map[string]entity.Session),
		byUser:  make(map[uuid.UUID]string),
	}
}

// Create stores the session and revokes the user's previous token under
// the same lock, so the single-active-session invariant cannot be lost
// to interleaving.
func (r *memorySessionRepository) Create(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byUser[session.UserID]; ok {
		delete(r.byToken, prev)
	}
	r.byToken[session.Token] = *session
	r.byUser[session.UserID] = session.Token
	return nil
}

func (r *memorySessionRepository) FindByToken(ctx context.Context, token string) (*entity.Session, error) {
	r.mu.RLock()
	session, ok := r.byToken[token]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if session.Expired(time.Now()) {
		r.mu.Lock()
		// Re-check under the write lock; a fresh login may have reused the slot.
		if current, still := r.byToken[token]; still && current.Expired(time.Now()) {
			delete(r.byToken, token)
			if r.byUser[current.UserID] == token {
				delete(r.byUser, current.UserID)
			}
		}
		r.mu.Unlock()
		return nil, nil
	}
	return &session, nil
}

func (r *memorySessionRepository) DeleteByToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.byToken[token]; ok {
		delete(r.byToken, token)
		if r.byUser[session.UserID] == token {
			delete(r.byUser, session.UserID)
		}
	}
	return nil
}

func (r *memorySessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token, ok := r.byUser[userID]; ok {
		delete(r.byToken, token)
		delete(r.byUser, userID)
	}
	return nil
}
