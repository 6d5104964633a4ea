package repository

import (
	"context"
	"testing"
	"time"

	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

func newTestSession(userID uuid.UUID, ttl time.Duration) *entity.Session {
	now := time.Now()
	return &entity.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Role:      entity.RolePatient,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemorySessionRoundTrip(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session := newTestSession(uuid.New(), time.Hour)
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.FindByToken(ctx, session.Token)
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.UserID != session.UserID {
		t.Errorf("UserID = %s, want %s", got.UserID, session.UserID)
	}
}

func TestMemorySessionUnknownToken(t *testing.T) {
	repo := NewMemorySessionRepository()

	got, err := repo.FindByToken(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown token, got %+v", got)
	}
}

func TestMemorySessionSingleActivePerUser(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	userID := uuid.New()

	first := newTestSession(userID, time.Hour)
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	second := newTestSession(userID, time.Hour)
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	got, err := repo.FindByToken(ctx, first.Token)
	if err != nil {
		t.Fatalf("FindByToken first: %v", err)
	}
	if got != nil {
		t.Error("first session should be revoked after second login")
	}

	got, err = repo.FindByToken(ctx, second.Token)
	if err != nil {
		t.Fatalf("FindByToken second: %v", err)
	}
	if got == nil {
		t.Fatal("second session should be active")
	}
}

func TestMemorySessionExpiry(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session := newTestSession(uuid.New(), -time.Minute)
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.FindByToken(ctx, session.Token)
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if got != nil {
		t.Error("expired session should resolve to nil")
	}
}

func TestMemorySessionDeleteIdempotent(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	session := newTestSession(uuid.New(), time.Hour)
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.DeleteByToken(ctx, session.Token); err != nil {
			t.Fatalf("DeleteByToken attempt %d: %v", i+1, err)
		}
	}

	got, err := repo.FindByToken(ctx, session.Token)
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if got != nil {
		t.Error("deleted session should resolve to nil")
	}
}

func TestMemorySessionDeleteByUserID(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	userID := uuid.New()

	session := newTestSession(userID, time.Hour)
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.DeleteByUserID(ctx, userID); err != nil {
		t.Fatalf("DeleteByUserID: %v", err)
	}

	got, err := repo.FindByToken(ctx, session.Token)
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if got != nil {
		t.Error("session should be gone after DeleteByUserID")
	}
}
