package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionTokenKeyPrefix = "session:token:"
	sessionUserKeyPrefix  = "session:user:"
)

// createSessionScript swaps a user's session in one atomic step: delete
// whatever token the user held before, then write the new token and the
// user index with the same TTL. Running it as a Lua script closes the
// window where two concurrent logins could leave both tokens valid.
//
// KEYS[1] = user index key, KEYS[2] = new token key
// ARGV[1] = new token, ARGV[2] = session payload, ARGV[3] = token key prefix, ARGV[4] = TTL millis
var createSessionScript = redis.NewScript(`
	local prev = redis.call('GET', KEYS[1])
	if prev then
		redis.call('DEL', ARGV[3] .. prev)
	end
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[4])
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[4])
	return 1
`)

// redisSessionRepository backs the session registry with Redis so
// multiple instances share one registry. Expiry is delegated to key TTLs.
type redisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) domainRepo.SessionRepository {
	return &redisSessionRepository{client: client}
}

func (r *redisSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	userKey := sessionUserKeyPrefix + session.UserID.String()
	tokenKey := sessionTokenKeyPrefix + session.Token

	err = createSessionScript.Run(ctx, r.client,
		[]string{userKey, tokenKey},
		session.Token, payload, sessionTokenKeyPrefix, ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("create session for user %s: %w", session.UserID, err)
	}
	return nil
}

func (r *redisSessionRepository) FindByToken(ctx context.Context, token string) (*entity.Session, error) {
	raw, err := r.client.Get(ctx, sessionTokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// DeleteByToken is idempotent; deleting an absent token is not an error.
func (r *redisSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	session, err := r.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionTokenKeyPrefix+token)
	pipe.Del(ctx, sessionUserKeyPrefix+session.UserID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	userKey := sessionUserKeyPrefix + userID.String()
	token, err := r.client.Get(ctx, userKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("lookup user session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionTokenKeyPrefix+token)
	pipe.Del(ctx, userKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete user session: %w", err)
	}
	return nil
}
