package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionRepository stores the refresh token of each live session in Redis,
// keyed by user id. Login and signup overwrite the entry, logout removes it,
// and the reissue path checks the presented refresh token against it.
type SessionRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a session store whose entries expire with the
// refresh token TTL.
func NewSessionRepository(client *goredis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, userID, refreshToken string) error {
	if err := r.client.Set(ctx, sessionKeyPrefix+userID, refreshToken, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get returns the stored refresh token, or "" when no session exists.
func (r *SessionRepository) Get(ctx context.Context, userID string) (string, error) {
	val, err := r.client.Get(ctx, sessionKeyPrefix+userID).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return val, nil
}

// Delete removes the session entry. Errors are logged rather than returned —
// logout is fire-and-forget and idempotent.
func (r *SessionRepository) Delete(ctx context.Context, userID string) {
	if err := r.client.Del(ctx, sessionKeyPrefix+userID).Err(); err != nil {
		log.Printf("SessionRepository: delete error for user %s: %v", userID, err)
	}
}
