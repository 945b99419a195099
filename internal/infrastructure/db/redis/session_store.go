package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crudusers/user-admin/internal/core/domain"
)

// SessionStore keeps session records in Redis until the token expires.
// Key format: session:<id>
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

// Save stores s with a TTL that ends at s.ExpiresAt.
func (st *SessionStore) Save(ctx context.Context, s *domain.Session) error {
	ttl := st.ttl(s)
	if ttl <= 0 {
		return fmt.Errorf("save session %s: already expired", s.ID)
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := st.client.Set(ctx, sessionKey(s.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (st *SessionStore) Find(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := st.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return decodeSession(payload)
}

// Delete is idempotent; deleting an unknown session is not an error.
func (st *SessionStore) Delete(ctx context.Context, id string) error {
	if err := st.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (st *SessionStore) ttl(s *domain.Session) time.Duration {
	return s.ExpiresAt.Sub(st.now())
}

func decodeSession(payload []byte) (*domain.Session, error) {
	var s domain.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func sessionKey(id string) string {
	return "session:" + id
}
