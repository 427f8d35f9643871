// README: Session store backed by Redis; holds the accumulated intent per session.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"packwise/internal/modules/intent"
)

const (
	intentKeyPrefix = "session:intent:%s"
	// TTL for session state (trips should be planned well within 7 days).
	sessionTTL = 7 * 24 * time.Hour
)

// SessionStore keeps the in-progress intent record between turns.
type SessionStore struct {
	redis *redis.Client
}

func NewSessionStore(redis *redis.Client) *SessionStore {
	return &SessionStore{redis: redis}
}

// GetIntent returns the stored record, or nil when the session is new or
// expired.
func (s *SessionStore) GetIntent(ctx context.Context, sessionID string) (*intent.Record, error) {
	val, err := s.redis.Get(ctx, intentKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec intent.Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session intent: %w", err)
	}
	return &rec, nil
}

// PutIntent stores the record and refreshes the session TTL.
func (s *SessionStore) PutIntent(ctx context.Context, sessionID string, rec *intent.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session intent: %w", err)
	}
	return s.redis.Set(ctx, intentKey(sessionID), raw, sessionTTL).Err()
}

// DeleteIntent clears the session state.
func (s *SessionStore) DeleteIntent(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, intentKey(sessionID)).Err()
}

func intentKey(sessionID string) string {
	return fmt.Sprintf(intentKeyPrefix, sessionID)
}
