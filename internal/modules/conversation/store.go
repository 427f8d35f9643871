// README: Conversation store backed by PostgreSQL with JSONB message arrays.
package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("conversation not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// GetBySession loads the transcript for a session.
func (s *Store) GetBySession(ctx context.Context, sessionID string) (*Conversation, error) {
	var c Conversation
	var raw []byte
	err := s.db.QueryRow(ctx, `
        SELECT id, session_id, customer_id, messages, created_at, updated_at
        FROM conversations
        WHERE session_id = $1`, sessionID,
	).Scan(&c.ID, &c.SessionID, &c.CustomerID, &raw, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &c.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages for session %s: %w", sessionID, err)
	}
	return &c, nil
}

// Save upserts the transcript keyed by session.
func (s *Store) Save(ctx context.Context, c *Conversation) error {
	raw, err := json.Marshal(c.Messages)
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO conversations (session_id, customer_id, messages, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (session_id) DO UPDATE
        SET messages = EXCLUDED.messages, updated_at = NOW()`,
		c.SessionID, c.CustomerID, raw,
	)
	return err
}

// Delete removes the transcript for a session. Missing rows are not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM conversations WHERE session_id = $1`, sessionID)
	return err
}
