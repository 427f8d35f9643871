// README: Conversation history models.
package conversation

import "time"

// Message is one turn of a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the persisted transcript of a session.
type Conversation struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	CustomerID int64     `json:"customer_id"`
	Messages   []Message `json:"messages"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Append adds a turn with the current timestamp.
func (c *Conversation) Append(role, content string) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content, Timestamp: time.Now().UTC()})
}

// RecentTurns returns up to n of the latest messages, oldest first.
func (c *Conversation) RecentTurns(n int) []Message {
	if len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}
