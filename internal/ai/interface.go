// README: Provider contracts for LLM-backed extraction, normalization, and narration.
package ai

import (
	"context"
	"time"

	"packwise/internal/modules/intent"
)

// LLMProvider defines the contract for interacting with AI models.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type LLMProvider interface {
	// ExtractTravelIntent analyzes a single dialogue turn and returns the
	// structured extraction: the partial intent, the turn signals, and a
	// candidate assistant message.
	ExtractTravelIntent(ctx context.Context, userMessage string, history []Turn, known intent.Record, today time.Time) (*Extraction, error)

	// DetectIntent classifies a single message: shopping intent, product and
	// activity mentions, and affirmative/negative replies. Callers fall back
	// to keyword matching when this errors.
	DetectIntent(ctx context.Context, userMessage string) (*IntentSignals, error)

	// ProductQuestion generates a short contextual question asking what
	// products the user is looking for.
	ProductQuestion(ctx context.Context, userMessage, destination, travelDate string, activities []string) (string, error)

	// NormalizeShoppingQuery extracts a normalized shopping intent
	// (category, budget, style, keywords) from the final user query.
	NormalizeShoppingQuery(ctx context.Context, query string) (*intent.Normalized, error)

	// Explain produces the user-facing recommendation narrative from the
	// enriched trip context and the selected products.
	Explain(ctx context.Context, req ExplainRequest) (string, error)
}

// Turn is one prior exchange in the conversation, passed as extraction context.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
