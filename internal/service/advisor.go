// README: Turn orchestration: session state, dialogue, context assembly, recommendations.
package service

import (
	"context"
	"errors"
	"fmt"

	"packwise/internal/ai"
	"packwise/internal/modules/catalog"
	"packwise/internal/modules/clarifier"
	"packwise/internal/modules/conversation"
	"packwise/internal/modules/customer"
	"packwise/internal/modules/intent"
	"packwise/internal/modules/recommend"
	"packwise/internal/modules/trip"
	"packwise/pkg/logger"
)

// historyWindow is how many prior turns the dialogue model sees.
const historyWindow = 5

// defaultResults is how many products a recommendation pass returns.
const defaultResults = 5

// Dialogue runs one clarification turn. Satisfied by clarifier.Service.
type Dialogue interface {
	Analyze(ctx context.Context, query string, history []ai.Turn, existing intent.Record) (clarifier.Result, error)
}

// Normalizer extracts structured shopping intent from the final query.
// Satisfied by the Gemini provider.
type Normalizer interface {
	NormalizeShoppingQuery(ctx context.Context, query string) (*intent.Normalized, error)
}

// CustomerSource assembles the customer view. Satisfied by customer.Service.
// It degrades internally and never fails.
type CustomerSource interface {
	GetContext(ctx context.Context, customerID int64) customer.Context
}

// TripSource assembles the destination environment. Satisfied by trip.Service.
type TripSource interface {
	BuildContext(ctx context.Context, location, travelDate string, segments []intent.Segment) trip.Environment
}

// Recommender runs the retrieval pipeline. Satisfied by recommend.Service.
type Recommender interface {
	Recommend(ctx context.Context, ectx recommend.EnrichedContext, numResults int) ([]catalog.Product, string, error)
}

// SessionStore keeps the intent record between turns.
type SessionStore interface {
	GetIntent(ctx context.Context, sessionID string) (*intent.Record, error)
	PutIntent(ctx context.Context, sessionID string, rec *intent.Record) error
}

// HistoryStore persists conversation transcripts.
type HistoryStore interface {
	GetBySession(ctx context.Context, sessionID string) (*conversation.Conversation, error)
	Save(ctx context.Context, c *conversation.Conversation) error
}

// Advisor wires the dialogue and the recommendation pipeline into one
// turn-by-turn entry point.
type Advisor struct {
	dialogue    Dialogue
	normalizer  Normalizer
	customers   CustomerSource
	trips       TripSource
	recommender Recommender
	sessions    SessionStore
	history     HistoryStore
}

func NewAdvisor(
	dialogue Dialogue,
	normalizer Normalizer,
	customers CustomerSource,
	trips TripSource,
	recommender Recommender,
	sessions SessionStore,
	history HistoryStore,
) *Advisor {
	return &Advisor{
		dialogue:    dialogue,
		normalizer:  normalizer,
		customers:   customers,
		trips:       trips,
		recommender: recommender,
		sessions:    sessions,
		history:     history,
	}
}

// Request is one user turn.
type Request struct {
	SessionID  string `json:"session_id"`
	CustomerID int64  `json:"customer_id"`
	Message    string `json:"message"`
}

// Response is what a turn produces: either a clarification question or the
// recommendation set with its narrative.
type Response struct {
	Reply               string            `json:"reply"`
	ClarificationNeeded bool              `json:"clarification_needed"`
	Question            string            `json:"question,omitempty"`
	Products            []catalog.Product `json:"products,omitempty"`
	UpdatedIntent       intent.Record     `json:"updated_intent"`
}

// ProcessMessage runs one full turn: load session state, run the dialogue,
// and when the dialogue signals readiness, assemble the enriched context and
// recommend. State is persisted on the way out; persistence failures are
// logged but never fail the turn.
func (a *Advisor) ProcessMessage(ctx context.Context, req Request) (*Response, error) {
	rec := a.loadIntent(ctx, req.SessionID)
	conv := a.loadConversation(ctx, req)
	history := turnsFromMessages(conv.RecentTurns(historyWindow))
	conv.Append("user", req.Message)

	result, err := a.dialogue.Analyze(ctx, req.Message, history, rec)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze message: %w", err)
	}

	resp := &Response{
		Reply:         result.AssistantMessage,
		UpdatedIntent: result.UpdatedIntent,
	}

	if result.NeedsClarification || !result.ReadyForRecommendations {
		resp.ClarificationNeeded = result.NeedsClarification
		resp.Question = result.ClarificationQuestion
		a.persist(ctx, req.SessionID, conv, resp)
		return resp, nil
	}

	ectx := a.buildEnrichedContext(ctx, req, result.UpdatedIntent)

	products, explanation, err := a.recommender.Recommend(ctx, ectx, defaultResults)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendations: %w", err)
	}

	resp.Products = products
	resp.Reply = joinReply(result.AssistantMessage, explanation)

	// The environment was just rebuilt; clear the refresh flag before the
	// record goes back to the session store.
	resp.UpdatedIntent.ContextRefreshNeeded = false

	a.persist(ctx, req.SessionID, conv, resp)
	return resp, nil
}

func (a *Advisor) buildEnrichedContext(ctx context.Context, req Request, rec intent.Record) recommend.EnrichedContext {
	return recommend.EnrichedContext{
		Intent:      a.normalizeQuery(ctx, rec),
		Customer:    a.customers.GetContext(ctx, req.CustomerID),
		Environment: a.trips.BuildContext(ctx, rec.Destination, rec.TravelDate, rec.TripSegments),
	}
}

// normalizeQuery turns the accumulated record into retrieval intent. The
// extractor sees the product query the user gave during the dialogue; its
// failure degrades to a record-only overlay.
func (a *Advisor) normalizeQuery(ctx context.Context, rec intent.Record) intent.Normalized {
	query := shoppingQuery(rec)

	var base intent.Normalized
	if query != "" {
		if extracted, err := a.normalizer.NormalizeShoppingQuery(ctx, query); err == nil {
			base = *extracted
		} else {
			logx.Warn().Err(err).Msg("shopping query normalization failed, using record only")
		}
	}
	return intent.BuildNormalized(base, rec, query)
}

// shoppingQuery picks the best retrieval text the dialogue collected.
func shoppingQuery(rec intent.Record) string {
	if rec.Notes != "" {
		return rec.Notes
	}
	if rec.Clothes != "" {
		return rec.Clothes
	}
	if len(rec.Activities) > 0 {
		return "products for " + rec.Activities[0]
	}
	return ""
}

func (a *Advisor) loadIntent(ctx context.Context, sessionID string) intent.Record {
	rec, err := a.sessions.GetIntent(ctx, sessionID)
	if err != nil {
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("session load failed, starting fresh")
		return intent.Record{}
	}
	if rec == nil {
		return intent.Record{}
	}
	return *rec
}

func (a *Advisor) loadConversation(ctx context.Context, req Request) *conversation.Conversation {
	conv, err := a.history.GetBySession(ctx, req.SessionID)
	if errors.Is(err, conversation.ErrNotFound) {
		return &conversation.Conversation{SessionID: req.SessionID, CustomerID: req.CustomerID}
	}
	if err != nil {
		logx.Warn().Err(err).Str("session_id", req.SessionID).Msg("conversation load failed, starting fresh")
		return &conversation.Conversation{SessionID: req.SessionID, CustomerID: req.CustomerID}
	}
	return conv
}

func (a *Advisor) persist(ctx context.Context, sessionID string, conv *conversation.Conversation, resp *Response) {
	conv.Append("assistant", resp.Reply)
	if err := a.history.Save(ctx, conv); err != nil {
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("conversation save failed")
	}
	rec := resp.UpdatedIntent
	if err := a.sessions.PutIntent(ctx, sessionID, &rec); err != nil {
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("session save failed")
	}
}

func turnsFromMessages(messages []conversation.Message) []ai.Turn {
	turns := make([]ai.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, ai.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

func joinReply(assistantMessage, explanation string) string {
	switch {
	case assistantMessage == "":
		return explanation
	case explanation == "":
		return assistantMessage
	default:
		return assistantMessage + "\n\n" + explanation
	}
}
