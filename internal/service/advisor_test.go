package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"packwise/internal/ai"
	"packwise/internal/modules/catalog"
	"packwise/internal/modules/clarifier"
	"packwise/internal/modules/conversation"
	"packwise/internal/modules/customer"
	"packwise/internal/modules/intent"
	"packwise/internal/modules/recommend"
	"packwise/internal/modules/trip"
)

type stubDialogue struct {
	result  clarifier.Result
	err     error
	history []ai.Turn
}

func (s *stubDialogue) Analyze(_ context.Context, _ string, history []ai.Turn, _ intent.Record) (clarifier.Result, error) {
	s.history = history
	return s.result, s.err
}

type stubNormalizer struct {
	normalized *intent.Normalized
	err        error
	query      string
}

func (s *stubNormalizer) NormalizeShoppingQuery(_ context.Context, query string) (*intent.Normalized, error) {
	s.query = query
	return s.normalized, s.err
}

type stubCustomers struct{}

func (stubCustomers) GetContext(_ context.Context, customerID int64) customer.Context {
	return customer.Guest(customerID)
}

type stubTrips struct {
	location string
}

func (s *stubTrips) BuildContext(_ context.Context, location, _ string, _ []intent.Segment) trip.Environment {
	s.location = location
	return trip.Environment{Weather: trip.Weather{Temperature: 5, Description: "Cold"}}
}

type stubRecommender struct {
	products []catalog.Product
	text     string
	ectx     recommend.EnrichedContext
	called   bool
}

func (s *stubRecommender) Recommend(_ context.Context, ectx recommend.EnrichedContext, _ int) ([]catalog.Product, string, error) {
	s.called = true
	s.ectx = ectx
	return s.products, s.text, nil
}

type memSessions struct {
	records map[string]*intent.Record
}

func (m *memSessions) GetIntent(_ context.Context, sessionID string) (*intent.Record, error) {
	return m.records[sessionID], nil
}

func (m *memSessions) PutIntent(_ context.Context, sessionID string, rec *intent.Record) error {
	if m.records == nil {
		m.records = map[string]*intent.Record{}
	}
	m.records[sessionID] = rec
	return nil
}

type memHistory struct {
	conversations map[string]*conversation.Conversation
}

func (m *memHistory) GetBySession(_ context.Context, sessionID string) (*conversation.Conversation, error) {
	if c, ok := m.conversations[sessionID]; ok {
		return c, nil
	}
	return nil, conversation.ErrNotFound
}

func (m *memHistory) Save(_ context.Context, c *conversation.Conversation) error {
	if m.conversations == nil {
		m.conversations = map[string]*conversation.Conversation{}
	}
	m.conversations[c.SessionID] = c
	return nil
}

func newTestAdvisor(dialogue *stubDialogue, rec *stubRecommender) (*Advisor, *memSessions, *memHistory) {
	sessions := &memSessions{}
	history := &memHistory{}
	advisor := NewAdvisor(
		dialogue,
		&stubNormalizer{err: errors.New("model unavailable")},
		stubCustomers{},
		&stubTrips{},
		rec,
		sessions,
		history,
	)
	return advisor, sessions, history
}

func TestProcessMessageClarificationTurn(t *testing.T) {
	dialogue := &stubDialogue{result: clarifier.Result{
		NeedsClarification:    true,
		ClarificationQuestion: "Where would you like to travel?",
		AssistantMessage:      "Where would you like to travel?",
		UpdatedIntent:         intent.Record{},
	}}
	rec := &stubRecommender{}
	advisor, sessions, history := newTestAdvisor(dialogue, rec)

	resp, err := advisor.ProcessMessage(context.Background(), Request{SessionID: "s1", CustomerID: 7, Message: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.ClarificationNeeded || resp.Question != "Where would you like to travel?" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if rec.called {
		t.Error("recommendation pipeline ran during clarification")
	}
	if sessions.records["s1"] == nil {
		t.Error("session intent not persisted")
	}
	conv := history.conversations["s1"]
	if conv == nil || len(conv.Messages) != 2 {
		t.Fatalf("transcript not persisted: %+v", conv)
	}
	if conv.Messages[0].Role != "user" || conv.Messages[1].Role != "assistant" {
		t.Errorf("transcript roles wrong: %+v", conv.Messages)
	}
}

func TestProcessMessageRecommendationTurn(t *testing.T) {
	rec := intent.Record{
		Destination:          "Oslo, Norway",
		TravelDate:           "2026-01-10 to 2026-01-11",
		Activities:           []string{"hiking"},
		PreferredBrand:       "North",
		Notes:                "boots",
		ContextRefreshNeeded: true,
	}
	dialogue := &stubDialogue{result: clarifier.Result{
		AssistantMessage:        "Perfect! Let me prepare your personalized recommendations.",
		ReadyForRecommendations: true,
		UpdatedIntent:           rec,
	}}
	recommender := &stubRecommender{
		products: []catalog.Product{{ID: 1, Name: "Trail Boot"}},
		text:     "Pack for the cold.",
	}
	advisor, sessions, _ := newTestAdvisor(dialogue, recommender)

	resp, err := advisor.ProcessMessage(context.Background(), Request{SessionID: "s1", CustomerID: 7, Message: "that's it"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ClarificationNeeded {
		t.Error("turn should be a recommendation turn")
	}
	if len(resp.Products) != 1 {
		t.Fatalf("products = %+v", resp.Products)
	}
	if !strings.Contains(resp.Reply, "Perfect!") || !strings.Contains(resp.Reply, "Pack for the cold.") {
		t.Errorf("reply should combine dialogue message and narrative: %q", resp.Reply)
	}

	// The record overlays win even when query normalization fails.
	got := recommender.ectx.Intent
	if got.Location != "Oslo, Norway" || got.Brand != "North" || got.RawQuery != "boots" {
		t.Errorf("normalized intent = %+v", got)
	}
	if len(got.Keywords) != 1 || got.Keywords[0] != "hiking" {
		t.Errorf("keywords = %v", got.Keywords)
	}

	saved := sessions.records["s1"]
	if saved == nil || saved.ContextRefreshNeeded {
		t.Errorf("refresh flag should be cleared after rebuilding context: %+v", saved)
	}
}

func TestProcessMessageCarriesHistory(t *testing.T) {
	dialogue := &stubDialogue{result: clarifier.Result{
		NeedsClarification:    true,
		ClarificationQuestion: "When are you planning to travel?",
		AssistantMessage:      "When are you planning to travel?",
	}}
	advisor, _, history := newTestAdvisor(dialogue, &stubRecommender{})

	prior := &conversation.Conversation{SessionID: "s1", CustomerID: 7}
	prior.Append("user", "I'm going to Oslo")
	prior.Append("assistant", "When are you planning to travel to Oslo?")
	history.conversations = map[string]*conversation.Conversation{"s1": prior}

	if _, err := advisor.ProcessMessage(context.Background(), Request{SessionID: "s1", CustomerID: 7, Message: "next weekend"}); err != nil {
		t.Fatal(err)
	}
	if len(dialogue.history) != 2 {
		t.Fatalf("history turns = %d, want 2", len(dialogue.history))
	}
	if dialogue.history[0].Content != "I'm going to Oslo" {
		t.Errorf("history content = %+v", dialogue.history)
	}
	if len(history.conversations["s1"].Messages) != 4 {
		t.Errorf("transcript should grow by two turns: %d", len(history.conversations["s1"].Messages))
	}
}

func TestProcessMessageHistoryWindowIsFiveTurns(t *testing.T) {
	dialogue := &stubDialogue{result: clarifier.Result{
		NeedsClarification:    true,
		ClarificationQuestion: "When are you planning to travel?",
		AssistantMessage:      "When are you planning to travel?",
	}}
	advisor, _, history := newTestAdvisor(dialogue, &stubRecommender{})

	prior := &conversation.Conversation{SessionID: "s1", CustomerID: 7}
	for i := 0; i < 4; i++ {
		prior.Append("user", "older user turn")
		prior.Append("assistant", "older assistant turn")
	}
	prior.Append("user", "newest user turn")
	history.conversations = map[string]*conversation.Conversation{"s1": prior}

	if _, err := advisor.ProcessMessage(context.Background(), Request{SessionID: "s1", CustomerID: 7, Message: "next weekend"}); err != nil {
		t.Fatal(err)
	}
	if len(dialogue.history) != 5 {
		t.Fatalf("history turns = %d, want the last 5", len(dialogue.history))
	}
	if dialogue.history[4].Content != "newest user turn" {
		t.Errorf("most recent turn missing: %+v", dialogue.history)
	}
}

func TestProcessMessageDialogueError(t *testing.T) {
	dialogue := &stubDialogue{err: errors.New("deadline exceeded")}
	advisor, _, _ := newTestAdvisor(dialogue, &stubRecommender{})

	if _, err := advisor.ProcessMessage(context.Background(), Request{SessionID: "s1", Message: "hi"}); err == nil {
		t.Fatal("expected error")
	}
}
