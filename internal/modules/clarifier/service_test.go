package clarifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"packwise/internal/ai"
	"packwise/internal/modules/intent"
)

type stubLLM struct {
	extraction *ai.Extraction
	extractErr error
	signals    ai.IntentSignals
	history    []ai.Turn
}

func (s *stubLLM) ExtractTravelIntent(_ context.Context, _ string, history []ai.Turn, _ intent.Record, _ time.Time) (*ai.Extraction, error) {
	s.history = history
	if s.extractErr != nil {
		return nil, s.extractErr
	}
	return s.extraction, nil
}

func (s *stubLLM) DetectIntent(context.Context, string) (*ai.IntentSignals, error) {
	sig := s.signals
	return &sig, nil
}

func (s *stubLLM) ProductQuestion(context.Context, string, string, string, []string) (string, error) {
	return "", errors.New("no model in tests")
}

func (s *stubLLM) NormalizeShoppingQuery(context.Context, string) (*intent.Normalized, error) {
	return nil, errors.New("no model in tests")
}

func (s *stubLLM) Explain(context.Context, ai.ExplainRequest) (string, error) {
	return "", errors.New("no model in tests")
}

func newTestService(llm ai.LLMProvider) *Service {
	svc := NewService(llm)
	svc.now = func() time.Time { return wednesday }
	return svc
}

func extraction(delta intent.Delta) *ai.Extraction {
	return &ai.Extraction{UpdatedIntent: delta}
}

func TestAnalyzeAmbiguousDateAsksForCalendarDates(t *testing.T) {
	dest := "Paris, France"
	llm := &stubLLM{extraction: &ai.Extraction{
		UpdatedIntent: intent.Delta{Destination: &dest},
		HasDateInfo:   true,
	}}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "I'm going to Paris next week", nil, intent.Record{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.NeedsClarification {
		t.Fatal("ambiguous date should need clarification")
	}
	if !strings.Contains(res.ClarificationQuestion, "exact start and end dates") {
		t.Errorf("question = %q", res.ClarificationQuestion)
	}
	if !strings.Contains(res.ClarificationQuestion, "Paris, France") {
		t.Errorf("question should name the destination: %q", res.ClarificationQuestion)
	}
	if !res.UpdatedIntent.AskedDateClarification {
		t.Error("date clarification flag not set")
	}
	if res.UpdatedIntent.TravelDate != "" {
		t.Errorf("ambiguous date must not be auto-parsed, got %q", res.UpdatedIntent.TravelDate)
	}
}

func TestAnalyzeMultiSegmentDatesAccepted(t *testing.T) {
	dest := "Paris, France"
	date := "2026-01-05 to 2026-01-12"
	llm := &stubLLM{extraction: &ai.Extraction{
		UpdatedIntent: intent.Delta{
			Destination: &dest,
			TravelDate:  &date,
			TripSegments: []intent.Segment{
				{Destination: "Paris, France", StartDate: "2026-01-05", EndDate: "2026-01-08"},
				{Destination: "Rome, Italy", StartDate: "2026-01-09", EndDate: "2026-01-12"},
			},
		},
		HasDateInfo: true,
	}}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "Paris Jan 5-8, then Rome Jan 9-12", nil, intent.Record{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.UpdatedIntent.TripSegments) != 2 {
		t.Fatalf("segments = %+v, want both legs", res.UpdatedIntent.TripSegments)
	}
	if res.UpdatedIntent.TravelDate != date {
		t.Errorf("travel date = %q, want %q", res.UpdatedIntent.TravelDate, date)
	}
	if strings.Contains(res.ClarificationQuestion, "exact start and end dates") {
		t.Errorf("specific dates must not trigger date clarification: %q", res.ClarificationQuestion)
	}
	if res.UpdatedIntent.AskedDateClarification {
		t.Error("date clarification flag must stay unset")
	}
	// Dates are settled, so the cascade moves straight on to activities.
	if !strings.Contains(res.ClarificationQuestion, "activities") {
		t.Errorf("expected activities question, got %q", res.ClarificationQuestion)
	}
}

func TestAnalyzeTruncatesHistoryToFiveTurns(t *testing.T) {
	dest := "Paris, France"
	llm := &stubLLM{extraction: extraction(intent.Delta{Destination: &dest})}
	svc := newTestService(llm)

	var history []ai.Turn
	for i := 0; i < 8; i++ {
		history = append(history, ai.Turn{Role: "user", Content: fmt.Sprintf("turn %d", i)})
	}
	if _, err := svc.Analyze(context.Background(), "Paris please", history, intent.Record{}); err != nil {
		t.Fatal(err)
	}
	if len(llm.history) != 5 {
		t.Fatalf("extraction saw %d turns, want the last 5", len(llm.history))
	}
	if llm.history[0].Content != "turn 3" || llm.history[4].Content != "turn 7" {
		t.Errorf("wrong window: %+v", llm.history)
	}
}

func TestAnalyzeResolvesThisWeekend(t *testing.T) {
	dest := "Tokyo, Japan"
	llm := &stubLLM{extraction: extraction(intent.Delta{Destination: &dest})}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "Tokyo this weekend", nil, intent.Record{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := res.UpdatedIntent.TravelDate, "2026-01-10 to 2026-01-11"; got != want {
		t.Errorf("travel date = %q, want %q", got, want)
	}
	// Destination and dates are in, so the next step is the activities question.
	if !res.NeedsClarification || !strings.Contains(res.ClarificationQuestion, "activities") {
		t.Errorf("expected activities question, got %q", res.ClarificationQuestion)
	}
	if !res.UpdatedIntent.AskedActivities {
		t.Error("activities flag not set after asking")
	}
}

func TestAnalyzeProductMentionSkipsShoppingQuestions(t *testing.T) {
	dest := "Paris, France"
	llm := &stubLLM{extraction: extraction(intent.Delta{Destination: &dest})}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "I want to buy shoes for my trip to Paris", nil, intent.Record{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.UpdatedIntent.ShoppingFlowComplete {
		t.Error("named product should complete the shopping flow without questions")
	}
	if !strings.Contains(res.UpdatedIntent.Notes, "shoes") {
		t.Errorf("notes = %q", res.UpdatedIntent.Notes)
	}
	found := false
	for _, a := range res.UpdatedIntent.Activities {
		if a == "shopping" {
			found = true
		}
	}
	if !found {
		t.Errorf("shopping not added to activities: %v", res.UpdatedIntent.Activities)
	}
	// Dates are still missing, so the turn ends on the date question.
	if !res.NeedsClarification || !strings.Contains(res.ClarificationQuestion, "When are you planning to travel") {
		t.Errorf("expected date question, got %q", res.ClarificationQuestion)
	}
}

func TestAnalyzeActivityMentionOffersShopping(t *testing.T) {
	llm := &stubLLM{extraction: extraction(intent.Delta{})}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "planning a hiking trip", nil, intent.Record{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := res.ClarificationQuestion, "Would you like to do shopping for hiking?"; got != want {
		t.Errorf("question = %q, want %q", got, want)
	}
	if !res.UpdatedIntent.AwaitingShoppingConfirm || res.UpdatedIntent.PendingActivity != "hiking" {
		t.Errorf("confirm state not armed: %+v", res.UpdatedIntent)
	}
}

func TestAnalyzeShoppingConfirmYes(t *testing.T) {
	existing := intent.Record{
		Destination:              "Denver, USA",
		TravelDate:               "2026-02-01 to 2026-02-05",
		Activities:               []string{"hiking"},
		AskedActivities:          true,
		AskedShoppingForActivity: true,
		AwaitingShoppingConfirm:  true,
		PendingActivity:          "hiking",
	}
	llm := &stubLLM{
		extraction: &ai.Extraction{UpdatedIntent: intent.Delta{}, IsConfirmation: true},
		signals:    ai.IntentSignals{IsAffirmative: true},
	}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "yes", nil, existing)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := res.ClarificationQuestion, "What kind of products or category of products would you like to buy?"; got != want {
		t.Errorf("question = %q, want %q", got, want)
	}
	if res.UpdatedIntent.AwaitingShoppingConfirm {
		t.Error("confirm state should be cleared")
	}
	if !res.UpdatedIntent.AskedProductCategory {
		t.Error("product category flag not set")
	}
}

func TestAnalyzeShoppingConfirmYesWithProduct(t *testing.T) {
	existing := intent.Record{
		Destination:             "Denver, USA",
		TravelDate:              "2026-02-01 to 2026-02-05",
		AwaitingShoppingConfirm: true,
		PendingActivity:         "hiking",
	}
	llm := &stubLLM{
		extraction: &ai.Extraction{UpdatedIntent: intent.Delta{}, IsConfirmation: true},
		signals:    ai.IntentSignals{IsAffirmative: true, ProductMentioned: "boots"},
	}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "yes, like to buy boots", nil, existing)
	if err != nil {
		t.Fatal(err)
	}
	if res.NeedsClarification {
		t.Fatalf("should proceed directly: %+v", res)
	}
	if !res.ReadyForRecommendations {
		t.Error("expected ready for recommendations")
	}
	if got, want := res.AssistantMessage, "Great! I'll find boots recommendations for hiking."; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if !res.UpdatedIntent.ShoppingFlowComplete {
		t.Error("shopping flow should be complete")
	}
}

func TestAnalyzeShoppingConfirmNo(t *testing.T) {
	existing := intent.Record{
		Destination:             "Denver, USA",
		TravelDate:              "2026-02-01 to 2026-02-05",
		AwaitingShoppingConfirm: true,
		PendingActivity:         "hiking",
	}
	llm := &stubLLM{
		extraction: extraction(intent.Delta{}),
		signals:    ai.IntentSignals{IsNegative: true},
	}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "no thanks", nil, existing)
	if err != nil {
		t.Fatal(err)
	}
	if res.NeedsClarification || res.ReadyForRecommendations {
		t.Fatalf("decline should end with tips only: %+v", res)
	}
	if !strings.Contains(res.AssistantMessage, "tips for hiking") {
		t.Errorf("message = %q", res.AssistantMessage)
	}
	if !res.UpdatedIntent.DeclinedShopping {
		t.Error("declined flag not set")
	}
}

func TestAnalyzeProductCategoryAnswerCaptured(t *testing.T) {
	existing := intent.Record{
		Destination:          "Denver, USA",
		TravelDate:           "2026-02-01 to 2026-02-05",
		AskedActivities:      true,
		AskedProductCategory: true,
	}
	llm := &stubLLM{extraction: extraction(intent.Delta{})}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "warm jackets and boots", nil, existing)
	if err != nil {
		t.Fatal(err)
	}
	if !res.UpdatedIntent.ProductCategoryReceived || !res.UpdatedIntent.ShoppingFlowComplete {
		t.Errorf("answer not captured: %+v", res.UpdatedIntent)
	}
	if !strings.Contains(res.UpdatedIntent.Notes, "warm jackets and boots") {
		t.Errorf("notes = %q", res.UpdatedIntent.Notes)
	}
}

func TestAnalyzeSkipAfterOptionalIsReady(t *testing.T) {
	existing := intent.Record{
		Destination:     "Paris, France",
		TravelDate:      "2026-01-10 to 2026-01-11",
		Activities:      []string{"hiking"},
		AskedActivities: true,
		AskedOptional:   true,
	}
	llm := &stubLLM{extraction: &ai.Extraction{UpdatedIntent: intent.Delta{}, IsSkipResponse: true}}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "that's it", nil, existing)
	if err != nil {
		t.Fatal(err)
	}
	if !res.ReadyForRecommendations {
		t.Fatalf("skip after optional should be ready: %+v", res)
	}
	if got, want := res.AssistantMessage, "Perfect! Let me prepare your personalized recommendations."; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestAnalyzeDestinationChangeAcknowledged(t *testing.T) {
	existing := intent.Record{
		Destination:     "Paris, France",
		TravelDate:      "2026-01-10 to 2026-01-11",
		Activities:      []string{"hiking"},
		AskedActivities: true,
		AskedOptional:   true,
	}
	dest := "Rome, Italy"
	llm := &stubLLM{extraction: extraction(intent.Delta{Destination: &dest})}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "actually make it Rome", nil, existing)
	if err != nil {
		t.Fatal(err)
	}
	if !res.DetectedChanges.DestinationChanged {
		t.Fatalf("change not detected: %+v", res.DetectedChanges)
	}
	if !strings.HasPrefix(res.AssistantMessage, "I've updated your destination from Paris, France to Rome, Italy. ") {
		t.Errorf("message = %q", res.AssistantMessage)
	}
	if !res.UpdatedIntent.ContextRefreshNeeded {
		t.Error("context refresh flag not set")
	}
	// Preference questions re-open for the new destination.
	if !res.NeedsClarification || !strings.Contains(res.ClarificationQuestion, "budget or favorite brands") {
		t.Errorf("expected the optional-preferences question, got %q", res.ClarificationQuestion)
	}
}

func TestAnalyzeExtractionFailureKeepsIntent(t *testing.T) {
	existing := intent.Record{Destination: "Paris, France"}
	llm := &stubLLM{extractErr: errors.New("model unavailable")}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "anything", nil, existing)
	if err != nil {
		t.Fatalf("extraction failure must not surface an error: %v", err)
	}
	if res.UpdatedIntent.Destination != "Paris, France" {
		t.Errorf("intent changed on failure: %+v", res.UpdatedIntent)
	}
	if res.AssistantMessage != "" || res.ReadyForRecommendations {
		t.Errorf("degraded turn should be inert: %+v", res)
	}
}

func TestAnalyzeCountryOnlyAsksForCity(t *testing.T) {
	country := "UK"
	countryOnly := true
	llm := &stubLLM{extraction: extraction(intent.Delta{
		DestinationCountry: &country,
		CountryOnly:        &countryOnly,
	})}
	svc := newTestService(llm)

	res, err := svc.Analyze(context.Background(), "I'm travelling to the UK", nil, intent.Record{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := res.ClarificationQuestion, "Which city are you travelling to in UK?"; got != want {
		t.Errorf("question = %q, want %q", got, want)
	}
	if res.UpdatedIntent.PendingCountry != "UK" {
		t.Errorf("pending country = %q", res.UpdatedIntent.PendingCountry)
	}
}
