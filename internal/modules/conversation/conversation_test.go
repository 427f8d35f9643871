package conversation

import (
	"context"
	"os"
	"testing"

	"packwise/internal/infra"
	"packwise/internal/modules/intent"
)

func TestConversationAppendAndRecentTurns(t *testing.T) {
	var c Conversation
	c.Append("user", "I'm going to Oslo")
	c.Append("assistant", "When are you planning to travel to Oslo?")
	c.Append("user", "next weekend")

	if len(c.Messages) != 3 {
		t.Fatalf("messages = %d", len(c.Messages))
	}
	if c.Messages[0].Timestamp.IsZero() {
		t.Error("append should stamp the message")
	}

	recent := c.RecentTurns(2)
	if len(recent) != 2 || recent[0].Role != "assistant" {
		t.Errorf("recent turns = %+v", recent)
	}
	if got := c.RecentTurns(10); len(got) != 3 {
		t.Errorf("short transcripts return everything, got %d", len(got))
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	redisAddr := os.Getenv("PACKWISE_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("PACKWISE_REDIS_ADDR not set; skipping integration test")
	}
	store := NewSessionStore(infra.NewRedis(redisAddr))
	ctx := context.Background()
	const sessionID = "test-session-roundtrip"
	t.Cleanup(func() { _ = store.DeleteIntent(ctx, sessionID) })

	rec, err := store.GetIntent(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatalf("fresh session should have no intent: %+v", rec)
	}

	want := &intent.Record{
		Destination: "Oslo, Norway",
		TravelDate:  "2026-01-10 to 2026-01-11",
		Activities:  []string{"hiking"},
	}
	if err := store.PutIntent(ctx, sessionID, want); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetIntent(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Destination != want.Destination || got.TravelDate != want.TravelDate {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if err := store.DeleteIntent(ctx, sessionID); err != nil {
		t.Fatal(err)
	}
	got, err = store.GetIntent(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("deleted session should be empty: %+v", got)
	}
}
