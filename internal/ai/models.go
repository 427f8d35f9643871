// README: Structured outputs parsed from the model's JSON responses.
package ai

import "packwise/internal/modules/intent"

// Extraction captures the structured output of a travel-intent turn.
//
// UpdatedIntent is a partial record: nil fields mean the turn said nothing
// about them. The boolean signals classify the turn itself and drive the
// dialogue decision cascade; they are per-turn and never persisted.
type Extraction struct {
	// AssistantMessage is a candidate reply for this turn. The dialogue may
	// override it when a deterministic rule applies.
	AssistantMessage string `json:"assistant_message"`

	// UpdatedIntent holds the fields this turn extracted or confirmed.
	UpdatedIntent intent.Delta `json:"updated_intent"`

	// IsSkipResponse is true when the user wants to proceed without giving
	// optional details ("that's it", "no preference").
	IsSkipResponse bool `json:"is_skip_response"`

	// MentionsActivity is true when the turn mentions any activity, sport,
	// event, or experience, even as a single word.
	MentionsActivity bool `json:"mentions_activity"`

	// IsConfirmation is true for affirmative replies ("yes", "correct").
	IsConfirmation bool `json:"is_confirmation"`

	// HasDateInfo is true when the turn contains any date or time reference.
	HasDateInfo bool `json:"has_date_info"`

	// HasAmbiguousDate is true when the date reference is relative and needs
	// clarification ("next week", "in two weeks").
	HasAmbiguousDate bool `json:"has_ambiguous_date"`

	// IsNewTrip is true when the user is starting a fresh trip request.
	IsNewTrip bool `json:"is_new_trip"`

	// NextQuestion is the single follow-up question to ask, or nil when no
	// more information is needed.
	NextQuestion *string `json:"next_question,omitempty"`

	// ReadyForRecommendations is true once destination and travel dates are
	// both collected.
	ReadyForRecommendations bool `json:"ready_for_recommendations"`
}

// IntentSignals classifies a single message independently of the running
// intent record. A null product or activity unmarshals to the empty string.
type IntentSignals struct {
	HasShoppingIntent bool   `json:"has_shopping_intent"`
	ProductMentioned  string `json:"product_mentioned"`
	ActivityMentioned string `json:"activity_mentioned"`
	IsAffirmative     bool   `json:"is_affirmative"`
	IsNegative        bool   `json:"is_negative"`
}

// ExplainRequest carries everything the narrator needs to write the final
// recommendation narrative.
type ExplainRequest struct {
	Query          string   `json:"query"`
	Destination    string   `json:"destination"`
	TravelDate     string   `json:"travel_date"`
	TripDays       int      `json:"trip_days"`
	WeatherSummary string   `json:"weather_summary"`
	EventsSummary  string   `json:"events_summary"`
	CustomerStyle  string   `json:"customer_style"`
	ProductLines   []string `json:"product_lines"`
}
