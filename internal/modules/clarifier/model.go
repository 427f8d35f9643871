// README: Outcome of a single dialogue turn.
package clarifier

import "packwise/internal/modules/intent"

// Result is what one analyzed turn produces: either a clarification question
// or the go-ahead for recommendations, plus the merged intent to persist.
type Result struct {
	NeedsClarification      bool             `json:"needs_clarification"`
	ClarificationQuestion   string           `json:"clarification_question,omitempty"`
	AssistantMessage        string           `json:"assistant_message"`
	UpdatedIntent           intent.Record    `json:"updated_intent"`
	ReadyForRecommendations bool             `json:"ready_for_recommendations"`
	DetectedChanges         intent.ChangeSet `json:"detected_changes"`
}
