// README: Enriched context consumed by the recommendation pipeline.
package recommend

import (
	"packwise/internal/modules/customer"
	"packwise/internal/modules/intent"
	"packwise/internal/modules/trip"
)

// EnrichedContext is everything known at recommendation time: the normalized
// shopping intent, the customer profile, and the destination environment.
type EnrichedContext struct {
	Intent      intent.Normalized `json:"intent"`
	Customer    customer.Context  `json:"customer"`
	Environment trip.Environment  `json:"environment"`
}

// NoMatchMessage is the canonical reply when nothing survives the filters.
const NoMatchMessage = "I couldn't find products matching your criteria. Could you try a different search?"
