// README: Intent record accumulated across dialogue turns, plus the merge policy.
package intent

import "strings"

// Segment is one leg of a multi-destination trip.
type Segment struct {
	Destination string   `json:"destination"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Activities  []string `json:"activities,omitempty"`
}

// Record holds everything collected about a trip/shopping request. It is the
// only entity whose lifetime spans turns; the session store owns it.
//
// The underscore-prefixed JSON names are control flags that steer the
// dialogue. They are persisted with the record but never shown to the user.
// Once set, a flag stays set until a destination change or an explicit
// new-trip signal resets it (see ResetPreferenceFlags).
type Record struct {
	Destination        string    `json:"destination,omitempty"`
	DestinationCity    string    `json:"destination_city,omitempty"`
	DestinationCountry string    `json:"destination_country,omitempty"`
	CountryOnly        bool      `json:"country_only,omitempty"`
	TravelDate         string    `json:"travel_date,omitempty"`
	TripSegments       []Segment `json:"trip_segments,omitempty"`
	Activities         []string  `json:"activities,omitempty"`
	PreferredBrand     string    `json:"preferred_brand,omitempty"`
	PreferredSize      string    `json:"preferred_size,omitempty"`
	Clothes            string    `json:"clothes,omitempty"`
	BudgetAmount       float64   `json:"budget_amount,omitempty"`
	BudgetCurrency     string    `json:"budget_currency,omitempty"`
	Notes              string    `json:"notes,omitempty"`

	AskedOptional            bool   `json:"_asked_optional,omitempty"`
	AskedActivities          bool   `json:"_asked_activities,omitempty"`
	AskedDateClarification   bool   `json:"_asked_date_clarification,omitempty"`
	AskedProductCategory     bool   `json:"_asked_product_category,omitempty"`
	AskedShoppingForActivity bool   `json:"_asked_shopping_for_activity,omitempty"`
	AwaitingShoppingConfirm  bool   `json:"_awaiting_shopping_confirm,omitempty"`
	PendingActivity          string `json:"_pending_activity,omitempty"`
	DeclinedShopping         bool   `json:"_declined_shopping,omitempty"`
	ShoppingFlowComplete     bool   `json:"_shopping_flow_complete,omitempty"`
	ProductCategoryReceived  bool   `json:"_product_category_received,omitempty"`
	AskedAmbiguousIntent     bool   `json:"_asked_ambiguous_intent,omitempty"`
	PendingCountry           string `json:"_pending_country,omitempty"`
	ContextRefreshNeeded     bool   `json:"_context_refresh_needed,omitempty"`
}

// Delta is a partial record extracted from a single turn. Nil means "the turn
// said nothing about this field" and never erases an existing value.
type Delta struct {
	Destination        *string   `json:"destination"`
	DestinationCity    *string   `json:"destination_city"`
	DestinationCountry *string   `json:"destination_country"`
	CountryOnly        *bool     `json:"country_only"`
	TravelDate         *string   `json:"travel_date"`
	TripSegments       []Segment `json:"trip_segments"`
	Activities         []string  `json:"activities"`
	PreferredBrand     *string   `json:"preferred_brand"`
	PreferredSize      *string   `json:"preferred_size"`
	Clothes            *string   `json:"clothes"`
	BudgetAmount       *float64  `json:"budget_amount"`
	BudgetCurrency     *string   `json:"budget_currency"`
	Notes              *string   `json:"notes"`
}

// Merge applies a delta to a record: non-nil fields overwrite, nil fields
// leave the prior value alone. This is the single mutation path for the
// record's user-facing fields, and it is idempotent.
func Merge(existing Record, delta Delta) Record {
	merged := existing
	if delta.Destination != nil {
		merged.Destination = *delta.Destination
	}
	if delta.DestinationCity != nil {
		merged.DestinationCity = *delta.DestinationCity
	}
	if delta.DestinationCountry != nil {
		merged.DestinationCountry = *delta.DestinationCountry
	}
	if delta.CountryOnly != nil {
		merged.CountryOnly = *delta.CountryOnly
	}
	if delta.TravelDate != nil {
		merged.TravelDate = *delta.TravelDate
	}
	if len(delta.TripSegments) > 0 {
		merged.TripSegments = delta.TripSegments
	}
	if len(delta.Activities) > 0 {
		// The extractor is instructed to return the full preserved activity
		// list, so a present value replaces rather than unions.
		merged.Activities = dedupeActivities(delta.Activities)
	}
	if delta.PreferredBrand != nil {
		merged.PreferredBrand = *delta.PreferredBrand
	}
	if delta.PreferredSize != nil {
		merged.PreferredSize = *delta.PreferredSize
	}
	if delta.Clothes != nil {
		merged.Clothes = *delta.Clothes
	}
	if delta.BudgetAmount != nil {
		merged.BudgetAmount = *delta.BudgetAmount
	}
	if delta.BudgetCurrency != nil {
		merged.BudgetCurrency = *delta.BudgetCurrency
	}
	if delta.Notes != nil {
		merged.Notes = *delta.Notes
	}
	return merged
}

// AddActivity appends an activity if it is not already present
// (case-insensitive).
func (r *Record) AddActivity(activity string) bool {
	for _, a := range r.Activities {
		if strings.EqualFold(a, activity) {
			return false
		}
	}
	r.Activities = append(r.Activities, activity)
	return true
}

// AppendNote appends to the free-text notes, "; "-separated.
func (r *Record) AppendNote(note string) {
	if r.Notes == "" {
		r.Notes = note
		return
	}
	r.Notes = r.Notes + "; " + note
}

// ResetPreferenceFlags clears the asked-optional and asked-activities flags.
// Called on a destination change or a new-trip signal so the dialogue re-asks
// preferences for the new destination.
func (r *Record) ResetPreferenceFlags() {
	r.AskedOptional = false
	r.AskedActivities = false
}

// HasDate reports whether the record carries any date information: either a
// travel date or at least one trip segment.
func (r *Record) HasDate() bool {
	return r.TravelDate != "" || len(r.TripSegments) > 0
}

func dedupeActivities(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		dup := false
		for _, e := range out {
			if strings.EqualFold(e, a) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, a)
		}
	}
	return out
}
