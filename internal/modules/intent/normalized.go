// README: Normalized retrieval intent handed from the dialogue to the recommender.
package intent

import "fmt"

// Normalized is the shape the recommendation pipeline consumes. It is built
// once per recommendation pass by folding the dialogue record into whatever
// the shopping-intent extractor produced for the final query.
type Normalized struct {
	Category         string    `json:"category,omitempty"`
	Subcategory      string    `json:"subcategory,omitempty"`
	BudgetMin        float64   `json:"budget_min,omitempty"`
	BudgetMax        float64   `json:"budget_max,omitempty"`
	Occasion         string    `json:"occasion,omitempty"`
	Style            string    `json:"style,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	ColorPreferences []string  `json:"color_preferences,omitempty"`
	Size             string    `json:"size,omitempty"`
	Keywords         []string  `json:"keywords,omitempty"`
	RawQuery         string    `json:"raw_query,omitempty"`
	Location         string    `json:"location,omitempty"`
	TripSegments     []Segment `json:"trip_segments,omitempty"`
	Brand            string    `json:"brand,omitempty"`
}

// BuildNormalized overlays the accumulated dialogue record onto a normalized
// intent extracted from the raw query. Record fields win: the record is the
// durable truth the user confirmed turn by turn, while the extraction only
// saw the final message.
func BuildNormalized(base Normalized, rec Record, rawQuery string) Normalized {
	n := base
	n.RawQuery = rawQuery
	if rec.Destination != "" {
		n.Location = rec.Destination
	}
	if rec.TravelDate != "" {
		n.Occasion = fmt.Sprintf("travel on %s", rec.TravelDate)
	}
	if len(rec.TripSegments) > 0 {
		n.TripSegments = rec.TripSegments
	}
	for _, a := range rec.Activities {
		n.Keywords = appendKeyword(n.Keywords, a)
	}
	if rec.BudgetAmount > 0 {
		n.BudgetMax = rec.BudgetAmount
	}
	if rec.Clothes != "" {
		n.Style = rec.Clothes
	}
	if rec.PreferredBrand != "" {
		n.Brand = rec.PreferredBrand
	}
	if rec.PreferredSize != "" {
		n.Size = rec.PreferredSize
	}
	return n
}

func appendKeyword(keywords []string, kw string) []string {
	for _, k := range keywords {
		if k == kw {
			return keywords
		}
	}
	return append(keywords, kw)
}
