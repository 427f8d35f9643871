// README: Environmental context entities: weather, events, trends, per-segment views.
package trip

// Weather is the forecast or climate estimate for a destination. DataSource
// is "forecast" for live data and "estimate" for the latitude-band fallback
// used when the trip is too far out.
type Weather struct {
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	WeatherCode   int     `json:"weather_code,omitempty"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	DataSource    string  `json:"data_source,omitempty"`
}

// Event is one local happening during the trip window.
type Event struct {
	Title            string `json:"title"`
	Type             string `json:"type"`
	Start            string `json:"start"`
	End              string `json:"end,omitempty"`
	Venue            string `json:"venue"`
	URL              string `json:"url,omitempty"`
	Description      string `json:"description"`
	WeatherSensitive bool   `json:"weather_sensitive"`
}

// SegmentContext is the environmental view for one leg of a multi-destination
// trip.
type SegmentContext struct {
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Weather     Weather `json:"weather"`
	LocalEvents []Event `json:"local_events"`
}

// Environment bundles everything the recommender needs about the outside
// world. Segments is populated for multi-destination trips; Weather and
// LocalEvents always reflect the primary destination.
type Environment struct {
	Weather     Weather          `json:"weather"`
	LocalEvents []Event          `json:"local_events"`
	Trends      []string         `json:"trends"`
	Segments    []SegmentContext `json:"segments,omitempty"`
}
