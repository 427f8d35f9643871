// README: Environmental context assembly, including per-segment lookups for multi-leg trips.
package trip

import (
	"context"
	"strings"

	"packwise/internal/modules/intent"
)

// WeatherSource and EventsSource are what the service needs from the
// providers; satisfied by WeatherProvider and EventsProvider.
type WeatherSource interface {
	GetWeather(ctx context.Context, location, startDate string) (Weather, error)
}

type EventsSource interface {
	GetLocalEvents(ctx context.Context, location, startDate, endDate string) []Event
}

type Service struct {
	weather WeatherSource
	events  EventsSource
}

func NewService(weather WeatherSource, events EventsSource) *Service {
	return &Service{weather: weather, events: events}
}

// BuildContext assembles the environment for a trip. The primary destination
// always gets weather and events; each segment of a multi-destination trip
// additionally gets its own lookup keyed to its own dates.
func (s *Service) BuildContext(ctx context.Context, location, travelDate string, segments []intent.Segment) Environment {
	start, end := SplitDateRange(travelDate)

	lookupLocation := location
	if lookupLocation == "" {
		lookupLocation = "New York"
	}

	weather, err := s.weather.GetWeather(ctx, location, start)
	if err != nil {
		weather = Weather{Description: "Unable to fetch weather data", Location: lookupLocation}
	}

	env := Environment{
		Weather:     weather,
		LocalEvents: s.events.GetLocalEvents(ctx, lookupLocation, start, end),
		Trends:      FashionTrends(),
	}

	if len(segments) > 1 {
		for _, seg := range segments {
			segWeather, err := s.weather.GetWeather(ctx, seg.Destination, seg.StartDate)
			if err != nil {
				segWeather = Weather{Description: "Unable to fetch weather data", Location: seg.Destination}
			}
			segEvents := s.events.GetLocalEvents(ctx, seg.Destination, seg.StartDate, seg.EndDate)
			// Per-segment context stays compact: three events per leg.
			if len(segEvents) > 3 {
				segEvents = segEvents[:3]
			}
			env.Segments = append(env.Segments, SegmentContext{
				Destination: seg.Destination,
				StartDate:   seg.StartDate,
				EndDate:     seg.EndDate,
				Weather:     segWeather,
				LocalEvents: segEvents,
			})
		}
	}

	return env
}

// SplitDateRange splits "YYYY-MM-DD to YYYY-MM-DD" into its endpoints. A
// single date becomes both endpoints; anything unparseable returns empties.
func SplitDateRange(travelDate string) (start, end string) {
	travelDate = strings.TrimSpace(travelDate)
	if travelDate == "" {
		return "", ""
	}
	if before, after, found := strings.Cut(travelDate, " to "); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	if len(travelDate) == 10 && strings.Count(travelDate, "-") == 2 {
		return travelDate, travelDate
	}
	return "", ""
}
