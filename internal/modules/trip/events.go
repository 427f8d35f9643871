// README: Local events via the Ticketmaster Discovery API with a static fallback.
package trip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"packwise/pkg/logger"
)

const ticketmasterURL = "https://app.ticketmaster.com/discovery/v2/events.json"

// EventsProvider looks up events for a destination and date window. With no
// API key it serves the static fallback list.
type EventsProvider struct {
	apiKey string
	http   *http.Client
}

func NewEventsProvider(apiKey string) *EventsProvider {
	return &EventsProvider{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *EventsProvider) GetLocalEvents(ctx context.Context, location, startDate, endDate string) []Event {
	if p.apiKey == "" {
		return fallbackEvents()
	}
	events, err := p.fetch(ctx, location, startDate, endDate)
	if err != nil {
		logx.Warn().Err(err).Str("location", location).Msg("events lookup failed, using fallback")
		return fallbackEvents()
	}
	if len(events) == 0 {
		return fallbackEvents()
	}
	return events
}

type tmResponse struct {
	Embedded struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
}

type tmEvent struct {
	Name            string `json:"name"`
	URL             string `json:"url"`
	Info            string `json:"info"`
	PleaseNote      string `json:"pleaseNote"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
		Genre struct {
			Name string `json:"name"`
		} `json:"genre"`
	} `json:"classifications"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
		End struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"end"`
	} `json:"dates"`
	Embedded struct {
		Venues []tmVenue `json:"venues"`
	} `json:"_embedded"`
}

type tmVenue struct {
	Name string `json:"name"`
	Type string `json:"type"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
	UpcomingEvents struct {
		Outdoor int `json:"outdoor"`
	} `json:"upcomingEvents"`
}

func (p *EventsProvider) fetch(ctx context.Context, location, startDate, endDate string) ([]Event, error) {
	q := url.Values{}
	q.Set("apikey", p.apiKey)
	q.Set("city", location)
	q.Set("size", strconv.Itoa(10))
	q.Set("sort", "date,asc")
	if startDate != "" {
		q.Set("startDateTime", startDate+"T00:00:00Z")
	}
	if endDate != "" {
		q.Set("endDateTime", endDate+"T23:59:59Z")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ticketmasterURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticketmaster status %d", resp.StatusCode)
	}

	var body tmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	var events []Event
	for _, e := range body.Embedded.Events {
		if len(events) >= 10 {
			break
		}
		events = append(events, Event{
			Title:            orDefault(e.Name, "Unknown Event"),
			Type:             eventType(e),
			Start:            eventStart(e),
			End:              eventEnd(e),
			Venue:            eventVenue(e),
			URL:              e.URL,
			Description:      eventDescription(e),
			WeatherSensitive: weatherSensitive(e),
		})
	}
	return events, nil
}

func eventType(e tmEvent) string {
	if len(e.Classifications) > 0 && e.Classifications[0].Segment.Name != "" {
		return strings.ToLower(e.Classifications[0].Segment.Name)
	}
	return "entertainment"
}

func eventStart(e tmEvent) string {
	date := orDefault(e.Dates.Start.LocalDate, "TBD")
	if e.Dates.Start.LocalTime != "" {
		return date + " " + e.Dates.Start.LocalTime
	}
	return date
}

func eventEnd(e tmEvent) string {
	if e.Dates.End.LocalDate == "" {
		return ""
	}
	if e.Dates.End.LocalTime != "" {
		return e.Dates.End.LocalDate + " " + e.Dates.End.LocalTime
	}
	return e.Dates.End.LocalDate
}

func eventVenue(e tmEvent) string {
	if len(e.Embedded.Venues) == 0 {
		return ""
	}
	v := e.Embedded.Venues[0]
	switch {
	case v.City.Name != "" && v.State.StateCode != "":
		return fmt.Sprintf("%s, %s, %s", v.Name, v.City.Name, v.State.StateCode)
	case v.City.Name != "":
		return fmt.Sprintf("%s, %s", v.Name, v.City.Name)
	}
	return v.Name
}

func eventDescription(e tmEvent) string {
	info := e.Info
	if info == "" {
		info = e.PleaseNote
	}
	if info != "" {
		if len(info) > 200 {
			return info[:200] + "..."
		}
		return info
	}
	if len(e.Classifications) > 0 {
		segment := e.Classifications[0].Segment.Name
		genre := e.Classifications[0].Genre.Name
		switch {
		case segment != "" && genre != "":
			return fmt.Sprintf("%s - %s event", segment, genre)
		case segment != "":
			return segment + " event"
		}
	}
	return "Live event"
}

func weatherSensitive(e tmEvent) bool {
	if len(e.Embedded.Venues) > 0 {
		v := e.Embedded.Venues[0]
		if v.UpcomingEvents.Outdoor > 0 {
			return true
		}
		vt := strings.ToLower(v.Type)
		if strings.Contains(vt, "outdoor") || strings.Contains(vt, "park") || strings.Contains(vt, "stadium") {
			return true
		}
	}
	et := eventType(e)
	for _, t := range []string{"sports", "music", "festival", "outdoor"} {
		if strings.Contains(et, t) {
			return true
		}
	}
	return false
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func fallbackEvents() []Event {
	return []Event{
		{Title: "Local Fashion Week", Type: "fashion", Start: "Upcoming", Venue: "Convention Center", Description: "Fashion and style showcase"},
		{Title: "Tech Conference", Type: "business", Start: "Upcoming", Venue: "Expo Hall", Description: "Technology and innovation event"},
		{Title: "Music Festival", Type: "entertainment", Start: "Upcoming", Venue: "City Park", Description: "Outdoor music and arts festival", WeatherSensitive: true},
	}
}
