// README: Weather lookup: geocoding, open-meteo forecast, latitude-band climate fallback.
package trip

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"packwise/pkg/logger"
)

const openMeteoURL = "https://api.open-meteo.com/v1/forecast"

// Open-meteo forecasts cover 16 days; anything further out gets a climate
// estimate instead.
const forecastHorizonDays = 16

// Static fallback coordinates for when geocoding is unavailable.
var cityCoords = map[string][2]float64{
	"paris":         {48.8566, 2.3522},
	"london":        {51.5074, -0.1278},
	"new york":      {40.7128, -74.0060},
	"los angeles":   {34.0522, -118.2437},
	"tokyo":         {35.6762, 139.6503},
	"sydney":        {-33.8688, 151.2093},
	"dubai":         {25.2048, 55.2708},
	"miami":         {25.7617, -80.1918},
	"seattle":       {47.6062, -122.3321},
	"chicago":       {41.8781, -87.6298},
	"san francisco": {37.7749, -122.4194},
	"boston":        {42.3601, -71.0589},
	"rome":          {41.9028, 12.4964},
	"barcelona":     {41.3851, 2.1734},
	"berlin":        {52.5200, 13.4050},
	"amsterdam":     {52.3676, 4.9041},
	"singapore":     {1.3521, 103.8198},
	"hong kong":     {22.3193, 114.1694},
	"bangkok":       {13.7563, 100.5018},
	"mumbai":        {19.0760, 72.8777},
}

// defaultLat/Lng is New York, used when nothing about the location resolves.
const (
	defaultLat = 40.7128
	defaultLng = -74.0060
)

var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	95: "Thunderstorm",
}

// WeatherProvider resolves a destination's coordinates and fetches its
// forecast. The maps client is optional; without it only the static table and
// the New York default are available.
type WeatherProvider struct {
	maps *maps.Client
	http *http.Client
	now  func() time.Time
}

func NewWeatherProvider(mapsClient *maps.Client) *WeatherProvider {
	return &WeatherProvider{
		maps: mapsClient,
		http: &http.Client{Timeout: 10 * time.Second},
		now:  time.Now,
	}
}

// GetWeather returns the forecast for the location, or a latitude-band
// climate estimate when the trip starts beyond the forecast horizon or the
// forecast API is unreachable.
func (p *WeatherProvider) GetWeather(ctx context.Context, location, startDate string) (Weather, error) {
	lat, lng := p.coordinates(ctx, location)

	if p.daysUntilTravel(startDate) > forecastHorizonDays {
		return climateEstimate(lat, location), nil
	}

	w, err := p.fetchForecast(ctx, lat, lng, location)
	if err != nil {
		logx.Warn().Err(err).Str("location", location).Msg("forecast fetch failed, using climate estimate")
		return climateEstimate(lat, location), nil
	}
	return w, nil
}

func (p *WeatherProvider) coordinates(ctx context.Context, location string) (float64, float64) {
	if location == "" {
		return defaultLat, defaultLng
	}
	if p.maps != nil {
		results, err := p.maps.Geocode(ctx, &maps.GeocodingRequest{Address: location})
		if err == nil && len(results) > 0 {
			loc := results[0].Geometry.Location
			return loc.Lat, loc.Lng
		}
		if err != nil {
			logx.Debug().Err(err).Str("location", location).Msg("geocode failed")
		}
	}
	if coords, ok := cityCoords[strings.ToLower(strings.TrimSpace(location))]; ok {
		return coords[0], coords[1]
	}
	// "City, Country" forms fall back to the city part.
	if city, _, found := strings.Cut(location, ","); found {
		if coords, ok := cityCoords[strings.ToLower(strings.TrimSpace(city))]; ok {
			return coords[0], coords[1]
		}
	}
	return defaultLat, defaultLng
}

func (p *WeatherProvider) daysUntilTravel(startDate string) int {
	if startDate == "" {
		return 0
	}
	t, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return 0
	}
	days := int(t.Sub(p.now()).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

type openMeteoResponse struct {
	Current struct {
		Temperature2m float64 `json:"temperature_2m"`
		Precipitation float64 `json:"precipitation"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
}

func (p *WeatherProvider) fetchForecast(ctx context.Context, lat, lng float64, location string) (Weather, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lng))
	q.Set("current", "temperature_2m,precipitation,weather_code")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openMeteoURL+"?"+q.Encode(), nil)
	if err != nil {
		return Weather{}, err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return Weather{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Weather{}, fmt.Errorf("open-meteo status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Weather{}, fmt.Errorf("decode forecast: %w", err)
	}

	loc := location
	if loc == "" {
		loc = "Default"
	}
	return Weather{
		Temperature:   body.Current.Temperature2m,
		Precipitation: body.Current.Precipitation,
		WeatherCode:   body.Current.WeatherCode,
		Description:   describeWeatherCode(body.Current.WeatherCode),
		Location:      loc,
		DataSource:    "forecast",
	}, nil
}

func describeWeatherCode(code int) string {
	if desc, ok := weatherCodes[code]; ok {
		return desc
	}
	return "Unknown"
}

// climateEstimate picks a coarse temperature by latitude band.
func climateEstimate(lat float64, location string) Weather {
	var temp float64
	var desc string
	switch abs := math.Abs(lat); {
	case abs < 23.5:
		temp, desc = 28, "Tropical climate"
	case abs < 35:
		temp, desc = 22, "Subtropical climate"
	case abs < 50:
		temp, desc = 15, "Temperate climate"
	default:
		temp, desc = 8, "Cool climate"
	}
	loc := location
	if loc == "" {
		loc = "Default"
	}
	return Weather{
		Temperature: temp,
		Description: desc + " (estimated)",
		Location:    loc,
		DataSource:  "estimate",
	}
}
