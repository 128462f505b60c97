// Package collector periodically fetches current conditions from Open-Meteo
// and publishes them to the ingestion queue.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const sourceName = "open-meteo"

// OpenMeteoClient fetches current weather plus the hourly series needed to
// fill humidity, UV index, precipitation chance, and heat index.
type OpenMeteoClient struct {
	baseURL string
	lat     float64
	lon     float64
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewOpenMeteoClient creates a client for the given coordinates.
func NewOpenMeteoClient(client *http.Client, baseURL string, lat, lon float64, logger *slog.Logger) *OpenMeteoClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoClient{
		baseURL: baseURL,
		lat:     lat,
		lon:     lon,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
		logger:  logger,
	}
}

type openMeteoPayload struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		Time        string  `json:"time"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
	Hourly struct {
		Time                     []string  `json:"time"`
		RelativeHumidity         []float64 `json:"relativehumidity_2m"`
		UVIndex                  []float64 `json:"uv_index"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		ApparentTemperature      []float64 `json:"apparent_temperature"`
	} `json:"hourly"`
}

// Fetch retrieves one observation payload ready for ingestion.
func (c *OpenMeteoClient) Fetch(ctx context.Context) (weather.CreateInput, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", c.lat))
	values.Set("longitude", fmt.Sprintf("%f", c.lon))
	values.Set("current_weather", "true")
	values.Set("hourly", "relativehumidity_2m,uv_index,precipitation_probability,apparent_temperature")

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return weather.CreateInput{}, err
	}

	resp, err := doWithResilience(ctx, c.httpCfg, c.circuit, req)
	if err != nil {
		return weather.CreateInput{}, err
	}
	defer resp.Body.Close()

	var payload openMeteoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CreateInput{}, err
	}

	return c.toCreateInput(payload)
}

// toCreateInput maps an Open-Meteo payload to an ingestion payload, indexing
// the hourly series by the current-weather hour.
func (c *OpenMeteoClient) toCreateInput(payload openMeteoPayload) (weather.CreateInput, error) {
	cw := payload.CurrentWeather
	if cw.Time == "" {
		return weather.CreateInput{}, fmt.Errorf("open-meteo payload has no current_weather time")
	}

	ts, err := time.Parse("2006-01-02T15:04", cw.Time)
	if err != nil {
		if ts, err = time.Parse(time.RFC3339, cw.Time); err != nil {
			return weather.CreateInput{}, fmt.Errorf("parse current_weather time %q: %w", cw.Time, err)
		}
	}

	// Index hourly arrays by the top of the current hour. When the hour is
	// absent from the series the hourly fields stay zero rather than picking
	// up another slot's values.
	hourKey := ts.Truncate(time.Hour).Format("2006-01-02T15:04")
	idx := -1
	for i, t := range payload.Hourly.Time {
		if t == hourKey {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.logger.Warn("current hour missing from hourly series", "hour", hourKey)
	}

	in := weather.CreateInput{
		Source:       sourceName,
		ObsTimestamp: time.Now().UTC().Format(time.RFC3339),
		Timestamp:    ts.UTC().Format(time.RFC3339),
		Temperature:  &cw.Temperature,
		Windspeed:    &cw.WindSpeed,
		Condition:    mapWeatherCode(cw.WeatherCode),
	}

	in.Humidity = hourlyAt(payload.Hourly.RelativeHumidity, idx)
	in.UVIndex = hourlyAt(payload.Hourly.UVIndex, idx)
	in.PrecipitationChance = hourlyAt(payload.Hourly.PrecipitationProbability, idx)
	in.HeatIndex = hourlyAt(payload.Hourly.ApparentTemperature, idx)

	return in, nil
}

func hourlyAt(series []float64, idx int) *float64 {
	var v float64
	if idx >= 0 && idx < len(series) {
		v = series[idx]
	}
	return &v
}

// mapWeatherCode maps Open-Meteo weather codes to condition labels (simplified).
func mapWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Sunny"
	case code >= 1 && code <= 3:
		return "Cloudy"
	case code == 45 || code == 48:
		return "Fog"
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 95:
		return "Storm"
	default:
		return "Unknown"
	}
}
