package collector

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const openMeteoFixture = `{
  "current_weather": {
    "temperature": 27.4,
    "windspeed": 11.2,
    "time": "2024-01-01T12:00",
    "weathercode": 61
  },
  "hourly": {
    "time": ["2024-01-01T11:00", "2024-01-01T12:00", "2024-01-01T13:00"],
    "relativehumidity_2m": [70, 65, 60],
    "uv_index": [5.0, 7.5, 6.0],
    "precipitation_probability": [20, 40, 55],
    "apparent_temperature": [29.1, 31.2, 30.0]
  }
}`

func newTestMeteoClient(srvURL string, lat, lon float64) *OpenMeteoClient {
	return NewOpenMeteoClient(&http.Client{Timeout: 5 * time.Second}, srvURL, lat, lon,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchMapsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "true", r.URL.Query().Get("current_weather"))
		require.NotEmpty(t, r.URL.Query().Get("latitude"))
		require.NotEmpty(t, r.URL.Query().Get("hourly"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openMeteoFixture))
	}))
	defer srv.Close()

	c := newTestMeteoClient(srv.URL, -6.25, -75.56)

	in, err := c.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, "open-meteo", in.Source)
	require.Equal(t, "2024-01-01T12:00:00Z", in.Timestamp)
	require.Equal(t, 27.4, *in.Temperature)
	require.Equal(t, 11.2, *in.Windspeed)
	require.Equal(t, "Rain", in.Condition)

	// Hourly values are taken from the slot matching the current hour.
	require.Equal(t, 65.0, *in.Humidity)
	require.Equal(t, 7.5, *in.UVIndex)
	require.Equal(t, 40.0, *in.PrecipitationChance)
	require.Equal(t, 31.2, *in.HeatIndex)
}

func TestFetchSkipsHourlyWhenHourMissing(t *testing.T) {
	// The series covers a different day than current_weather, so no slot
	// matches; hourly fields must stay zero instead of taking slot 0.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
  "current_weather": {
    "temperature": 27.4,
    "windspeed": 11.2,
    "time": "2024-01-02T12:00",
    "weathercode": 0
  },
  "hourly": {
    "time": ["2024-01-01T11:00", "2024-01-01T12:00"],
    "relativehumidity_2m": [70, 65],
    "uv_index": [5.0, 7.5],
    "precipitation_probability": [20, 40],
    "apparent_temperature": [29.1, 31.2]
  }
}`))
	}))
	defer srv.Close()

	c := newTestMeteoClient(srv.URL, 0, 0)

	in, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 27.4, *in.Temperature)
	require.Zero(t, *in.Humidity)
	require.Zero(t, *in.UVIndex)
	require.Zero(t, *in.PrecipitationChance)
	require.Zero(t, *in.HeatIndex)
}

func TestFetchRejectsEmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestMeteoClient(srv.URL, 0, 0)

	_, err := c.Fetch(context.Background())
	require.Error(t, err)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openMeteoFixture))
	}))
	defer srv.Close()

	c := newTestMeteoClient(srv.URL, 0, 0)
	c.httpCfg.Backoff.InitialInterval = time.Millisecond

	in, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, 27.4, *in.Temperature)
}

func TestMapWeatherCode(t *testing.T) {
	cases := map[int]string{
		0:  "Sunny",
		2:  "Cloudy",
		45: "Fog",
		55: "Rain",
		75: "Snow",
		81: "Rain",
		95: "Storm",
		40: "Unknown",
	}
	for code, want := range cases {
		require.Equal(t, want, mapWeatherCode(code), "code %d", code)
	}
}
