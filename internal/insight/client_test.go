package insight

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func newTestClient(t *testing.T, url, key string) *Client {
	t.Helper()
	return NewClient(Config{
		APIKey: key,
		Model:  "test-model",
		APIURL: url,
	}, &http.Client{Timeout: 5 * time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleObservations(n int) []weather.Observation {
	obs := make([]weather.Observation, n)
	for i := range obs {
		obs[i] = weather.Observation{
			Source:      "test",
			Timestamp:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
			Temperature: 20,
		}
	}
	return obs
}

func TestGenerateReturnsContent(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"UV very high, wear sunscreen!"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "test-key")
	out, err := c.Generate(context.Background(), sampleObservations(3))
	require.NoError(t, err)
	require.Equal(t, "UV very high, wear sunscreen!", out)
	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
}

func TestGenerateTruncatesTo100Records(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "test-key")
	_, err := c.Generate(context.Background(), sampleObservations(250))
	require.NoError(t, err)

	var embedded []weather.Observation
	userMsg := gotReq.Messages[1].Content
	start := strings.Index(userMsg, "[")
	end := strings.LastIndex(userMsg, "]")
	require.True(t, start >= 0 && end > start)
	require.NoError(t, json.Unmarshal([]byte(userMsg[start:end+1]), &embedded))
	require.Len(t, embedded, 100)
}

func TestGenerateFallbackOnEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "test-key")
	out, err := c.Generate(context.Background(), sampleObservations(1))
	require.NoError(t, err)
	require.Equal(t, Fallback, out)
}

func TestGenerateSurfacesUpstreamBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"model overloaded"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "test-key")
	_, err := c.Generate(context.Background(), sampleObservations(1))
	require.ErrorIs(t, err, ErrUpstream)
	require.Contains(t, err.Error(), "model overloaded")
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	c := newTestClient(t, "http://localhost:0", "")
	_, err := c.Generate(context.Background(), sampleObservations(1))
	require.ErrorIs(t, err, ErrNotConfigured)
}
