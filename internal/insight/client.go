// Package insight proxies recent observations to a hosted language model and
// returns a one-line textual summary.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	// maxRecords caps how many observations are embedded in the prompt.
	maxRecords = 100

	// Fallback is returned when the provider responds without content.
	Fallback = "Unable to generate weather insights."

	systemPrompt = "Analyze the weather readings provided and produce EXACTLY ONE short, " +
		"direct insight (at most 12 words). Simple and useful, for example: " +
		"UV very high right now, wear sunscreen! Rain likely this afternoon. " +
		"Do not explain. Do not format. Do not use markdown. One sentence only."
)

var (
	// ErrNotConfigured is returned when the provider API key is missing.
	ErrNotConfigured = errors.New("insight provider API key not configured")

	// ErrUpstream wraps provider transport failures and non-success statuses.
	ErrUpstream = errors.New("insight provider request failed")
)

// Config carries the provider settings for the insight client.
type Config struct {
	APIKey string
	Model  string
	APIURL string
}

// Client calls the configured chat-completions endpoint. Outbound calls go
// through a circuit breaker; there are no retries.
type Client struct {
	cfg     Config
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewClient creates a new Client.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "insight-model",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		cfg:     cfg,
		client:  httpClient,
		circuit: cb,
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model           string        `json:"model"`
	Messages        []chatMessage `json:"messages"`
	Temperature     float64       `json:"temperature"`
	MaxOutputTokens int           `json:"max_output_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate summarizes up to the first 100 observations into one sentence.
func (c *Client) Generate(ctx context.Context, records []weather.Observation) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	if len(records) > maxRecords {
		records = records[:maxRecords]
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode observations: %w", err)
	}

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Here are the weather readings (max. %d records):\n\n%s\n\n", maxRecords, data)},
		},
		Temperature:     0.3,
		MaxOutputTokens: 600,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, respBody)
		}
		return respBody, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: circuit open: %v", ErrUpstream, err)
		}
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(result.([]byte), &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		c.logger.Warn("insight provider returned no content; using fallback")
		return Fallback, nil
	}
	return parsed.Choices[0].Message.Content, nil
}
