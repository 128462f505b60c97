package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BackoffConfig controls retry pacing for upstream fetches.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles the HTTP client with its retry settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
}

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errCircuitOpen = errors.New("circuit breaker open")
)

// doWithResilience sends req through the circuit breaker, retrying rate limits,
// server errors, and transport failures with exponential backoff. The request
// must be re-sendable across attempts, which holds for the bodyless GETs this
// package issues.
func doWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	req *http.Request,
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errors.New("http client not configured")
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errors.New("invalid backoff configuration")
	}

	req = req.WithContext(ctx)

	for attempt := 0; ; attempt++ {
		result, err := cb.Execute(func() (interface{}, error) {
			resp, doErr := cfg.Client.Do(req)
			if doErr != nil {
				return nil, doErr
			}

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				resp.Body.Close()
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				resp.Body.Close()
				return nil, errServerError
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				resp.Body.Close()
				return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		// An open circuit fails fast; backing off would only mask it.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		if attempt >= cfg.Backoff.MaxRetries {
			return nil, err
		}

		delay := cfg.Backoff.InitialInterval << attempt
		if cfg.Backoff.MaxInterval > 0 && delay > cfg.Backoff.MaxInterval {
			delay = cfg.Backoff.MaxInterval
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}
