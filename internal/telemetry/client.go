// Package telemetry fetches F1 lap data from an OpenF1-compatible REST API.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"pitwall/internal/logging"
	"pitwall/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

var (
	// ErrSessionNotFound is returned when no session matches year, circuit and code.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUpstream is returned when the lap-data source fails or the breaker is open.
	ErrUpstream = errors.New("lap data source unavailable")
)

// StatusError carries a non-2xx response from the source.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

// Config configures a Client.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
}

// Client talks to the lap-data source. Calls are rate limited and guarded by
// a circuit breaker that opens after consecutive server-side failures.
type Client struct {
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a Client for cfg.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 3
	}
	burst := int(cfg.RatePerSecond)
	if burst < 1 {
		burst = 1
	}

	settings := gobreaker.Settings{
		Name:        "telemetry",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.Code < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &Client{
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// get fetches baseURL+endpoint with params and decodes the JSON array into out.
// A 404 from the source means "no rows" and decodes as an empty array.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		agent := fiber.Get(target)
		agent.Timeout(c.timeout)
		code, body, errs := agent.Bytes()
		if len(errs) > 0 {
			return nil, fmt.Errorf("request %s: %w", endpoint, errors.Join(errs...))
		}
		if code == fiber.StatusNotFound {
			return []byte("[]"), nil
		}
		if code >= 400 {
			return nil, &StatusError{Endpoint: endpoint, Code: code, Body: string(body)}
		}
		return body, nil
	})
	if err != nil {
		metrics.TelemetryRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	metrics.TelemetryRequestsTotal.WithLabelValues(endpoint, "ok").Inc()

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrUpstream, endpoint, err)
	}
	return nil
}

// BreakerState reports the circuit breaker state for health output.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}
