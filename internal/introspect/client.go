package introspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrUpstreamUnavailable is returned when the identity provider could not be
// reached or did not answer with a JSON object.
var ErrUpstreamUnavailable = errors.New("introspection endpoint unavailable")

// maxResponseBytes bounds how much of the upstream body is read.
const maxResponseBytes = 1 << 20

// Outcomes reported to a Recorder.
const (
	OutcomeActive      = "active"
	OutcomeInactive    = "inactive"
	OutcomeUnavailable = "unavailable"
)

// Recorder observes the outcome of every introspection call.
type Recorder interface {
	IntrospectionResult(outcome string)
}

// Config configures a Client.
type Config struct {
	URL          string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	// Rate and Burst pace outbound calls with a token bucket. A zero Rate
	// disables pacing.
	Rate  float64
	Burst int
}

// Client relays tokens to the identity provider's RFC 7662 introspection
// endpoint using the service's own client credentials.
type Client struct {
	http         *http.Client
	url          string
	clientID     string
	clientSecret string
	limiter      *rate.Limiter
	recorder     Recorder
}

// NewClient creates a Client. recorder may be nil.
func NewClient(cfg Config, recorder Recorder) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}

	return &Client{
		http:         &http.Client{Timeout: cfg.Timeout},
		url:          cfg.URL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		limiter:      limiter,
		recorder:     recorder,
	}
}

// Introspect returns the provider's verdict on token. It never fails: when the
// provider is unavailable the result is {"active": false, "error": "..."}.
func (c *Client) Introspect(ctx context.Context, token string) map[string]any {
	result, err := c.call(ctx, token)
	if err != nil {
		slog.Warn("token introspection failed", "error", err)
		c.record(OutcomeUnavailable)
		return map[string]any{"active": false, "error": err.Error()}
	}

	if active, _ := result["active"].(bool); active {
		c.record(OutcomeActive)
	} else {
		c.record(OutcomeInactive)
	}
	return result
}

func (c *Client) call(ctx context.Context, token string) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: upstream status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstreamUnavailable, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: empty response", ErrUpstreamUnavailable)
	}
	return result, nil
}

func (c *Client) record(outcome string) {
	if c.recorder != nil {
		c.recorder.IntrospectionResult(outcome)
	}
}
