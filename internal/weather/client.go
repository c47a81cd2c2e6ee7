package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	// RequestTimeout bounds a single provider call end to end.
	RequestTimeout = 10 * time.Second
	// ProbeTimeout bounds the optional health-check probe.
	ProbeTimeout = 2 * time.Second
	// MaxResponseSize caps how much of a provider response we read. Current
	// conditions payloads are a few KB; anything bigger is garbage.
	MaxResponseSize = 1 * 1024 * 1024
	// maxErrorBody caps how much of an error response we echo into errors.
	maxErrorBody = 8 * 1024
)

// ErrCityNotFound is returned when the provider reports an unknown city.
var ErrCityNotFound = errors.New("weather: city not found")

// StatusError is a non-success provider response other than city-not-found.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather provider status %d: %s", e.StatusCode, e.Body)
}

// ClientOptions configures the provider client. Zero values pick the
// defaults noted per field.
type ClientOptions struct {
	// APIKey authenticates against the provider. Required.
	APIKey string
	// BaseURL is the current-conditions endpoint.
	BaseURL string
	// RequestsPerSecond throttles outgoing calls client-side; the provider is
	// rate limited and rejects bursts. <= 0 disables throttling.
	RequestsPerSecond float64
	// MaxConns / MaxIdleConns bound the shared connection pool.
	// Defaults: 20 / 10.
	MaxConns     int
	MaxIdleConns int
}

// Client talks to the OpenWeather current-conditions API over a shared,
// connection-limited HTTP client. Safe for concurrent use.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	apiKey  string
	baseURL string
}

// NewClient builds a provider client.
func NewClient(opts ClientOptions) *Client {
	maxConns := opts.MaxConns
	if maxConns <= 0 {
		maxConns = 20
	}
	maxIdle := opts.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		http: &http.Client{
			Timeout: RequestTimeout,
			Transport: &http.Transport{
				MaxConnsPerHost:     maxConns,
				MaxIdleConnsPerHost: maxIdle,
			},
		},
		limiter: limiter,
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

// Current fetches and trims the current conditions for city in unit.
func (c *Client) Current(ctx context.Context, city string, unit Unit) (*Report, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	raw, err := c.fetch(ctx, city, unit)
	if err != nil {
		return nil, err
	}
	return Extract(raw, unit), nil
}

// Probe performs a cheap liveness call against the provider and returns the
// HTTP status code. Used by the health endpoint when asked to check the
// external API; it bypasses the cache on purpose.
func (c *Client) Probe(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL("London", UnitCentigrade), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return resp.StatusCode, nil
}

func (c *Client) requestURL(city string, unit Unit) string {
	values := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {providerUnits[unit]},
	}
	return c.baseURL + "?" + values.Encode()
}

func (c *Client) fetch(ctx context.Context, city string, unit Unit) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(city, unit), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting weather provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrCityNotFound
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading provider response: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("weather provider returned malformed JSON")
	}
	return raw, nil
}
