package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/errors"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://api.github.com"
	DefaultTimeout = 12 * time.Second
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	rate       *RateTracker
}

type Option func(*clientOptions)

type clientOptions struct {
	baseURL           string
	timeout           time.Duration
	requestsPerMinute int
	transport         http.RoundTripper
}

func WithBaseURL(u string) Option {
	return func(o *clientOptions) {
		if u != "" {
			o.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// * WithRequestsPerMinute paces outgoing calls client side; 0 disables pacing
func WithRequestsPerMinute(n int) Option {
	return func(o *clientOptions) { o.requestsPerMinute = n }
}

func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.transport = rt }
}

func NewClient(token string, opts ...Option) *Client {
	o := clientOptions{
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}

	tracker := NewRateTracker()
	var transport http.RoundTripper = tracker.Middleware(pace(o.requestsPerMinute, o.transport))

	if token = strings.TrimSpace(token); token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   transport,
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   o.timeout,
			Transport: transport,
		},
		baseURL: o.baseURL,
		rate:    tracker,
	}
}

// * response is a fully read API reply. A 404 comes back as a response with
// * Absent() true rather than an error.
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *response) Absent() bool {
	return r.StatusCode == http.StatusNotFound
}

func (c *Client) makeRequest(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	return resp, nil
}

// * get performs an authenticated GET. 404 is returned as an absent response,
// * any other non-2xx becomes UPSTREAM_ERROR and transport failures NETWORK_ERROR.
func (c *Client) get(ctx context.Context, path string) (*response, error) {
	resp, err := c.makeRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, errors.New(
			errors.RefNetwork,
			"Failed to reach GitHub API",
			fmt.Sprintf("GET %s failed", path),
			err,
			errors.LevelError,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		logger.Debug("GET %s -> 404", path)
		return &response{StatusCode: resp.StatusCode, Header: resp.Header}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Upstream(
			resp.StatusCode,
			fmt.Sprintf("GitHub API returned status %d for GET %s", resp.StatusCode, path),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(
			errors.RefNetwork,
			"Failed to read GitHub API response",
			fmt.Sprintf("Could not read the response body for GET %s", path),
			err,
			errors.LevelError,
		)
	}

	return &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// * getJSON decodes a successful reply into v; found is false on 404
func (c *Client) getJSON(ctx context.Context, path string, v any) (found bool, err error) {
	resp, err := c.get(ctx, path)
	if err != nil {
		return false, err
	}
	if resp.Absent() {
		return false, nil
	}

	if err := json.Unmarshal(resp.Body, v); err != nil {
		return false, errors.New(
			errors.RefDecode,
			"Failed to parse GitHub API response",
			fmt.Sprintf("Could not understand the response for GET %s", path),
			err,
			errors.LevelError,
		)
	}
	return true, nil
}

// * RateLimit returns the latest known core quota
func (c *Client) RateLimit() models.RateLimitInfo {
	return c.rate.Info()
}

type rateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int `json:"limit"`
			Remaining int `json:"remaining"`
		} `json:"core"`
	} `json:"resources"`
}

// * CheckRateLimit asks the rate_limit endpoint for authoritative core values.
// * Failures are ignored and the tracker keeps what it had.
func (c *Client) CheckRateLimit(ctx context.Context) models.RateLimitInfo {
	var rl rateLimitResponse
	found, err := c.getJSON(ctx, "/rate_limit", &rl)
	if err != nil || !found {
		logger.Debug("rate limit check skipped: found=%t err=%v", found, err)
		return c.rate.Info()
	}

	c.rate.Set(rl.Resources.Core.Remaining, rl.Resources.Core.Limit)
	return c.rate.Info()
}
