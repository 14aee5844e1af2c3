// Package kaltura is a thin client for the Kaltura api_v3 endpoint with
// built-in retry logic and rate limiting. Every call is a form-encoded POST
// carrying service/action fields plus format=1, so responses come back as
// JSON rather than the endpoint's default XML.
package kaltura

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"kadmin/retry"
)

// DefaultServiceURL is the SaaS endpoint. Self-hosted deployments override
// it through Config.ServiceURL.
const DefaultServiceURL = "https://www.kaltura.com"

// Config holds client configuration including retry and rate limit settings.
type Config struct {
	// ServiceURL is the base URL of the Kaltura deployment.
	ServiceURL string

	// PartnerID is the account the session belongs to.
	PartnerID int

	// Timeout for individual HTTP requests
	Timeout time.Duration

	// RPS is the request rate the token bucket admits (default: 8).
	RPS float64

	// Retry configuration
	Retry retry.Config

	// UserAgent for HTTP requests
	UserAgent string

	// Transport configures the HTTP connection pool.
	Transport TransportConfig
}

// TransportConfig configures the HTTP transport (connection pooling).
type TransportConfig struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	ForceAttemptHTTP2   bool
}

// DefaultConfig returns sensible defaults for client configuration.
func DefaultConfig() *Config {
	return &Config{
		ServiceURL: DefaultServiceURL,
		Timeout:    60 * time.Second,
		RPS:        8,
		Retry:      retry.DefaultConfig(),
		UserAgent:  "kadmin/1.0",
		Transport:  DefaultTransportConfig(),
	}
}

// DefaultTransportConfig returns sensible defaults for the connection pool.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}

// Client issues requests against one Kaltura account. It is safe for
// concurrent use; the session token is guarded and every call passes
// through the shared rate limiter.
type Client struct {
	base    *http.Client
	config  *Config
	limiter *rate.Limiter

	// clientTag identifies this process in the server-side API logs,
	// one fresh tag per client.
	clientTag string

	mu sync.RWMutex
	ks string
}

// New creates a client for the given configuration.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ServiceURL == "" {
		cfg.ServiceURL = DefaultServiceURL
	}
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultConfig().RPS
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.Transport.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Transport.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.Transport.MaxConnsPerHost,
		IdleConnTimeout:     cfg.Transport.IdleConnTimeout,
		ForceAttemptHTTP2:   cfg.Transport.ForceAttemptHTTP2,
	}

	return &Client{
		base: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config:    cfg,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RPS), int(cfg.RPS)+1),
		clientTag: "kadmin-" + uuid.NewString(),
	}
}

// KS returns the current session token, empty before StartSession.
func (c *Client) KS() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ks
}

// SetKS installs an externally obtained session token.
func (c *Client) SetKS(ks string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ks = ks
}

// PartnerID returns the account this client was configured for.
func (c *Client) PartnerID() int {
	return c.config.PartnerID
}

// endpoint returns the api_v3 URL for the configured deployment.
func (c *Client) endpoint() string {
	return strings.TrimRight(c.config.ServiceURL, "/") + "/api_v3/"
}

// Params carries the form fields of one API call. Filters, pagers and
// object bodies flatten themselves into it with prefixed keys
// (filter:entryIdEqual, pager:pageSize, cuePoint:startTime).
type Params map[string]string

// Set stores a field, dropping empty values so optional filter fields stay
// off the wire.
func (p Params) Set(key, value string) {
	if value == "" {
		return
	}
	p[key] = value
}

// SetInt stores an integer field. Zero is dropped; use SetIntAlways for
// fields where zero is meaningful.
func (p Params) SetInt(key string, v int) {
	if v == 0 {
		return
	}
	p[key] = strconv.Itoa(v)
}

// SetIntAlways stores an integer field including zero.
func (p Params) SetIntAlways(key string, v int) {
	p[key] = strconv.Itoa(v)
}

// SetInt64 stores a 64-bit integer field, dropping zero.
func (p Params) SetInt64(key string, v int64) {
	if v == 0 {
		return
	}
	p[key] = strconv.FormatInt(v, 10)
}

// SetBool stores a boolean as the 1/0 form the endpoint expects.
func (p Params) SetBool(key string, v bool) {
	if v {
		p[key] = "1"
	} else {
		p[key] = "0"
	}
}

// request performs one service/action call with retry and rate limiting,
// decoding the JSON result into out when out is non-nil. A KS is attached
// when one is held; session.start and session.end manage it themselves.
func (c *Client) request(ctx context.Context, service, action string, params Params, out interface{}) error {
	form := url.Values{}
	form.Set("service", service)
	form.Set("action", action)
	form.Set("format", "1") // JSON responses
	form.Set("clientTag", c.clientTag)
	if ks := c.KS(); ks != "" && params["ks"] == "" {
		form.Set("ks", ks)
	}
	for k, v := range params {
		form.Set(k, v)
	}
	encoded := form.Encode()

	var body []byte

	err := retry.Do(ctx, c.config.Retry, IsRetryable, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(encoded))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", c.config.UserAgent)

		resp, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("http request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode == http.StatusServiceUnavailable {
			return &RateLimitError{
				StatusCode: resp.StatusCode,
				RetryAfter: parseRetryAfter(resp.Header),
			}
		}

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		// The endpoint reports API exceptions inside 200 responses, so
		// inspect the body before the status code.
		if apiErr := sniffException(respBody); apiErr != nil {
			if apiErr.Code == codeMaxMatches {
				return fmt.Errorf("%w: %s", ErrMaxMatches, apiErr.Message)
			}
			return apiErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &HTTPError{StatusCode: resp.StatusCode, Body: respBody}
		}

		body = respBody
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s.%s: %w", service, action, err)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s.%s: decode response: %w", service, action, err)
	}
	return nil
}

// sniffException detects a KalturaAPIException body. Results that are JSON
// scalars (session tokens, ping booleans, delete nulls) pass through.
func sniffException(body []byte) *APIError {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var probe struct {
		ObjectType string `json:"objectType"`
		Code       string `json:"code"`
		Message    string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil
	}
	if probe.ObjectType != "KalturaAPIException" {
		return nil
	}
	return &APIError{Code: probe.Code, Message: probe.Message}
}

// parseRetryAfter extracts the Retry-After header value.
func parseRetryAfter(header http.Header) time.Duration {
	retryAfter := header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(retryAfter); err == nil {
		return time.Until(t)
	}
	return 0
}

// Close releases idle connections.
func (c *Client) Close() error {
	if c.base != nil {
		c.base.CloseIdleConnections()
	}
	return nil
}
