package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/pkg/logger"
	"flight-history-collector/pkg/metrics"
)

const (
	DefaultMaxRetries = 5
	DefaultRetryMin   = 30 * time.Second
	DefaultRetryMax   = 60 * time.Second

	maxIdleConns        = 10
	idleConnTimeout     = 90 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
	requestTimeout      = 60 * time.Second
)

// DefaultHeader mimics a desktop browser; the provider serves bare clients an error page
var DefaultHeader = http.Header{
	"Accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"},
	"Accept-Language":           {"en-US,en;q=0.9"},
	"Cache-Control":             {"max-age=0"},
	"Sec-Fetch-Dest":            {"document"},
	"Sec-Fetch-Mode":            {"navigate"},
	"Sec-Fetch-Site":            {"cross-site"},
	"Upgrade-Insecure-Requests": {"1"},
	"User-Agent":                {"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"},
}

// Request describes one provider call
type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values
	// Form is sent url-encoded as the body when set
	Form url.Values
	// FollowRedirects=false hands 3xx responses back to the caller untouched
	FollowRedirects bool
	// FinalStatuses end the request on the first such response without retrying
	FinalStatuses []int
}

func (r Request) final(status int) bool {
	for _, s := range r.FinalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Get is a GET request that follows redirects
func Get(rawURL string, query url.Values) Request {
	return Request{Method: http.MethodGet, URL: rawURL, Query: query, FollowRedirects: true}
}

// Response is a fully read provider response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Doer executes provider requests
type Doer interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

// Gate is a shared politeness budget; *rate.Limiter satisfies it
type Gate interface {
	Wait(ctx context.Context) error
}

// Sleeper pauses for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy bounds retries
type Policy struct {
	MaxRetries int
	RetryMin   time.Duration
	RetryMax   time.Duration
}

// DefaultPolicy returns 5 attempts with 30-60s jittered pauses
func DefaultPolicy() Policy {
	return Policy{MaxRetries: DefaultMaxRetries, RetryMin: DefaultRetryMin, RetryMax: DefaultRetryMax}
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithPolicy sets the retry policy.
func WithPolicy(p Policy) ClientOption {
	return func(c *Client) { c.policy = p }
}

// WithGate sets the shared politeness gate.
func WithGate(g Gate) ClientOption {
	return func(c *Client) { c.gate = g }
}

// WithSleeper replaces the retry pause (tests).
func WithSleeper(s Sleeper) ClientOption {
	return func(c *Client) { c.sleep = s }
}

// WithJitter replaces the random source for retry pauses; it returns a value in [0, n).
func WithJitter(f func(n int64) int64) ClientOption {
	return func(c *Client) { c.jitter = f }
}

// WithMetrics records attempts, retries and exhaustion.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// Client issues provider requests under a bounded retry policy.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	noRedirect *http.Client
	policy     Policy
	gate       Gate
	sleep      Sleeper
	jitter     func(n int64) int64
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewClient creates a fetch client with connection pooling
func NewClient(log logger.Logger, opts ...ClientOption) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        maxIdleConns,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
	}

	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout, Transport: transport},
		policy:     DefaultPolicy(),
		sleep:      Sleep,
		jitter:     rand.Int64N,
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Same transport, but 3xx responses are returned instead of followed
	c.noRedirect = &http.Client{
		Timeout:   c.httpClient.Timeout,
		Transport: c.httpClient.Transport,
		Jar:       c.httpClient.Jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	if c.policy.MaxRetries <= 0 {
		c.policy.MaxRetries = DefaultMaxRetries
	}
	if c.policy.RetryMax < c.policy.RetryMin {
		c.policy.RetryMax = c.policy.RetryMin
	}
	return c
}

// Fetch executes req, retrying non-success statuses and transport errors.
// When every attempt fails, or a final status is met, it returns *entity.FetchExhaustedError.
func (c *Client) Fetch(ctx context.Context, req Request) (*Response, error) {
	target, err := buildURL(req.URL, req.Query)
	if err != nil {
		return nil, err
	}

	hc := c.httpClient
	if !req.FollowRedirects {
		hc = c.noRedirect
	}

	lastStatus := 0
	for attempt := 1; attempt <= c.policy.MaxRetries; attempt++ {
		if c.gate != nil {
			if err := c.gate.Wait(ctx); err != nil {
				return nil, err
			}
		}
		if c.metrics != nil {
			c.metrics.FetchAttempts.Inc()
		}

		resp, err := c.do(ctx, hc, req, target)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastStatus = 0
			c.logger.Warn("Request failed", "url", req.URL, "attempt", attempt, "error", err)
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		case !req.FollowRedirects && resp.StatusCode >= 300 && resp.StatusCode < 400:
			return resp, nil
		case req.final(resp.StatusCode):
			c.logger.Warn("Request rejected", "url", req.URL, "status", resp.StatusCode)
			if c.metrics != nil {
				c.metrics.FetchExhausted.Inc()
			}
			return nil, &entity.FetchExhaustedError{URL: req.URL, LastStatus: resp.StatusCode, Attempts: attempt}
		default:
			lastStatus = resp.StatusCode
		}

		if attempt == c.policy.MaxRetries {
			break
		}
		pause := c.pause()
		c.logger.Warn("Retrying request",
			"url", req.URL,
			"retry", fmt.Sprintf("%d/%d", attempt, c.policy.MaxRetries),
			"status", lastStatus,
			"sleep", pause.String())
		if c.metrics != nil {
			c.metrics.FetchRetries.Inc()
		}
		if err := c.sleep(ctx, pause); err != nil {
			return nil, err
		}
	}

	if c.metrics != nil {
		c.metrics.FetchExhausted.Inc()
	}
	return nil, &entity.FetchExhaustedError{URL: req.URL, LastStatus: lastStatus, Attempts: c.policy.MaxRetries}
}

func (c *Client) do(ctx context.Context, hc *http.Client, req Request, target string) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range DefaultHeader {
		httpReq.Header[key] = values
	}
	for key, values := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(key)] = values
	}
	if req.Form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// pause draws a duration uniformly from [RetryMin, RetryMax]
func (c *Client) pause() time.Duration {
	span := int64(c.policy.RetryMax - c.policy.RetryMin)
	if span <= 0 {
		return c.policy.RetryMin
	}
	return c.policy.RetryMin + time.Duration(c.jitter(span+1))
}

func buildURL(raw string, query url.Values) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
