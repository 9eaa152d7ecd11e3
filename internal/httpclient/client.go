// Package httpclient is the real-HTTP path behind the fetch passthrough.
//
// Requests ride a retryablehttp transport under a resty client, with a
// rate limiter pacing the calls. There is deliberately no circuit
// breaker: a passthrough that silently stops calling the fixture server
// would turn request bugs into flaky tests instead of failures.
package httpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Client issues the passthrough requests. Build one with New.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
}

// Option adjusts client construction.
type Option func(*settings)

type settings struct {
	timeout  time.Duration
	retryMax int
	rps      float64
	user     string
	pass     string
}

// WithTimeout caps each request, retries included.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithRetries sets how many times a failed request is reissued.
func WithRetries(max int) Option {
	return func(s *settings) { s.retryMax = max }
}

// WithRateLimit paces requests to rps per second. Zero means unpaced.
func WithRateLimit(rps float64) Option {
	return func(s *settings) { s.rps = rps }
}

// WithBasicAuth attaches credentials, for fixture servers running with
// protection enabled.
func WithBasicAuth(user, pass string) Option {
	return func(s *settings) { s.user, s.pass = user, pass }
}

// New creates a client tuned for a loopback fixture server: short
// timeout, quick retries on connection errors and 5xx responses.
func New(opts ...Option) *Client {
	s := settings{
		timeout:  10 * time.Second,
		retryMax: 2,
	}
	for _, opt := range opts {
		opt(&s)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = s.retryMax
	rc.RetryWaitMin = 50 * time.Millisecond
	rc.RetryWaitMax = 500 * time.Millisecond
	rc.Logger = nil

	r := resty.New().
		SetTimeout(s.timeout).
		SetHeader("User-Agent", "webenv/1.0").
		SetTransport(&retryablehttp.RoundTripper{Client: rc})
	if s.user != "" {
		r.SetBasicAuth(s.user, s.pass)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if s.rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.rps), int(s.rps))
	}

	return &Client{resty: r, limiter: limiter}
}

// Do performs one request. The limiter paces the call; the transport
// retries connection errors and 5xx responses before the response
// comes back.
func (c *Client) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("request pacing: %w", err)
	}

	req := c.resty.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if len(body) > 0 {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, url, err)
	}
	return resp, nil
}
