package provider

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/abduldattijo/investment-data-app/internal/resilience"
)

// Option configures an HTTP provider.
type Option func(*jsonClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *jsonClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *jsonClient) {
		c.http = hc
	}
}

// WithRateLimit paces requests to perSec. Non-positive values disable pacing.
func WithRateLimit(perSec float64) Option {
	return func(c *jsonClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		} else {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
		}
	}
}

// WithRetry overrides the retry policy for each request.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *jsonClient) {
		c.retry = cfg
	}
}

// jsonClient issues authenticated GET requests and decodes JSON responses.
// Requests are paced by a token bucket and retried on 429/5xx.
type jsonClient struct {
	name       string
	baseURL    string
	authHeader string
	authValue  string
	http       *http.Client
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

func newJSONClient(name, baseURL, authHeader, authValue string, opts ...Option) *jsonClient {
	c := &jsonClient{
		name:       name,
		baseURL:    baseURL,
		authHeader: authHeader,
		authValue:  authValue,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(5, 1),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	c.retry.OnRetry = resilience.RetryLogger(name, "get")
	return c
}

// get fetches path with query params and decodes the body into out.
func (c *jsonClient) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, eris.Wrap(err, "create request")
		}
		req.Header.Set("Accept", "application/json")
		if c.authValue != "" {
			req.Header.Set(c.authHeader, c.authValue)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close() //nolint:errcheck

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, resilience.NewTransientError(eris.Wrap(err, "read response"), 0)
		}
		if err := resilience.CheckStatus(u, resp.StatusCode); err != nil {
			return nil, err
		}
		return b, nil
	})
	if err != nil {
		return eris.Wrapf(err, "%s: get %s", c.name, path)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrapf(err, "%s: unmarshal %s", c.name, path)
	}
	return nil
}
