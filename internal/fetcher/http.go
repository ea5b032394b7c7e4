package fetcher

import (
	"context"
	"io"
	"math/rand/v2"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/abduldattijo/investment-data-app/internal/resilience"
)

const maxBodyBytes = 5 << 20

// HTTPOptions configures the HTTP page fetcher.
type HTTPOptions struct {
	UserAgents  []string
	Delay       time.Duration // base politeness delay; each request waits Delay × U[0.5,1.5)
	Timeout     time.Duration // per request
	MaxAttempts int
	Retry       resilience.RetryConfig // zero fields take resilience defaults

	// Sleep replaces the politeness wait. Tests pass a no-op.
	Sleep func(ctx context.Context, d time.Duration) error
}

// HTTPFetcher fetches pages with rotating user agents, a jittered delay and
// retry on transient failures.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
}

// NewHTTPFetcher creates an HTTPFetcher. A zero Timeout becomes 10s and a
// zero MaxAttempts becomes 3. Delay is used as given, negatives clamped to
// 0; the 5s politeness default lives in config.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if len(opts.UserAgents) == 0 {
		opts.UserAgents = DefaultUserAgents
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	opts.Retry.MaxAttempts = opts.MaxAttempts
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   opts.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: opts.Timeout,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: opts.Timeout, Transport: transport},
		opts:   opts,
	}
}

// Fetch waits the politeness delay, then GETs url with retry on 429/5xx and
// transient network errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if err := f.opts.Sleep(ctx, f.jitteredDelay()); err != nil {
		return nil, eris.Wrap(err, "fetch: delay")
	}

	retry := f.opts.Retry
	retry.OnRetry = func(attempt int, err error) {
		zap.L().Debug("fetch: retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	page, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*Page, error) {
		return f.get(ctx, url)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: %s", url)
	}
	return page, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://www.google.com/")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "read body"), 0)
	}

	if err := resilience.CheckStatus(url, resp.StatusCode); err != nil {
		if blocked, kind := DetectBlock(resp, body); blocked {
			zap.L().Warn("fetch: blocked",
				zap.String("url", url),
				zap.String("block_type", string(kind)),
				zap.Int("status", resp.StatusCode),
			)
		}
		return nil, err
	}

	return &Page{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       decode(body, resp.Header.Get("Content-Type")),
	}, nil
}

func (f *HTTPFetcher) userAgent() string {
	return f.opts.UserAgents[rand.IntN(len(f.opts.UserAgents))]
}

func (f *HTTPFetcher) jitteredDelay() time.Duration {
	return time.Duration(float64(f.opts.Delay) * (0.5 + rand.Float64()))
}

// decode converts body to UTF-8 using the charset named in contentType.
// Unknown or missing charsets leave the body untouched.
func decode(body []byte, contentType string) []byte {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}
	cs := params["charset"]
	if cs == "" {
		return body
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return body
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return body
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
