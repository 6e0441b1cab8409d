package fetch

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ikihsan/location-companyemails/internal/resilience"
)

// defaultUserAgents is rotated across requests so a crawl does not present
// a single fingerprint to every host it touches.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:127.0) Gecko/20100101 Firefox/127.0",
}

// HTTPOptions configures the HTTP client.
type HTTPOptions struct {
	// Timeout bounds a single request. Default: 20s.
	Timeout time.Duration

	// MaxBodyBytes caps how much of a response body is read. Default: 2MB.
	MaxBodyBytes int64

	// MinDelay is the guaranteed spacing between requests to one host.
	// Default: 1s.
	MinDelay time.Duration

	// MaxDelay bounds the random extra delay added on top of MinDelay.
	// Default: 3s.
	MaxDelay time.Duration

	// UserAgents overrides the rotation pool. Default: defaultUserAgents.
	UserAgents []string

	// Retry is the retry policy for transient failures.
	Retry resilience.RetryConfig
}

// HTTPFetcher implements Fetcher over net/http with per-host politeness.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	uaIndex atomic.Uint64
}

// NewHTTPFetcher creates an HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 2 << 20
	}
	if opts.MinDelay <= 0 {
		opts.MinDelay = time.Second
	}
	if opts.MaxDelay < opts.MinDelay {
		opts.MaxDelay = opts.MinDelay
	}
	if len(opts.UserAgents) == 0 {
		opts.UserAgents = defaultUserAgents
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = resilience.DefaultRetryConfig()
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 4,
		MaxConnsPerHost:     8,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Fetch retrieves rawURL, retrying transient failures. Blocked responses
// surface as resilience.ErrBlocked and are never retried.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: parse url %s", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, eris.Errorf("fetch: unsupported scheme %q", u.Scheme)
	}

	cfg := f.opts.Retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger(u.Host, "GET")
	}
	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (*Result, error) {
		if err := f.waitPolite(ctx, u.Host); err != nil {
			return nil, eris.Wrap(err, "fetch: politeness wait")
		}
		return f.fetchOnce(ctx, rawURL)
	})
}

// waitPolite enforces the per-host spacing plus a random extra delay.
func (f *HTTPFetcher) waitPolite(ctx context.Context, host string) error {
	if err := f.limiterFor(host).Wait(ctx); err != nil {
		return err
	}
	extra := f.opts.MaxDelay - f.opts.MinDelay
	if extra <= 0 {
		return nil
	}
	timer := time.NewTimer(rand.N(extra))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *HTTPFetcher) limiterFor(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(f.opts.MinDelay), 1)
		f.limiters[host] = lim
	}
	return lim
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", f.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: get %s", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: read body of %s", rawURL)
	}

	if blocked, kind := DetectBlock(resp, body); blocked {
		zap.L().Warn("fetch blocked",
			zap.String("url", rawURL),
			zap.String("block_type", string(kind)),
			zap.Int("status", resp.StatusCode),
		)
		return nil, eris.Wrapf(resilience.ErrBlocked, "fetch %s (%s)", rawURL, kind)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resilience.NewStatusError(rawURL, resp.StatusCode)
	}

	return &Result{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(body),
		FetchedAt:   time.Now().UTC(),
	}, nil
}

func (f *HTTPFetcher) nextUserAgent() string {
	n := f.uaIndex.Add(1)
	return f.opts.UserAgents[int(n-1)%len(f.opts.UserAgents)]
}
