// Package remote is the HTTP plumbing shared by the recipe catalog and
// marketplace providers: bounded retries, a minimum interval between
// requests, and latency metrics.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/metrics"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("remote resource not found")

// Config configures a Client.
type Config struct {
	BaseURL     string
	MinInterval time.Duration
	MaxRetries  int
	Timeout     time.Duration
	UserAgent   string
}

// Client issues rate-limited GET requests against one provider.
type Client struct {
	provider string
	base     *url.URL
	http     *retryablehttp.Client
	limiter  *rate.Limiter
	agent    string
}

// New builds a client named provider (used in logs and metrics).
func New(provider string, cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: base url %q: %v", domain.ErrInvalidInput, cfg.BaseURL, err)
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	hc := retryablehttp.NewClient()
	hc.RetryMax = cfg.MaxRetries
	hc.RetryWaitMin = cfg.MinInterval
	hc.RetryWaitMax = cfg.MinInterval * 40
	hc.HTTPClient.Timeout = cfg.Timeout
	hc.Logger = slog.Default().With("provider", provider)

	return &Client{
		provider: provider,
		base:     base,
		http:     hc,
		limiter:  rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		agent:    cfg.UserAgent,
	}, nil
}

// Provider returns the client name.
func (c *Client) Provider() string { return c.provider }

// Get fetches path (relative to the base URL) and returns the body of a 2xx
// response.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.base.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := c.do(ctx, target.String())
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
		logger.FromContext(ctx).Warn(LogMsgRequestFailed, "provider", c.provider, "url", target.String(), "error", err)
	}
	metrics.RemoteFetchDuration.WithLabelValues(c.provider, outcome).Observe(time.Since(start).Seconds())
	return body, err
}

func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.agent)

	logger.FromContext(ctx).Debug(LogMsgRequest, "provider", c.provider, "url", target)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, c.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading body: %v", domain.ErrFetchFailed, c.provider, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s: status %d", domain.ErrFetchFailed, c.provider, resp.StatusCode)
	}
	return body, nil
}
