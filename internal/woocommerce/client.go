package woocommerce

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fekuna/omnipos-catalog-sync/config"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/metrics"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultPageSize = 100
	maxPageSize     = 100

	totalPagesHeader = "X-WP-TotalPages"
	apiPrefix        = "/wp-json/wc/v3/"
)

// ErrFetchFailed wraps any failure that aborted a collection drain.
var ErrFetchFailed = errors.New("remote fetch failed")

// StatusError is a non-200 response from the remote API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote responded %d: %s", e.StatusCode, e.Body)
}

// Client drains paginated collections from a WooCommerce REST API.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	pageSize       int
	requestTimeout time.Duration
	maxAttempts    int
	retryDelay     time.Duration

	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*page]
	logger     logger.ZapLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBreakerSettings replaces the default circuit breaker policy.
func WithBreakerSettings(st gobreaker.Settings) Option {
	return func(c *Client) { c.breaker = gobreaker.NewCircuitBreaker[*page](st) }
}

func NewClient(cfg *config.WooCommerceConfig, log logger.ZapLogger, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		pageSize:       cfg.PageSize,
		requestTimeout: cfg.RequestTimeout,
		maxAttempts:    cfg.MaxAttempts,
		retryDelay:     cfg.RetryDelay,
		httpClient:     &http.Client{},
		logger:         log,
	}
	if c.pageSize <= 0 || c.pageSize > maxPageSize {
		c.pageSize = DefaultPageSize
	}
	if c.requestTimeout <= 0 {
		c.requestTimeout = 30 * time.Second
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = 1
	}
	if c.retryDelay <= 0 {
		c.retryDelay = 500 * time.Millisecond
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	c.breaker = gobreaker.NewCircuitBreaker[*page](c.defaultBreakerSettings())

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// defaultBreakerSettings opens after 5 consecutive failed page requests and
// probes again after a minute.
func (c *Client) defaultBreakerSettings() gobreaker.Settings {
	const name = "woocommerce-api"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A 4xx says nothing about the health of the remote.
			var se *StatusError
			if errors.As(err, &se) && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests {
				return true
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

type page struct {
	records    []json.RawMessage
	totalPages int // -1 when the remote did not say
}

// FetchAll requests page 1, 2, ... of resource until the reported page count
// is exhausted and returns every record in remote order. A page that still
// fails after retries aborts the whole drain; no partial collection is
// returned.
func (c *Client) FetchAll(ctx context.Context, resource string, pageSize int) ([]json.RawMessage, error) {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = c.pageSize
	}

	var records []json.RawMessage
	for pageNum := 1; ; pageNum++ {
		p, err := c.fetchPageWithRetry(ctx, resource, pageNum, pageSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %s page %d: %w", ErrFetchFailed, resource, pageNum, err)
		}
		metrics.RemotePagesFetched.WithLabelValues(resource).Inc()

		records = append(records, p.records...)

		c.logger.Debug("fetched remote page",
			zap.String("resource", resource),
			zap.Int("page", pageNum),
			zap.Int("total_pages", p.totalPages),
			zap.Int("records", len(p.records)),
		)

		if len(p.records) == 0 {
			break
		}
		if p.totalPages >= 0 && pageNum >= p.totalPages {
			break
		}
		// Without a page count keep going while pages come back full.
		if p.totalPages < 0 && len(p.records) < pageSize {
			break
		}
	}

	return records, nil
}

func (c *Client) fetchPageWithRetry(ctx context.Context, resource string, pageNum, pageSize int) (*page, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retryDelay
	exp.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.maxAttempts-1)), ctx)

	op := func() (*page, error) {
		p, err := c.breaker.Execute(func() (*page, error) {
			return c.fetchPage(ctx, resource, pageNum, pageSize)
		})
		if err == nil {
			return p, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, backoff.Permanent(err)
		}
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	notify := func(err error, wait time.Duration) {
		metrics.RemoteRequestRetries.WithLabelValues(resource).Inc()
		c.logger.Warn("remote page request failed, retrying",
			zap.String("resource", resource),
			zap.Int("page", pageNum),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	return backoff.RetryNotifyWithData(op, policy, notify)
}

func (c *Client) fetchPage(ctx context.Context, resource string, pageNum, pageSize int) (*page, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(reqCtx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(pageNum))
	reqURL := c.baseURL + apiPrefix + resource + "?" + params.Encode()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.consumerKey != "" {
		req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > 512 {
			body = body[:512]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode page: %w", err))
	}

	totalPages := -1
	if v := resp.Header.Get(totalPagesHeader); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			totalPages = n
		}
	}

	return &page{records: records, totalPages: totalPages}, nil
}
