package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned for a 404 from the source.
var ErrNotFound = errors.New("pokeapi: not found")

// StatusError is a non-2xx response.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pokeapi: %s returned status %d body=%q", e.URL, e.Status, e.Body)
}

// Source is the remote data the sync pipeline reads.
type Source interface {
	// ListPage returns one page of a listing endpoint such as "ability".
	ListPage(ctx context.Context, resource string, limit, offset int) (*ResourceList, error)
	// Fetch decodes the resource at url (absolute, or relative to the base URL) into out.
	Fetch(ctx context.Context, url string, out any) error
}

// Client is an HTTP Source with retries and client-side rate limiting.
type Client struct {
	baseURL   string
	userAgent string
	http      *retryablehttp.Client
	limiter   *rate.Limiter
}

// New creates a client for cfg.
func New(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 10 * time.Second
	rc.HTTPClient.Timeout = time.Duration(timeout) * time.Second
	rc.Logger = leveledLogger{s: logger.Sugar()}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = "pmteambuilder-sync/1.0"
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: ua,
		http:      rc,
		limiter:   limiter,
	}
}

func (c *Client) ListPage(ctx context.Context, resource string, limit, offset int) (*ResourceList, error) {
	var out ResourceList
	u := fmt.Sprintf("%s/%s?limit=%d&offset=%d", c.baseURL, strings.Trim(resource, "/"), limit, offset)
	if err := c.Fetch(ctx, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Fetch(ctx context.Context, url string, out any) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = c.baseURL + "/" + strings.TrimLeft(url, "/")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pokeapi: get %s: %w", url, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("pokeapi: read %s: %w", url, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, Status: resp.StatusCode, Body: string(b[:min(len(b), 200)])}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("pokeapi: decode %s: %w body=%q", url, err, string(b[:min(len(b), 200)]))
	}
	return nil
}

// Get fetches and decodes a typed resource.
func Get[T any](ctx context.Context, src Source, url string) (*T, error) {
	var out T
	if err := src.Fetch(ctx, url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...any)  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
