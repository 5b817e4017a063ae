// Package quote fetches random quotes from a remote provider.
package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/verte-zerg/spede/internal/model"
)

// DefaultEndpoint serves one random quote per GET.
const DefaultEndpoint = "https://api.quotable.io/random"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

const maxBackoff = 5 * time.Second

var (
	// ErrNetwork wraps transport failures.
	ErrNetwork = errors.New("network error")
	// ErrBadPayload is returned for a response that is not a usable quote.
	ErrBadPayload = errors.New("unexpected quote payload")
)

// UnexpectedStatusError is returned when the provider answers with a non-200 status.
type UnexpectedStatusError struct {
	StatusCode int
	Status     string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected quote status: %s", e.Status)
}

// Provider returns a random quote.
type Provider interface {
	Random(ctx context.Context) (model.Quote, error)
}

// Client fetches quotes over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
	retries  int
	backoff  time.Duration
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetries retries failed requests up to n extra times with exponential
// backoff starting at base. Zero disables retries.
func WithRetries(n int, base time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
		if base > 0 {
			c.backoff = base
		}
	}
}

// WithLogger sets the logger for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a Client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
		backoff:  250 * time.Millisecond,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Random fetches one quote.
func (c *Client) Random(ctx context.Context) (model.Quote, error) {
	wait := c.backoff
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying quote fetch", "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return model.Quote{}, fmt.Errorf("%w: %w", ErrNetwork, ctx.Err())
			case <-time.After(wait):
			}
			wait *= 2
			if wait > maxBackoff {
				wait = maxBackoff
			}
		}
		q, err := c.fetch(ctx)
		if err == nil {
			return q, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return model.Quote{}, lastErr
}

func (c *Client) fetch(ctx context.Context) (model.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, http.NoBody)
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return model.Quote{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return model.Quote{}, &UnexpectedStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Quote{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	q, err := decodeQuote(body)
	if err != nil {
		return model.Quote{}, err
	}
	c.logger.Debug("fetched quote", "id", q.ID, "author", q.Author, "runes", len([]rune(q.Content)))
	return q, nil
}

type payload struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

func decodeQuote(body []byte) (model.Quote, error) {
	body = bytes.TrimSpace(body)
	var p payload
	if len(body) > 0 && body[0] == '[' {
		var list []payload
		if err := json.Unmarshal(body, &list); err != nil {
			return model.Quote{}, fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		if len(list) == 0 {
			return model.Quote{}, fmt.Errorf("%w: empty list", ErrBadPayload)
		}
		p = list[0]
	} else if err := json.Unmarshal(body, &p); err != nil {
		return model.Quote{}, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return model.Quote{}, fmt.Errorf("%w: missing content", ErrBadPayload)
	}
	return model.Quote{
		ID:      p.ID,
		Content: content,
		Author:  strings.TrimSpace(p.Author),
		Tags:    p.Tags,
	}, nil
}

func retryable(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var statusErr *UnexpectedStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return false
}
