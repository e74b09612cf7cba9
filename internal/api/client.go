// Package api is the HTTP client for the fling-bot coordination API.
//
// Every call is a single GET with no retries. Callers decide what a failure
// means; the client only classifies it.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/abelbrown/flingwatch/internal/logging"
	"github.com/abelbrown/flingwatch/internal/model"
)

// Endpoint paths.
const (
	PathStats        = "/"
	PathReservations = "/reservations"
	PathFlings       = "/flings"
	PathChatLogs     = "/get_chatlogs"
)

// DefaultChatLimit is the limit used when ChatLogs is called with limit <= 0.
const DefaultChatLimit = 50

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Path   string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s", e.Path, e.Code, http.StatusText(e.Code))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Options configures a Client.
type Options struct {
	Timeout   time.Duration // per request; 0 means 10s
	RateEvery time.Duration // minimum spacing between requests; 0 disables pacing
	Burst     int           // token bucket burst; 0 means 4
	UserAgent string
}

// Client talks to one API base URL.
type Client struct {
	base      *url.URL
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       *log.Logger
}

// NewClient creates a Client for baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base url %q must be http or https", baseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Burst <= 0 {
		opts.Burst = 4
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "flingwatch/1.0"
	}

	limiter := rate.NewLimiter(rate.Inf, opts.Burst)
	if opts.RateEvery > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RateEvery), opts.Burst)
	}

	return &Client{
		base:      u,
		client:    &http.Client{Timeout: opts.Timeout},
		limiter:   limiter,
		userAgent: opts.UserAgent,
		log:       logging.WithPrefix("api"),
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// Stats fetches the aggregate statistics.
func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	body, err := c.get(ctx, PathStats, nil)
	if err != nil {
		return model.Stats{}, err
	}
	return model.DecodeStats(body)
}

// Reservations fetches the raw reservations payload. The shape varies, so
// decoding is left to the reservations package.
func (c *Client) Reservations(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, PathReservations, nil)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) > 0 && !json.Valid(body) {
		return nil, fmt.Errorf("decode reservations: invalid JSON")
	}
	return body, nil
}

// Flings fetches recent fling events, newest first.
func (c *Client) Flings(ctx context.Context) ([]model.Fling, error) {
	body, err := c.get(ctx, PathFlings, nil)
	if err != nil {
		return nil, err
	}
	return model.DecodeFlings(body)
}

// ChatLogs fetches up to limit chat messages, newest first.
func (c *Client) ChatLogs(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultChatLimit
	}
	q := url.Values{"limit": []string{strconv.Itoa(limit)}}
	body, err := c.get(ctx, PathChatLogs, q)
	if err != nil {
		return nil, err
	}
	return model.DecodeChat(body)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter wait failed: %w", path, err)
	}

	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", path, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("GET", "path", path, "status", resp.StatusCode, "id", reqID, "dur", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Path: path, Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", path, err)
	}
	return body, nil
}
