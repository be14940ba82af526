package atc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"courtfinder/internal/domain"
)

// Defaults for Options fields left at their zero value.
const (
	DefaultBaseURL    = "http://localhost:4000"
	DefaultTimeout    = 5 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryUnit  = time.Second
)

// Options configures the upstream client.
type Options struct {
	BaseURL string
	// Timeout bounds each attempt, not the whole call.
	Timeout time.Duration
	// MaxRetries is the number of attempts after the first one. Negative disables retries.
	MaxRetries int
	// RetryUnit is the backoff step: retry k waits k*RetryUnit.
	RetryUnit time.Duration
	// RateLimit caps attempts per second across all calls. Zero means unlimited.
	RateLimit  float64
	HTTPClient *http.Client
	Logger     *slog.Logger
	Observer   Observer
}

// Client talks to the club/court/slot service. Every call degrades to an empty
// result instead of returning an error.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	timeout    time.Duration
	maxRetries int
	retryUnit  time.Duration
	limiter    *rate.Limiter
	observer   Observer
	tracer     trace.Tracer
}

var _ domain.UpstreamClient = (*Client)(nil)

// NewClient returns a Client for opts. A nil HTTPClient gets a traced default transport.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream base url %q must be absolute", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryUnit <= 0 {
		opts.RetryUnit = DefaultRetryUnit
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Observer == nil {
		opts.Observer = NewLogObserver(opts.Logger)
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	return &Client{
		baseURL:    base,
		http:       opts.HTTPClient,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		retryUnit:  opts.RetryUnit,
		limiter:    rate.NewLimiter(limit, 1),
		observer:   opts.Observer,
		tracer:     otel.Tracer("courtfinder/atc"),
	}, nil
}

// ListClubs returns the clubs near placeID.
func (c *Client) ListClubs(ctx context.Context, placeID string) domain.Fetched[[]domain.Club] {
	return fetch[domain.Club](ctx, c, "/clubs", url.Values{"placeId": {placeID}})
}

// ListCourts returns the courts of a club.
func (c *Client) ListCourts(ctx context.Context, clubID int) domain.Fetched[[]domain.Court] {
	return fetch[domain.Court](ctx, c, "/clubs/"+strconv.Itoa(clubID)+"/courts", nil)
}

// ListAvailableSlots returns the free slots of one court on date.
func (c *Client) ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) domain.Fetched[[]domain.Slot] {
	path := fmt.Sprintf("/clubs/%d/courts/%d/slots", clubID, courtID)
	return fetch[domain.Slot](ctx, c, path, url.Values{"date": {date.Format(domain.DateLayout)}})
}

// fetch runs GET path with retries and decodes a JSON array of T.
func fetch[T any](ctx context.Context, c *Client, path string, query url.Values) domain.Fetched[[]T] {
	ctx, span := c.tracer.Start(ctx, "atc GET "+path, trace.WithAttributes(
		attribute.String("atc.path", path),
		attribute.String("atc.query", query.Encode()),
	))
	defer span.End()

	var lastErr error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryUnit
			c.observer.Retry(ctx, path, attempt, delay, lastErr)
			span.AddEvent("retry", trace.WithAttributes(
				attribute.Int("attempt", attempt),
				attribute.Int64("delay_ms", delay.Milliseconds()),
				attribute.String("error", lastErr.Error()),
			))
			if err := sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}
		var out []T
		err := c.get(ctx, path, query, &out)
		if err == nil {
			if out == nil {
				out = []T{}
			}
			span.SetAttributes(attribute.Int("atc.attempts", attempt+1))
			return domain.Ok(out)
		}
		lastErr = err
		if !retryable(err) || attempt >= c.maxRetries || ctx.Err() != nil {
			break
		}
	}

	c.observer.Degraded(ctx, path, lastErr)
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "degraded to empty result")
	return domain.Degrade([]T{}, lastErr)
}

// get performs a single attempt bounded by the per-attempt timeout.
func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &RequestError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		// A body cut short by the attempt timeout is a transport failure, not a bad payload.
		if ctx.Err() != nil {
			return &TransportError{Err: err}
		}
		return &DecodeError{Err: err}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// newStatusError reads the upstream error body, keeping its message when it has one.
func newStatusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Message string `json:"message"`
	}
	msg := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}

// retryable reports whether err is a transient upstream failure: a transport
// error, a timeout or a 5xx response.
func retryable(err error) bool {
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code >= 500
	}
	var transport *TransportError
	return errors.As(err, &transport)
}
