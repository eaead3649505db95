// Package client fetches country snapshots from the public COVID-19
// statistics API.
//
// Every call issues exactly one GET. Nothing is retried, cached or shared
// between calls.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog/internal/corona/models"
	"catalog/internal/platform/metrics"
	"catalog/internal/platform/observability"
	"catalog/internal/validation"
)

// DefaultBaseURL is the public statistics API root.
const DefaultBaseURL = "https://corona.lmao.ninja/v2"

const (
	resourceAll    = "countries"
	resourceByName = "countries/{name}"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	metrics    *metrics.Metrics
	tracer     *observability.Tracer
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Its transport is used as is.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout bounds each call. Zero leaves the caller's context in charge.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

func WithTracer(t *observability.Tracer) Option {
	return func(cl *Client) {
		cl.tracer = t
	}
}

// New constructs a Client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	c := &Client{baseURL: baseURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = observability.NewNoopTracer()
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: observability.HTTPTransport(nil, c.tracer)}
	}
	return c, nil
}

// FetchAll returns a snapshot for every country.
func (c *Client) FetchAll(ctx context.Context) ([]*models.Corona, error) {
	target := c.baseURL + "/countries"
	var out []*models.Corona
	err := c.fetch(ctx, resourceAll, target, func(body []byte) error {
		var snaps []models.Snapshot
		if err := json.Unmarshal(body, &snaps); err != nil {
			return &DecodeError{URL: target, Err: err}
		}
		if snaps == nil {
			return &DecodeError{URL: target, Err: errors.New("expected a JSON array")}
		}
		out = make([]*models.Corona, 0, len(snaps))
		for i, s := range snaps {
			entity, err := models.New(s)
			if err != nil {
				return fmt.Errorf("country %d (%q): %w", i, s.Country, err)
			}
			out = append(out, entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchByName returns the snapshot for one country. The name is path-escaped.
func (c *Client) FetchByName(ctx context.Context, name string) (*models.Corona, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &validation.Error{Field: "name", Message: validation.MsgStringEmpty}
	}
	target := c.baseURL + "/countries/" + url.PathEscape(name)
	var out *models.Corona
	err := c.fetch(ctx, resourceByName, target, func(body []byte) error {
		var snap *models.Snapshot
		if err := json.Unmarshal(body, &snap); err != nil {
			return &DecodeError{URL: target, Err: err}
		}
		if snap == nil {
			return &DecodeError{URL: target, Err: errors.New("expected a JSON object")}
		}
		entity, err := models.New(*snap)
		if err != nil {
			return fmt.Errorf("country %q: %w", name, err)
		}
		out = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// fetch performs one GET of target and hands the body to build. The span,
// metrics and Server-Timing entry cover both steps.
func (c *Client) fetch(ctx context.Context, resource, target string, build func(body []byte) error) (err error) {
	start := time.Now()
	ctx, span := c.tracer.StartRemoteFetch(ctx, resource, target)
	timing := observability.StartServerTiming(ctx, "remote", resource)
	defer func() {
		timing.Stop()
		c.tracer.RecordError(span, err)
		span.End()
		c.metrics.ObserveRemoteFetch(resource, outcome(err), time.Since(start))
	}()

	body, err := c.get(ctx, target)
	if err != nil {
		return err
	}
	return build(body)
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &TransportError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	return body, nil
}

func outcome(err error) string {
	var verr *validation.Error
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case IsTransportError(err):
		return metrics.OutcomeTransportError
	case IsDecodeError(err):
		return metrics.OutcomeDecodeError
	case errors.As(err, &verr):
		return metrics.OutcomeValidationError
	default:
		return metrics.OutcomeError
	}
}
