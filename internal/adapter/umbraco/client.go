package umbraco

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/metrics"
)

const (
	ContentAPIEndpoint  = "/umbraco/delivery/api/v1"
	CommerceAPIEndpoint = "/umbraco/commerce/storefront/api/v1"
)

// Surface names one of the two upstream APIs.
type Surface string

const (
	SurfaceContent  Surface = "content"
	SurfaceCommerce Surface = "commerce"
)

type CacheMode int

const (
	CacheDefault CacheMode = iota
	CacheNoStore
)

type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Header  http.Header
	Cache   CacheMode
	Tags    []string
	Payload any
}

type transport interface {
	Do(ctx context.Context, s Surface, req Request, out any) (int, error)
}

type upstreamError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Title   string `json:"title"`
	Detail  string `json:"detail"`
}

type errorsEnvelope struct {
	Errors []upstreamError `json:"errors"`
}

type Client struct {
	cfg        config.Umbraco
	httpClient *http.Client
	metrics    *metrics.Registry
}

// NewClient returns a client for both upstream surfaces. m may be nil.
func NewClient(cfg config.Umbraco, httpClient *http.Client, m *metrics.Registry) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		metrics:    m,
	}
}

// Do sends req to surface s and decodes the JSON response into out.
//
// Errors are [*domain.UpstreamError] when the body carries an errors array,
// [domain.ErrNotFound] for a 404 or a null body and [*domain.TransportError]
// otherwise.
func (c *Client) Do(ctx context.Context, s Surface, req Request, out any) (int, error) {
	const op = "Client.Do"
	log := slog.With("op", op)

	httpReq, err := c.newRequest(ctx, s, req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, &domain.TransportError{Err: err})
	}

	log.Debug("upstream request",
		"surface", s, "method", req.Method, "path", req.Path, "tags", req.Tags,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.observe(s, req.Method, resp, start)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, &domain.TransportError{Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%s: %w", op, &domain.TransportError{Err: err})
	}

	if err := reportedError(body); err != nil {
		log.Warn("upstream reported error", "status", err.Status, "msg", err.Message)
		return resp.StatusCode, fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("unexpected status: %s", resp.Status)
		return resp.StatusCode, fmt.Errorf("%s: %w", op, &domain.TransportError{Err: err})
	}

	if out == nil {
		return resp.StatusCode, nil
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return resp.StatusCode, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%s: %w", op, &domain.TransportError{Err: err})
	}

	return resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, s Surface, req Request) (*http.Request, error) {
	endpoint, apiKey, err := c.surface(s)
	if err != nil {
		return nil, err
	}

	u := endpoint + req.Path
	if len(req.Query) > 0 {
		if strings.Contains(u, "?") {
			u += "&"
		} else {
			u += "?"
		}
		u += req.Query.Encode()
	}

	var body io.Reader
	if req.Payload != nil {
		b, err := json.Marshal(req.Payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Api-Key", apiKey)
	if s == SurfaceCommerce {
		httpReq.Header.Set("Store", c.cfg.StoreAlias)
	}
	if req.Cache == CacheNoStore {
		httpReq.Header.Set("Cache-Control", "no-store")
	}
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	return httpReq, nil
}

func (c *Client) surface(s Surface) (endpoint, apiKey string, err error) {
	switch s {
	case SurfaceContent:
		return c.cfg.BaseURL + ContentAPIEndpoint, c.cfg.ContentAPIKey, nil
	case SurfaceCommerce:
		return c.cfg.BaseURL + CommerceAPIEndpoint, c.cfg.CommerceAPIKey, nil
	}
	return "", "", fmt.Errorf("unknown surface %q", s)
}

func (c *Client) observe(s Surface, method string, resp *http.Response, start time.Time) {
	if c.metrics == nil {
		return
	}
	code := "error"
	if resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	c.metrics.UpstreamRequests.WithLabelValues(string(s), method, code).Inc()
	c.metrics.UpstreamLatency.WithLabelValues(string(s)).Observe(time.Since(start).Seconds())
}

func reportedError(body []byte) *domain.UpstreamError {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var env errorsEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Errors) == 0 {
		return nil
	}

	first := env.Errors[0]
	status := first.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &domain.UpstreamError{Status: status, Message: first.message()}
}

func (e upstreamError) message() string {
	for _, m := range []string{e.Message, e.Detail, e.Title} {
		if m != "" {
			return m
		}
	}
	return http.StatusText(e.Status)
}
