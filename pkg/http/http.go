// Package http is a fluent, retry-aware HTTP client. The shop client talks
// to the REST API through it.
//
//	c := http.NewClient("http://localhost:3000")
//	resp, err := c.Get("/api/products").
//	    Bearer(token).
//	    Timeout(5 * time.Second).
//	    Send(ctx)
//
//	var env Envelope
//	err = resp.JSON(&env)
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	gohttp "net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/logger"
)

var defaultTransport = &gohttp.Transport{
	Proxy:               gohttp.ProxyFromEnvironment,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     90 * time.Second,
}

// Client sends requests relative to BaseURL.
type Client struct {
	BaseURL string
	HTTP    *gohttp.Client
}

// NewClient creates a client on the shared pooled transport.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &gohttp.Client{Transport: defaultTransport},
	}
}

func (c *Client) Get(path string) *Request    { return c.newRequest(gohttp.MethodGet, path) }
func (c *Client) Post(path string) *Request   { return c.newRequest(gohttp.MethodPost, path) }
func (c *Client) Put(path string) *Request    { return c.newRequest(gohttp.MethodPut, path) }
func (c *Client) Delete(path string) *Request { return c.newRequest(gohttp.MethodDelete, path) }

func (c *Client) newRequest(method, path string) *Request {
	url := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = c.BaseURL + "/" + strings.TrimLeft(path, "/")
	}
	return &Request{
		client:    c,
		method:    method,
		url:       url,
		headers:   map[string]string{"Accept": "application/json"},
		timeout:   30 * time.Second,
		retries:   1,
		retryWait: 500 * time.Millisecond,
	}
}

// Request is a fluent HTTP request builder.
type Request struct {
	client    *Client
	method    string
	url       string
	headers   map[string]string
	body      any
	timeout   time.Duration
	retries   int
	retryWait time.Duration
}

// Header adds a single header to the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Bearer sets Authorization: Bearer <token>. An empty token is ignored.
func (r *Request) Bearer(token string) *Request {
	if token == "" {
		return r
	}
	return r.Header("Authorization", "Bearer "+token)
}

// Body sets the request body, JSON-encoded unless it is a string or []byte.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Timeout sets the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry sets total attempts and the initial backoff, which doubles per
// attempt. Only transport errors and 5xx responses are retried.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	r.retries = n
	r.retryWait = wait
	return r
}

// URL is the resolved request URL.
func (r *Request) URL() string { return r.url }

// Send executes the request.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= r.retries; attempt++ {
		resp, err := r.do(ctx)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if err == nil {
			if attempt == r.retries {
				return resp, nil
			}
			err = fmt.Errorf("http: status %d", resp.StatusCode)
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			break
		}
		if attempt < r.retries {
			backoff := time.Duration(float64(r.retryWait) * math.Pow(2, float64(attempt-1)))
			logger.Debug("http: request failed, retrying",
				"url", r.url, "attempt", attempt, "backoff", backoff, "error", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("http: %s %s: %w", r.method, r.url, lastErr)
}

func (r *Request) do(ctx context.Context) (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := r.client.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Raw: raw}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case string:
		return strings.NewReader(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest any) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

// Text returns the response body as a string.
func (r *Response) Text() string { return string(r.Raw) }
