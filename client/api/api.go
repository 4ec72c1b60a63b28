// Package api is the typed client of the Brew & Co REST API. Every call
// decodes the response envelope; non-2xx answers become *Error.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/shashiranjanraj/brewandco/client/session"
	"github.com/shashiranjanraj/brewandco/pkg/collection"
	bchttp "github.com/shashiranjanraj/brewandco/pkg/http"
)

const (
	DefaultMaxAge = 5 * time.Minute
	healthTimeout = 3 * time.Second
)

// ErrUnavailable wraps transport failures: the API could not be reached.
var ErrUnavailable = errors.New("api: unavailable")

// Error is a non-2xx envelope.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Rejected reports whether the credential was refused (401 or 403).
func (e *Error) Rejected() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// StatusOf returns the API status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsRejected reports whether err is a refused credential.
func IsRejected(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Rejected()
}

type envelope struct {
	Success bool              `json:"success"`
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type Client struct {
	http   *bchttp.Client
	token  func() string
	maxAge time.Duration
	now    func() time.Time

	mu       sync.Mutex
	products []Product
	fetched  time.Time
}

type Option func(*Client)

// WithToken sets the bearer token source, read on every call.
func WithToken(fn func() string) Option { return func(c *Client) { c.token = fn } }

// WithMaxAge sets how long the product list is served from cache.
func WithMaxAge(d time.Duration) Option { return func(c *Client) { c.maxAge = d } }

// WithClock replaces time.Now for cache ageing.
func WithClock(fn func() time.Time) Option { return func(c *Client) { c.now = fn } }

// WithHTTPClient swaps the transport, e.g. for an httptest server.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http.HTTP = h } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:   bchttp.NewClient(baseURL),
		token:  func() string { return "" },
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) send(ctx context.Context, req *bchttp.Request, dest any) error {
	resp, err := req.Bearer(c.token()).Send(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var env envelope
	if err := resp.JSON(&env); err != nil {
		return &Error{Status: resp.StatusCode, Message: "unexpected response"}
	}
	if !resp.OK() {
		return &Error{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}
	if dest == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("api: decode data: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	return c.send(ctx, c.http.Get(path).Retry(2, 200*time.Millisecond), dest)
}

// ── Catalog ──────────────────────────────────────────────────────────────────

// Products returns the menu, served from cache while younger than the max
// age. On a failed fetch a stale cache is returned instead of the error.
func (c *Client) Products(ctx context.Context, force bool) ([]Product, error) {
	c.mu.Lock()
	cached, fetched := c.products, c.fetched
	c.mu.Unlock()

	if !force && cached != nil && c.now().Sub(fetched) < c.maxAge {
		return cached, nil
	}

	var raw []RawProduct
	if err := c.get(ctx, "/api/products", &raw); err != nil {
		if cached != nil {
			return cached, nil
		}
		return nil, err
	}

	products := normalizeAll(raw)
	c.mu.Lock()
	c.products, c.fetched = products, c.now()
	c.mu.Unlock()
	return products, nil
}

// Popular falls back to the popular items of the cached menu.
func (c *Client) Popular(ctx context.Context) ([]Product, error) {
	var raw []RawProduct
	if err := c.get(ctx, "/api/products/popular", &raw); err != nil {
		return c.fromCache(err, func(p Product) bool { return p.Popular })
	}
	return normalizeAll(raw), nil
}

// ByCategory falls back to the cached menu filtered by category.
func (c *Client) ByCategory(ctx context.Context, category string) ([]Product, error) {
	var raw []RawProduct
	if err := c.get(ctx, "/api/products/category/"+url.PathEscape(category), &raw); err != nil {
		return c.fromCache(err, func(p Product) bool { return p.Category == category })
	}
	return normalizeAll(raw), nil
}

func (c *Client) Product(ctx context.Context, id uint) (Product, error) {
	var raw RawProduct
	if err := c.get(ctx, "/api/products/"+strconv.FormatUint(uint64(id), 10), &raw); err != nil {
		return Product{}, err
	}
	return NormalizeProduct(raw), nil
}

func (c *Client) fromCache(err error, keep func(Product) bool) ([]Product, error) {
	c.mu.Lock()
	cached := c.products
	c.mu.Unlock()
	if cached == nil {
		return nil, err
	}
	return collection.Filter(cached, keep), nil
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func (c *Client) Register(ctx context.Context, in RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.send(ctx, c.http.Post("/api/auth/register").Body(in), &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.send(ctx, c.http.Post("/api/auth/login").Body(credentials{username, password}), &out)
	return out, err
}

func (c *Client) AdminLogin(ctx context.Context, username, password string) (AdminAuthResponse, error) {
	var out AdminAuthResponse
	err := c.send(ctx, c.http.Post("/api/admin/login").Body(credentials{username, password}), &out)
	return out, err
}

func (c *Client) Me(ctx context.Context) (session.Customer, error) {
	var out session.Customer
	err := c.get(ctx, "/api/auth/me", &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (session.Customer, error) {
	var out session.Customer
	err := c.send(ctx, c.http.Put("/api/auth/profile").Body(in), &out)
	return out, err
}

// ── Orders ───────────────────────────────────────────────────────────────────

// CreateOrder submits an order. A non-empty idempotencyKey is sent as the
// Idempotency-Key header, so a retried submit is refused with 409.
func (c *Client) CreateOrder(ctx context.Context, in OrderRequest, idempotencyKey string) (OrderCreated, error) {
	req := c.http.Post("/api/orders").Body(in)
	if idempotencyKey != "" {
		req = req.Header("Idempotency-Key", idempotencyKey)
	}
	var out OrderCreated
	err := c.send(ctx, req, &out)
	return out, err
}

func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.get(ctx, "/api/user/orders", &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, id uint) (Order, error) {
	var out Order
	err := c.get(ctx, "/api/orders/"+strconv.FormatUint(uint64(id), 10), &out)
	return out, err
}

// ── Health ───────────────────────────────────────────────────────────────────

// Health probes /api/health with a 3s timeout. A degraded server answers
// 503, which is returned as *Error alongside the decoded report.
func (c *Client) Health(ctx context.Context) (Health, error) {
	resp, err := c.http.Get("/api/health").Timeout(healthTimeout).Send(ctx)
	if err != nil {
		return Health{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var env envelope
	if err := resp.JSON(&env); err != nil {
		return Health{}, &Error{Status: resp.StatusCode, Message: "unexpected response"}
	}
	var h Health
	if len(env.Data) > 0 {
		_ = json.Unmarshal(env.Data, &h)
	}
	if !resp.OK() {
		return h, &Error{Status: resp.StatusCode, Message: h.Status}
	}
	return h, nil
}
