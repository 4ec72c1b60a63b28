// Package ctx provides a request context for controllers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a controller
// action receives a single *Context:
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    ...
//	    c.Success(product)
//	}
//
//	router.Get("/products/{id}", "products.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	"github.com/shashiranjanraj/brewandco/pkg/auth"
	"github.com/shashiranjanraj/brewandco/pkg/bind"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/middleware"
	"github.com/shashiranjanraj/brewandco/pkg/orm"
	"github.com/shashiranjanraj/brewandco/pkg/response"
	"github.com/shashiranjanraj/brewandco/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a positive integer path parameter.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// DefaultQuery returns a query-string value, or def if it is empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt parses an integer query value, returning def when absent or
// malformed.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// Page reads ?page= and ?limit= into an orm.Page clamped to maxLimit.
func (c *Context) Page(defLimit, maxLimit int) orm.Page {
	return orm.NewPage(c.QueryInt("page", 1), c.QueryInt("limit", defLimit), maxLimit)
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// ClientIP returns the real client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	return middleware.ClientIP(c.R)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// Claims returns the verified token claims, if any.
func (c *Context) Claims() (*auth.Claims, bool) {
	return middleware.ClaimsFromCtx(c.R.Context())
}

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stores a value in the per-request key-value store.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

// Get retrieves a value from the per-request store.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// GetUint returns a uint value from the store, or 0 if absent/wrong type.
func (c *Context) GetUint(key string) uint {
	v, _ := c.Get(key)
	u, _ := v.(uint)
	return u
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation. On failure
// it writes a 400 envelope and returns false.
//
//	var input RegisterInput
//	if !c.BindJSON(&input) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Fail(apperr.Validation(err.Error(), nil))
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// Decode reads the JSON body into dest without validation, for handlers
// whose service validates. On malformed input it writes a 400 envelope and
// returns false.
func (c *Context) Decode(dest any) bool {
	if err := bind.Decode(c.R, dest); err != nil {
		c.Fail(apperr.Validation(err.Error(), nil))
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v as-is with the given status code. Prefer the envelope
// helpers below.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

func (c *Context) write(code int, body response.Envelope) {
	c.status = code
	response.Write(c.W, code, body)
}

// Success sends a 200 envelope with data.
func (c *Context) Success(data any) {
	c.write(http.StatusOK, response.Envelope{Data: data})
}

// Message sends a 200 envelope with a message and optional data.
func (c *Context) Message(message string, data any) {
	c.write(http.StatusOK, response.Envelope{Message: message, Data: data})
}

// Created sends a 201 envelope.
func (c *Context) Created(message string, data any) {
	c.write(http.StatusCreated, response.Envelope{Message: message, Data: data})
}

// Paginated sends items with pagination meta.
func (c *Context) Paginated(items any, p orm.Pagination) {
	c.status = http.StatusOK
	response.Paginated(c.W, items, p)
}

// Error sends an error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.write(code, response.Envelope{Message: message})
}

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.status = http.StatusBadRequest
	response.ValidationError(c.W, errs)
}

// Fail maps err through the apperr taxonomy.
func (c *Context) Fail(err error) {
	c.status = apperr.KindOf(err).Status()
	response.Fail(c.W, c.R, err)
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
