package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shashiranjanraj/brewandco/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, body) }
}

func tag(name string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func get(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGroupsJoinPrefixesAndMiddleware(t *testing.T) {
	r := router.New()
	r.Use(tag("global"))

	api := r.Group("/api", tag("api"))
	api.Get("/", "api.index", text("index"))
	admin := api.Group("admin/", tag("admin"))
	admin.Get("/orders/{id}", "admin.orders.show", text("order"), tag("route"))

	rec := get(t, r.Handler(), http.MethodGet, "/api/admin/orders/7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "order", rec.Body.String())
	assert.Equal(t, []string{"global", "api", "admin", "route"}, rec.Header().Values("X-Chain"))

	rec = get(t, r.Handler(), http.MethodGet, "/api")
	assert.Equal(t, "index", rec.Body.String())
}

func TestNamedRoutes(t *testing.T) {
	r := router.New()
	g := r.Group("/api/orders")
	g.Get("/{id}", "orders.show", text(""))
	g.Put("/{id}/status", "orders.status", text(""))

	path, ok := r.Path("orders.show")
	require.True(t, ok)
	assert.Equal(t, "/api/orders/{id}", path)

	url, err := r.URL("orders.status", map[string]string{"id": "12"})
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/12/status", url)

	_, err = r.URL("orders.status", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, router.RouteInfo{Method: http.MethodGet, Path: "/api/orders/{id}", Name: "orders.show"}, routes[0])
}

func TestMountNotFoundAndMethodNotAllowed(t *testing.T) {
	r := router.New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusConflict) })
	r.Post("/api/orders", "orders.store", text("ok"))
	r.Mount("/files", "files", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = io.WriteString(w, strings.TrimPrefix(req.URL.Path, "/files"))
	}))

	assert.Equal(t, "/a/b.png", get(t, r.Handler(), http.MethodGet, "/files/a/b.png").Body.String())
	assert.Equal(t, http.StatusTeapot, get(t, r.Handler(), http.MethodGet, "/nope").Code)
	assert.Equal(t, http.StatusConflict, get(t, r.Handler(), http.MethodGet, "/api/orders").Code)

	found := false
	for _, ri := range r.Routes() {
		if ri.Name == "files" {
			found = true
			assert.Equal(t, "*", ri.Method)
		}
	}
	assert.True(t, found)
}
