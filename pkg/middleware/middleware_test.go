package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shashiranjanraj/brewandco/pkg/auth"
	"github.com/shashiranjanraj/brewandco/pkg/middleware"
	"github.com/shashiranjanraj/brewandco/pkg/rbac"
	"github.com/shashiranjanraj/brewandco/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }

func token(t *testing.T, kind, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(auth.Claims{UserID: 5, Username: "ana", Role: role, Kind: kind})
	require.NoError(t, err)
	return tok
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAuthMiddleware(t *testing.T) {
	var seen *auth.Claims
	h := middleware.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.ClaimsFromCtx(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer not-a-token", http.StatusForbidden},
		{"valid", "Bearer " + token(t, auth.KindCustomer, auth.RoleCustomer), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := serve(h, req)
			assert.Equal(t, tc.want, rec.Code)
			if tc.want != http.StatusNoContent {
				env := envelope(t, rec)
				assert.False(t, env.Success)
				assert.Equal(t, tc.want, env.Status)
			}
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, uint(5), seen.UserID)
}

func TestQueryTokenAuth(t *testing.T) {
	h := middleware.QueryTokenAuth(http.HandlerFunc(ok))

	req := httptest.NewRequest(http.MethodGet, "/live?token="+token(t, auth.KindAdmin, auth.RoleAdmin), nil)
	assert.Equal(t, http.StatusNoContent, serve(h, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/live", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(h, req).Code)
}

func TestCustomerOnlyAndAdminGate(t *testing.T) {
	customer := middleware.AuthMiddleware(middleware.CustomerOnly(http.HandlerFunc(ok)))
	admin := middleware.AuthMiddleware(rbac.Admin(http.HandlerFunc(ok)))

	cust := "Bearer " + token(t, auth.KindCustomer, auth.RoleCustomer)
	adm := "Bearer " + token(t, auth.KindAdmin, auth.RoleAdmin)

	for _, tc := range []struct {
		name   string
		h      http.Handler
		header string
		want   int
	}{
		{"customer on customer route", customer, cust, http.StatusNoContent},
		{"admin on customer route", customer, adm, http.StatusForbidden},
		{"admin on admin route", admin, adm, http.StatusNoContent},
		{"customer on admin route", admin, cust, http.StatusForbidden},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", tc.header)
			assert.Equal(t, tc.want, serve(tc.h, req).Code)
		})
	}

	// Without AuthMiddleware in front there are no claims.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(rbac.Admin(http.HandlerFunc(ok)), req).Code)
}

func TestRateLimit(t *testing.T) {
	h := middleware.RateLimit(2, time.Minute)(http.HandlerFunc(ok))

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		return serve(h, req)
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1").Code)
	rec := hit("10.0.0.1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, http.StatusTooManyRequests, envelope(t, rec).Status)

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2").Code, "limits are per client")
}

func TestLimiterWindowResets(t *testing.T) {
	l := middleware.NewLimiter(1, 20*time.Millisecond)
	allowed, _ := l.Allow("a")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a")
	assert.False(t, allowed)

	time.Sleep(30 * time.Millisecond)
	allowed, remaining := l.Allow("a")
	assert.True(t, allowed)
	assert.Zero(t, remaining)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.9:1234"
	assert.Equal(t, "192.0.2.9", middleware.ClientIP(req))

	req.Header.Set("X-Real-Ip", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", middleware.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.ClientIP(req))
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", envelope(t, rec).Message)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestCORS(t *testing.T) {
	h := middleware.CORS(middleware.DefaultCORSOptions([]string{"http://shop.local"}))(http.HandlerFunc(ok))

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://shop.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(h, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://shop.local", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://evil.local")
	rec = serve(h, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	open := middleware.CORS(middleware.DefaultCORSOptions(nil))(http.HandlerFunc(ok))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://anywhere.local")
	assert.Equal(t, "*", serve(open, req).Header().Get("Access-Control-Allow-Origin"))
}
