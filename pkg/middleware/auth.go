package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/brewandco/pkg/auth"
	"github.com/shashiranjanraj/brewandco/pkg/response"
)

type claimsKey struct{}

// AuthMiddleware verifies the bearer token and stores its claims in the
// request context. A missing or malformed header is 401; a token that
// fails verification is 403.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// QueryTokenAuth behaves like AuthMiddleware but also accepts the token
// as a ?token= query parameter. Browsers cannot set headers on websocket
// upgrades.
func QueryTokenAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if t := r.URL.Query().Get("token"); t != "" {
				r = r.Clone(r.Context())
				r.Header.Set("Authorization", "Bearer "+t)
			}
		}
		AuthMiddleware(next).ServeHTTP(w, r)
	})
}

// CustomerOnly requires a token minted for a customer account.
func CustomerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromCtx(r.Context())
		if !ok {
			response.Unauthorized(w)
			return
		}
		if !claims.IsCustomer() {
			response.Error(w, http.StatusForbidden, "Customer account required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithClaims stores verified claims in ctx.
func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromCtx returns the verified claims, if any.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok && c != nil
}

// UserIDFromCtx returns the authenticated account id.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	c, ok := ClaimsFromCtx(r.Context())
	if !ok {
		return 0, false
	}
	return c.UserID, true
}

// RoleFromCtx returns the persisted role carried by the token.
func RoleFromCtx(r *http.Request) (string, bool) {
	c, ok := ClaimsFromCtx(r.Context())
	if !ok {
		return "", false
	}
	return c.Role, true
}
