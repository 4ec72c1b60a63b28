// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/brewandco/pkg/auth"
	"github.com/shashiranjanraj/brewandco/pkg/middleware"
	"github.com/shashiranjanraj/brewandco/pkg/response"
)

// HasRole returns middleware that allows access only to tokens carrying one
// of the given roles. Requires AuthMiddleware to have already run.
// No claims is 401; any other role is 403.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !allowed[role] {
				response.Error(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin is HasRole(auth.RoleAdmin).
func Admin(next http.Handler) http.Handler {
	return HasRole(auth.RoleAdmin)(next)
}
