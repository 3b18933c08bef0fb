// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/auth"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/response"
)

// HasRole allows only principals carrying one of roles. It must run after
// middleware.Auth; a request without a principal is answered with 401.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				response.Unauthenticated(w, r)
				return
			}
			if !allowed[p.Role] {
				response.Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin is HasRole(auth.RoleAdmin).
func Admin() func(http.Handler) http.Handler { return HasRole(auth.RoleAdmin) }
