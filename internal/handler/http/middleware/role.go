package middleware

import (
	"net/http"
	"strings"

	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/handler/http/response"
)

// RequireRole allows only callers whose role matches one of roles, case-insensitively.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}
			for _, role := range roles {
				if strings.EqualFold(p.Role, role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.HandleError(w, user.ErrInsufficientPermissions)
		})
	}
}

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || !user.HasPermission(p.Role, permission) {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
