package middleware

import (
	"fmt"
	"net/http"

	"github.com/escopo/escopo-backend-go/internal/domain/user"
	"github.com/escopo/escopo-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, fmt.Errorf("%w: required '%s'", user.ErrInsufficientPermissions, permission))
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.HandleError(w, fmt.Errorf("%w: required '%s'", user.ErrInsufficientPermissions, permission))
				return
			}

			role := user.Role(roleStr)
			if !user.HasPermission(role, permission) {
				response.HandleError(w, fmt.Errorf("%w: required '%s', but user role is '%s'", user.ErrInsufficientPermissions, permission, role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
