package middleware

import (
	"net/http"

	"github.com/escopo/escopo-backend-go/internal/domain/auth"
	"github.com/escopo/escopo-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests whose verified token is missing, is not an
// access token or carries no company.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != "access" {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if companyID, ok := claims["company_id"].(string); !ok || companyID == "" {
			response.HandleError(w, auth.ErrCompanyClaimMissing)
			return
		}

		next.ServeHTTP(w, r)
	})
}
