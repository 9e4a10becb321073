package middlewares

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"modshop/internal/models"
	"modshop/internal/utils"
)

// Auth requires a valid bearer token and stores its claims on the request context.
func Auth(jwt *utils.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				utils.SendJSONError(w, "Missing or malformed token", http.StatusUnauthorized)
				return
			}

			claims, err := jwt.ParseJWT(strings.TrimSpace(token))
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
				utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithClaims(r.Context(), claims)))
		})
	}
}

// AdminOnly must run after Auth. Tokens without the admin role get 403.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := utils.ClaimsFromContext(r.Context())
		if !ok {
			utils.SendJSONError(w, "Missing or malformed token", http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin || claims.Role != models.RoleAdmin {
			log.Warn().Str("user_id", claims.ID).Str("path", r.URL.Path).Msg("Non-admin access to admin route")
			utils.SendJSONError(w, "Admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
