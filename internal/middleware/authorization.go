package middleware

import (
	"net/http"
	"slices"

	"go.uber.org/zap"
)

// RequireRole middleware ensures the user has one of the specified roles
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithProblem(w, r, http.StatusForbidden, "Insufficient permissions.")
				return
			}

			if !slices.Contains(allowedRoles, role) {
				logger.Warn("User role not authorized",
					zap.String("role", role),
					zap.Strings("allowed_roles", allowedRoles),
				)
				RespondWithProblem(w, r, http.StatusForbidden, "Insufficient permissions.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WriteGuard protects mutating catalog routes with a bearer token and a role check.
// An empty secret disables the guard.
func WriteGuard(jwtSecret string, roles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	if jwtSecret == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	authenticate := AuthMiddleware(jwtSecret, logger)
	authorize := RequireRole(roles, logger)
	return func(next http.Handler) http.Handler {
		return authenticate(authorize(next))
	}
}
