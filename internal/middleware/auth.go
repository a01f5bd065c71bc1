package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// authError is a rejected bearer token together with the problem detail sent back
type authError struct {
	detail string
	cause  error
}

func (e *authError) Error() string { return e.detail }

func newTokenParser() *jwt.Parser {
	return jwt.NewParser(jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(),
		jwt.SigningMethodHS384.Alg(),
		jwt.SigningMethodHS512.Alg(),
	}))
}

// authenticate verifies the bearer token of r and returns its subject and role.
// The subject is read from "sub" and falls back to "user_id".
func authenticate(parser *jwt.Parser, jwtSecret string, r *http.Request) (string, string, *authError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "", &authError{detail: "Missing authorization header."}
	}

	scheme, tokenString, found := strings.Cut(authHeader, " ")
	if !found || scheme != "Bearer" || tokenString == "" {
		return "", "", &authError{detail: "Invalid authorization header format."}
	}

	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", &authError{detail: "Token expired.", cause: err}
		}
		return "", "", &authError{detail: "Invalid token.", cause: err}
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		userID, _ = claims["user_id"].(string)
	}
	if userID == "" {
		return "", "", &authError{detail: "Invalid token claims."}
	}

	role, ok := claims["role"].(string)
	if !ok {
		return "", "", &authError{detail: "Invalid token claims."}
	}

	return userID, role, nil
}

func withIdentity(r *http.Request, userID, role string) *http.Request {
	ctx := context.WithValue(r.Context(), UserIDKey, userID)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return r.WithContext(ctx)
}

// AuthMiddleware validates HS bearer tokens and puts the subject and role into the context
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	parser := newTokenParser()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUserID(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, role, authErr := authenticate(parser, jwtSecret, r)
			if authErr != nil {
				logger.Debug("Token validation failed",
					zap.String("reason", authErr.detail),
					zap.NamedError("cause", authErr.cause),
				)
				RespondWithProblem(w, r, http.StatusUnauthorized, authErr.detail)
				return
			}

			logger.Debug("User authenticated",
				zap.String("user_id", userID),
				zap.String("role", role),
			)

			next.ServeHTTP(w, withIdentity(r, userID, role))
		})
	}
}

// IdentifyCaller attaches the subject and role of a valid bearer token to the context
// and never rejects. Requests without a usable token pass through anonymous.
// An empty secret disables it.
func IdentifyCaller(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	if jwtSecret == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	parser := newTokenParser()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, role, authErr := authenticate(parser, jwtSecret, r)
			if authErr != nil {
				logger.Debug("Caller not identified", zap.String("reason", authErr.detail))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, withIdentity(r, userID, role))
		})
	}
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRole extracts user role from request context
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}
