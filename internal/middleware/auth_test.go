package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tokenString
}

// Property 14: Protected endpoints reject missing tokens
func TestProperty_ProtectedEndpointsRejectMissingTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())

			req := httptest.NewRequest(method, "/api/"+pathSuffix, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("POST", "PUT", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property 15: Expired tokens are rejected
func TestProperty_ExpiredTokensAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("expired tokens are rejected with 401", prop.ForAll(
		func(userID string, role string) bool {
			handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())

			tokenString := signToken(t, jwt.MapClaims{
				"sub":  userID,
				"role": role,
				"exp":  time.Now().Add(-1 * time.Hour).Unix(),
			})

			req := httptest.NewRequest(http.MethodPut, "/api/categories/1", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized && strings.Contains(w.Body.String(), "Token expired.")
		},
		gen.Identifier(),
		gen.OneConstOf("viewer", "admin"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property 16: Valid tokens carry subject and role into the request
func TestProperty_ValidTokensAllowProcessing(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid tokens allow request processing", prop.ForAll(
		func(userID string, role string, legacyClaim bool) bool {
			claims := jwt.MapClaims{
				"role": role,
				"exp":  time.Now().Add(1 * time.Hour).Unix(),
			}
			if legacyClaim {
				claims["user_id"] = userID
			} else {
				claims["sub"] = userID
			}
			tokenString := signToken(t, claims)

			handlerCalled := false
			handler := AuthMiddleware(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true

				ctxUserID, ok1 := GetUserID(r.Context())
				ctxRole, ok2 := GetUserRole(r.Context())
				if !ok1 || !ok2 || ctxUserID != userID || ctxRole != role {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}

				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return handlerCalled && w.Code == http.StatusOK
		},
		gen.Identifier(),
		gen.OneConstOf("viewer", "admin"),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property 17: Malformed tokens and headers are rejected
func TestProperty_InvalidTokenFormatRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("invalid token formats are rejected", prop.ForAll(
		func(invalidToken string, withPrefix bool) bool {
			handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())

			header := invalidToken
			if withPrefix {
				header = "Bearer " + invalidToken
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/products/x", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AnyString(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddleware_RejectsOtherSigningMethods(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1", "role": "admin"})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	AuthMiddleware(testSecret, zap.NewNop())(okHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWriteGuard(t *testing.T) {
	adminToken := signToken(t, jwt.MapClaims{"sub": "u1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()})
	viewerToken := signToken(t, jwt.MapClaims{"sub": "u2", "role": "viewer", "exp": time.Now().Add(time.Hour).Unix()})

	tests := []struct {
		name   string
		secret string
		token  string
		want   int
	}{
		{"disabled guard lets anonymous through", "", "", http.StatusOK},
		{"anonymous rejected", testSecret, "", http.StatusUnauthorized},
		{"viewer forbidden", testSecret, viewerToken, http.StatusForbidden},
		{"admin allowed", testSecret, adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := WriteGuard(tt.secret, []string{"admin"}, zap.NewNop())(okHandler())

			req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireRole_MissingRoleIsForbidden(t *testing.T) {
	w := httptest.NewRecorder()
	RequireRole([]string{"admin"}, zap.NewNop())(okHandler()).
		ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/products/1", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIdentifyCaller(t *testing.T) {
	validToken := signToken(t, jwt.MapClaims{"sub": "editor-7", "role": "editor", "exp": time.Now().Add(time.Hour).Unix()})
	expiredToken := signToken(t, jwt.MapClaims{"sub": "editor-7", "role": "editor", "exp": time.Now().Add(-time.Hour).Unix()})

	tests := []struct {
		name     string
		header   string
		wantUser string
	}{
		{"no header stays anonymous", "", ""},
		{"expired token stays anonymous", "Bearer " + expiredToken, ""},
		{"malformed header stays anonymous", "Token " + validToken, ""},
		{"valid token is identified", "Bearer " + validToken, "editor-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			handler := IdentifyCaller(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, "identification never rejects")
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

func TestIdentifiedCallerPassesWriteGuard(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "u1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()})
	handler := IdentifyCaller(testSecret, zap.NewNop())(
		WriteGuard(testSecret, []string{"admin"}, zap.NewNop())(okHandler()),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
