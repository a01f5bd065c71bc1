package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const problemContentType = "application/problem+json"

// ProblemDetails is an RFC 7807 problem document
type ProblemDetails struct {
	Type     string              `json:"type"`
	Title    string              `json:"title"`
	Status   int                 `json:"status"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
	TraceID  string              `json:"traceId,omitempty"`
}

var problemTypes = map[int]string{
	http.StatusBadRequest:           "https://tools.ietf.org/html/rfc9110#section-15.5.1",
	http.StatusUnauthorized:         "https://tools.ietf.org/html/rfc9110#section-15.5.2",
	http.StatusForbidden:            "https://tools.ietf.org/html/rfc9110#section-15.5.4",
	http.StatusNotFound:             "https://tools.ietf.org/html/rfc9110#section-15.5.5",
	http.StatusConflict:             "https://tools.ietf.org/html/rfc9110#section-15.5.10",
	http.StatusUnsupportedMediaType: "https://tools.ietf.org/html/rfc9110#section-15.5.16",
	http.StatusTooManyRequests:      "https://tools.ietf.org/html/rfc6585#section-4",
	http.StatusInternalServerError:  "https://tools.ietf.org/html/rfc9110#section-15.6.1",
}

// NewProblem builds a problem document for status. The request, when given,
// supplies the instance path and trace id.
func NewProblem(r *http.Request, status int, detail string) ProblemDetails {
	p := ProblemDetails{
		Type:   problemTypes[status],
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
	if p.Type == "" {
		p.Type = "about:blank"
	}
	if r != nil {
		p.Instance = r.URL.Path
		p.TraceID = middleware.GetReqID(r.Context())
	}
	return p
}

// WriteProblem sends p with the problem+json content type
func WriteProblem(w http.ResponseWriter, p ProblemDetails) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(p.Status)
	json.NewEncoder(w).Encode(p)
}

// RespondWithProblem sends a problem document describing one failure
func RespondWithProblem(w http.ResponseWriter, r *http.Request, statusCode int, detail string) {
	WriteProblem(w, NewProblem(r, statusCode, detail))
}

// RespondWithValidationProblem sends a 400 problem listing messages per field
func RespondWithValidationProblem(w http.ResponseWriter, r *http.Request, errors map[string][]string) {
	p := NewProblem(r, http.StatusBadRequest, "One or more validation errors occurred.")
	p.Errors = errors
	WriteProblem(w, p)
}

// RespondWithError sends a problem document when no request is at hand
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	WriteProblem(w, NewProblem(nil, statusCode, message))
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.String("request_id", middleware.GetReqID(r.Context())),
						zap.Stack("stack"),
					)

					RespondWithProblem(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
