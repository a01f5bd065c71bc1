package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"catalog-api/internal/result"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Validator is implemented by request payloads that check their own rules
type Validator interface {
	Validate() []result.FieldError
}

// ErrEmptyBody is returned when a payload was expected but none was sent
var ErrEmptyBody = errors.New("request body must not be empty")

// DecodeAndValidate decodes the JSON request body into v and validates it.
// Unknown members and trailing data are decode errors. Rule violations are
// returned as field errors with a nil error.
func DecodeAndValidate(r *http.Request, v Validator) ([]result.FieldError, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBody
		}
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("request body must contain a single JSON object")
	}

	return v.Validate(), nil
}

// ValidationMiddleware rejects request bodies that are not declared as JSON
func ValidationMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				logger.Debug("Rejected non-JSON request body",
					zap.String("content_type", r.Header.Get("Content-Type")),
					zap.String("path", r.URL.Path),
				)
				RespondWithProblem(w, r, http.StatusUnsupportedMediaType, "Request body must be application/json.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
