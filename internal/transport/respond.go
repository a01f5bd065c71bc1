package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"catalog-api/internal/middleware"
	"catalog-api/internal/result"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// writeResult maps a service outcome onto the HTTP response.
// Success with data is 200 with a JSON body and without data 204; Created is
// 201 with a Location header; Accepted is 202; failures are problem documents.
func writeResult[T any](w http.ResponseWriter, r *http.Request, res result.Result[T]) {
	switch res.Status() {
	case result.StatusSuccess:
		if data, ok := res.Data(); ok {
			middleware.RespondWithJSON(w, http.StatusOK, data)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case result.StatusCreated:
		if data, ok := res.Data(); ok {
			if location, isString := any(data).(string); isString {
				w.Header().Set("Location", location)
			}
		}
		w.WriteHeader(http.StatusCreated)
	case result.StatusAccepted:
		w.WriteHeader(http.StatusAccepted)
	case result.StatusNotFound:
		middleware.RespondWithProblem(w, r, http.StatusNotFound, res.Message())
	case result.StatusConflict:
		middleware.RespondWithProblem(w, r, http.StatusConflict, res.Message())
	case result.StatusValidationError:
		middleware.RespondWithValidationProblem(w, r, res.ErrorMap())
	default:
		middleware.RespondWithProblem(w, r, http.StatusInternalServerError, res.Message())
	}
}

// decodeRequest decodes and validates the body, writing the 400 response itself on failure
func decodeRequest(w http.ResponseWriter, r *http.Request, v middleware.Validator) bool {
	fieldErrors, err := middleware.DecodeAndValidate(r, v)
	if err != nil {
		middleware.RespondWithProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	if len(fieldErrors) > 0 {
		writeResult(w, r, result.Invalid[result.Empty](fieldErrors...))
		return false
	}
	return true
}

func invalidRouteValue(w http.ResponseWriter, r *http.Request, raw string) {
	middleware.RespondWithValidationProblem(w, r, map[string][]string{
		"id": {fmt.Sprintf("The value '%s' is not valid.", raw)},
	})
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		invalidRouteValue(w, r, raw)
		return 0, false
	}
	return id, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		invalidRouteValue(w, r, raw)
		return uuid.Nil, false
	}
	return id, true
}
