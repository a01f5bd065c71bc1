package service

import (
	"catalog-api/internal/result"

	"go.uber.org/zap"
)

const (
	msgRouteMismatch       = "Route ID and payload ID must match."
	msgInvalidRowVersion   = "Invalid RowVersion format."
	msgConcurrencyConflict = "The record was modified by another user. Please reload and try again."
	msgUnexpected          = "An unexpected error occurred. Please try again later."
)

// unexpected logs a store failure with its context and hides it behind a generic message
func unexpected[T any](logger *zap.Logger, msg string, err error, fields ...zap.Field) result.Result[T] {
	logger.Error(msg, append(fields, zap.Error(err))...)
	return result.Unexpected[T](msgUnexpected)
}

func invalid[T any](field, message string) result.Result[T] {
	return result.Invalid[T](result.FieldError{Field: field, Message: message})
}

func newLogger(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.Named(name)
}
