// Package result carries the outcome of a service call.
//
// A Result is in exactly one state. Success, Created and Accepted may carry a
// payload; NotFound, Conflict, ValidationError and Unexpected never do and
// carry a message or a list of field errors instead.
package result

import "fmt"

// Status identifies which variant a Result holds
type Status int

const (
	StatusSuccess Status = iota + 1
	StatusCreated
	StatusAccepted
	StatusNotFound
	StatusConflict
	StatusValidationError
	StatusUnexpected
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusCreated:
		return "Created"
	case StatusAccepted:
		return "Accepted"
	case StatusNotFound:
		return "NotFound"
	case StatusConflict:
		return "Conflict"
	case StatusValidationError:
		return "ValidationError"
	case StatusUnexpected:
		return "Unexpected"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsSuccess reports whether s is one of the success variants
func (s Status) IsSuccess() bool {
	return s == StatusSuccess || s == StatusCreated || s == StatusAccepted
}

// FieldError attributes a validation failure to one request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Empty is the payload type of outcomes that never carry data
type Empty struct{}

// Outcome is a Result without a payload
type Outcome = Result[Empty]

// Result is the tagged outcome of one service operation.
// The zero value is not a valid Result; use the constructors.
type Result[T any] struct {
	status  Status
	data    T
	hasData bool
	message string
	errors  []FieldError
}

// Success wraps data in a Success result
func Success[T any](data T) Result[T] {
	return Result[T]{status: StatusSuccess, data: data, hasData: true}
}

// Done is a Success without payload
func Done() Outcome {
	return Outcome{status: StatusSuccess}
}

// Created reports a newly created resource. The payload is typically its location.
func Created[T any](data T) Result[T] {
	return Result[T]{status: StatusCreated, data: data, hasData: true}
}

// Accepted reports an applied change without payload
func Accepted[T any]() Result[T] {
	return Result[T]{status: StatusAccepted}
}

func NotFound[T any](message string) Result[T] {
	return Result[T]{status: StatusNotFound, message: message}
}

func Conflict[T any](message string) Result[T] {
	return Result[T]{status: StatusConflict, message: message}
}

// Invalid builds a ValidationError from one or more field errors
func Invalid[T any](errs ...FieldError) Result[T] {
	cp := make([]FieldError, len(errs))
	copy(cp, errs)
	return Result[T]{status: StatusValidationError, message: "One or more validation errors occurred.", errors: cp}
}

// Unexpected reports a failure the caller cannot fix. The message must not leak internals.
func Unexpected[T any](message string) Result[T] {
	return Result[T]{status: StatusUnexpected, message: message}
}

func (r Result[T]) Status() Status { return r.status }

func (r Result[T]) IsSuccess() bool { return r.status.IsSuccess() }

// Data returns the payload and whether one is present
func (r Result[T]) Data() (T, bool) {
	return r.data, r.hasData
}

// Message is the human readable failure description; empty for success variants
func (r Result[T]) Message() string { return r.message }

// Errors returns a copy of the field errors of a ValidationError result
func (r Result[T]) Errors() []FieldError {
	if len(r.errors) == 0 {
		return nil
	}
	cp := make([]FieldError, len(r.errors))
	copy(cp, r.errors)
	return cp
}

// ErrorMap groups field errors by field, preserving order within a field
func (r Result[T]) ErrorMap() map[string][]string {
	if len(r.errors) == 0 {
		return nil
	}
	m := make(map[string][]string, len(r.errors))
	for _, e := range r.errors {
		m[e.Field] = append(m[e.Field], e.Message)
	}
	return m
}

func (r Result[T]) String() string {
	if r.message == "" {
		return r.status.String()
	}
	return fmt.Sprintf("%s: %s", r.status, r.message)
}
