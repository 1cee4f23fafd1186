// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
//
// Errors are categorized, not typed per call site:
//   - Validation: bad input shape — caller must correct the request.
//   - BusinessRule: a domain rule rejected the operation (illegal transition,
//     total mismatch, session already active, …).
//   - NotFound: the referenced entity does not exist or is soft-deleted.
//   - Conflict: optimistic version mismatch — caller may reload and retry.
//
// Anything else (repository I/O failures) propagates unchanged and surfaces
// as a generic 500 at the boundary.
package apierror

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBusinessRule
	KindNotFound
	KindConflict
)

// Error is the single error type the domain layer returns. Message is safe
// to show to clients verbatim.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func BusinessRule(msg string) *Error { return &Error{Kind: KindBusinessRule, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

// KindOf extracts the category of err, or KindInternal for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}
