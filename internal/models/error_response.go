package models

import "net/http"

type ErrorKind string // Broad category of a request failure

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindForbidden  ErrorKind = "forbidden"
)

// ErrorResponse describes a failure with a status code, kind and message.
type ErrorResponse struct {
	StatusCode int       `json:"-"`
	Kind       ErrorKind `json:"-"`
	Message    string    `json:"reason"`
}

// NewErrorResponse creates a new error with a status code and message.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusBadRequest, Kind: KindValidation, Message: message}
}

// NewNotFoundError reports an absent assignment, offering or approval.
func NewNotFoundError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusNotFound, Kind: KindNotFound, Message: message}
}

// NewConflictError reports a violated state transition, e.g. an assignment
// that is no longer accepting offerings or is already decided.
func NewConflictError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusConflict, Kind: KindConflict, Message: message}
}

// NewForbiddenError reports a denied authorization policy check.
func NewForbiddenError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusForbidden, Kind: KindForbidden, Message: message}
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	return e.Message
}

// IsKind reports whether err is an *ErrorResponse of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	resp, ok := err.(*ErrorResponse)
	return ok && resp.Kind == kind
}
