package internal

import (
	"errors"
	"net/http"
)

// Pipeline failures. They reach callers wrapped in *HTTPError carrying the
// status; errors.Is sees through the wrapper.
var (
	ErrRouteNotFound             = errors.New("route not found")
	ErrModuleNotFound            = errors.New("module not found")
	ErrControllerNotFound        = errors.New("controller not found")
	ErrActionNotFound            = errors.New("action not found")
	ErrMissingRequiredArgument   = errors.New("missing required argument")
	ErrInvalidArgument           = errors.New("invalid argument")
	ErrInvalidDispatchDescriptor = errors.New("invalid dispatch descriptor")
)

// HTTPError represents an HTTP error with all data needed for rendering.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Title is an optional title for the error (defaults derived from Code).
	Title string

	// Detail is an optional extended description.
	Detail string

	// ErrorCode is an application-specific error code.
	ErrorCode string

	// RequestID is the request tracking ID.
	RequestID string

	// Code is the HTTP status code (e.g., 404, 500).
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Title = title
	}
}

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Detail = detail
	}
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.ErrorCode = code
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// Convenience constructors for the statuses the pipeline produces.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// notFound wraps a not-found sentinel with the offending name as detail.
func notFound(sentinel error, name string) *HTTPError {
	return ErrNotFound(sentinel.Error()+": "+name,
		WithError(sentinel),
		WithDetail(name),
	)
}

// IsHTTPError reports whether err or anything it wraps is an *HTTPError.
func IsHTTPError(err error) bool {
	return AsHTTPError(err) != nil
}

// AsHTTPError extracts the HTTPError from an error chain.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// StatusOf returns the HTTP status for err: the wrapped HTTPError code, or
// 500 for anything else.
func StatusOf(err error) int {
	if httpErr := AsHTTPError(err); httpErr != nil && httpErr.Code > 0 {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}
