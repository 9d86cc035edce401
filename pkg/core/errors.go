package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of a failed remote call.
type ErrorType int

// A call either never produced a usable envelope or the remote service rejected it.
const (
	// ErrorTypeTransport covers connectivity, timeouts, cancellation and malformed bodies.
	ErrorTypeTransport ErrorType = iota
	// ErrorTypeRejected indicates a well-formed envelope with success set to false.
	ErrorTypeRejected
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransport:
		return "TRANSPORT"
	case ErrorTypeRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Sentinel errors for local preconditions. These are returned before any
// network activity and are never wrapped in an ExchangeError.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNoCredentials is returned when a signed call is made without credentials.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrUnsupportedMethod is returned for HTTP verbs other than GET and POST.
	ErrUnsupportedMethod = errors.New("unsupported http method")
	// ErrUnsupportedOperation is returned for operations missing from the endpoint table.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrMissingParameter is returned when a required endpoint parameter is absent.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrCircuitBreakerOpen is the cause of a transport error raised by an open breaker.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
)

// ExchangeError is the failure value of a dispatched call.
// Transport errors carry the underlying cause in Err; rejected errors carry
// the decoded envelope together with its code and message.
type ExchangeError struct {
	// Type categorizes the error.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int `json:"status_code"`
	// Code is the service error code taken from the envelope.
	Code string `json:"code"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// Envelope is the full decoded response for rejected calls.
	Envelope *Envelope `json:"envelope,omitempty"`
	// Err is the underlying transport error.
	Err error `json:"-"`
	// Exchange identifies the service that produced this error.
	Exchange string `json:"exchange"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface for ExchangeError.
func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s (%d/%s): %s",
			e.Exchange, e.Type, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (%d): %s",
		e.Exchange, e.Type, e.StatusCode, e.Message)
}

// Unwrap returns the underlying transport error, if any.
func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// WithCode sets the error code and returns the error for chaining.
func (e *ExchangeError) WithCode(code ErrorCode) *ExchangeError {
	e.Code = string(code)
	return e
}

// NewTransportError wraps err as a transport failure. statusCode is zero when
// the request never produced a response.
func NewTransportError(exchange string, statusCode int, err error) *ExchangeError {
	msg := "transport failure"
	if err != nil {
		msg = err.Error()
	}
	return &ExchangeError{
		Type:       ErrorTypeTransport,
		StatusCode: statusCode,
		Message:    msg,
		Err:        err,
		Exchange:   exchange,
		Timestamp:  time.Now(),
	}
}

// NewRejectedError builds a rejected-call error from a decoded envelope.
func NewRejectedError(exchange string, statusCode int, env *Envelope) *ExchangeError {
	e := &ExchangeError{
		Type:       ErrorTypeRejected,
		StatusCode: statusCode,
		Envelope:   env,
		Exchange:   exchange,
		Timestamp:  time.Now(),
	}
	if env != nil {
		e.Code = env.Code.String()
		e.Message = env.Message
	}
	return e
}

// AsExchangeError extracts an ExchangeError from err's chain.
func AsExchangeError(err error) (*ExchangeError, bool) {
	var exErr *ExchangeError
	if errors.As(err, &exErr) {
		return exErr, true
	}
	return nil, false
}

// IsTransportError returns true if err is a transport failure.
func IsTransportError(err error) bool {
	if e, ok := AsExchangeError(err); ok {
		return e.Type == ErrorTypeTransport
	}
	return false
}

// IsRejectedError returns true if the remote service answered with success=false.
func IsRejectedError(err error) bool {
	if e, ok := AsExchangeError(err); ok {
		return e.Type == ErrorTypeRejected
	}
	return false
}
