package core

// ErrorCode is a stable, machine-readable identifier for client-side failure causes.
// Rejected errors carry the service's own numeric code instead.
type ErrorCode string

const (
	ErrCodeNetwork        ErrorCode = "NETWORK_ERROR"
	ErrCodeCanceled       ErrorCode = "CANCELED"
	ErrCodeMalformedBody  ErrorCode = "MALFORMED_BODY"
	ErrCodeCircuitBreaker ErrorCode = "CIRCUIT_BREAKER_OPEN"
	ErrCodeRateLimitWait  ErrorCode = "RATE_LIMIT_WAIT"
)

// IsErrorCode checks if the error matches the specified error code.
func IsErrorCode(err error, code ErrorCode) bool {
	if exErr, ok := AsExchangeError(err); ok {
		return ErrorCode(exErr.Code) == code
	}
	return false
}
