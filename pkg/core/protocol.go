package core

import "context"

// Protocol defines the service-specific half of a client: request building,
// signing and response classification. The client owns transport and lifecycle.
type Protocol interface {
	// Name returns the service identifier used in errors and logs.
	Name() string

	// Version returns the API version path segment, e.g. "v1".
	Version() string

	// BaseURL returns the production API host.
	BaseURL() string

	// BuildRequest constructs the request descriptor for an operation.
	BuildRequest(ctx context.Context, op Operation, params Params) (*Request, error)

	// SignRequest attaches authentication headers derived from creds and nonce.
	SignRequest(req *Request, creds Credentials, nonce int64) error

	// ParseResponse decodes the body into an envelope and classifies it.
	ParseResponse(statusCode int, body []byte) (*Envelope, error)

	// SupportedOperations returns the operations this protocol can build.
	SupportedOperations() []Operation
}
