package core

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Header names and values attached by the dispatcher.
const (
	HeaderContentType = "Content-Type"
	HeaderAPIKey      = "X-KOIN-APIKEY"
	HeaderNonce       = "X-KOIN-NONCE"
	HeaderSignature   = "X-KOIN-SIGNATURE"

	ContentTypeJSON = "application/json"
)

// Params maps query parameter names to scalar values.
type Params map[string]any

// Canonical returns the deterministic query string for p: every entry
// formatted as key=value, sorted by byte value and joined with '&'.
// Nil values are skipped. An empty mapping yields "".
func (p Params) Canonical() string {
	if len(p) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(p))
	for k, v := range p {
		if v == nil {
			continue
		}
		pairs = append(pairs, k+"="+FormatValue(v))
	}
	slices.Sort(pairs)
	return strings.Join(pairs, "&")
}

// FormatValue renders a scalar parameter value the way it appears on the wire.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case apd.Decimal:
		return val.Text('f')
	case *apd.Decimal:
		return val.Text('f')
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Request is the per-call descriptor handed from the endpoint layer to the dispatcher.
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Query       Params            `json:"query,omitempty"`
	Headers     map[string]string `json:"-"`
	RequireAuth bool              `json:"require_auth"`
}

func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Query:   make(Params),
		Headers: make(map[string]string),
	}
}

func (r *Request) SetQuery(key string, value any) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	r.Query[key] = value
	return r
}

func (r *Request) SetQueryParams(params Params) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	maps.Copy(r.Query, params)
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

func (r *Request) SetRequireAuth(require bool) *Request {
	r.RequireAuth = require
	return r
}

// CanonicalQuery returns the canonical query string of the request parameters.
func (r *Request) CanonicalQuery() string {
	return r.Query.Canonical()
}

// URL returns the path followed by '?' and the canonical query when there are parameters.
func (r *Request) URL() string {
	if q := r.CanonicalQuery(); q != "" {
		return r.Path + "?" + q
	}
	return r.Path
}

// Validate checks that the method is one the service accepts.
func (r *Request) Validate() error {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, r.Method)
	}
	if r.Path == "" {
		return fmt.Errorf("empty request path")
	}
	return nil
}
