package koin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"koinrest/pkg/core"
)

const (
	ProductionURL = "https://api.koinrest.io"
	APIVersion    = "v1"
)

// endpoint describes one remote operation. Path placeholders are written
// {name} when required and {name?} when the whole segment is dropped if the
// parameter is absent. Rename maps caller parameter names to wire names.
type endpoint struct {
	Method   string
	Path     string
	Signed   bool
	Required []string
	Rename   map[string]string
}

var endpoints = map[core.Operation]endpoint{
	core.OpGetExchangeRate: {Method: http.MethodGet, Path: "/common/open/exchange-rate"},
	core.OpGetLanguageList: {Method: http.MethodGet, Path: "/common/open/languages"},
	core.OpChangeLanguage:  {Method: http.MethodPost, Path: "/account/language", Signed: true, Required: []string{"lang"}},

	core.OpGetAccountInfo:            {Method: http.MethodGet, Path: "/account/info", Signed: true},
	core.OpGetInviteCount:            {Method: http.MethodGet, Path: "/account/invite/count", Signed: true},
	core.OpGetPromotionRewardInfo:    {Method: http.MethodGet, Path: "/account/promotion/reward", Signed: true},
	core.OpGetPromotionRewardSummary: {Method: http.MethodGet, Path: "/account/promotion/reward/summary", Signed: true},

	core.OpGetDepositAddress: {Method: http.MethodGet, Path: "/account/{symbol}/deposit/address", Signed: true},
	core.OpCreateWithdrawal: {
		Method:   http.MethodPost,
		Path:     "/account/{symbol}/withdraw",
		Signed:   true,
		Required: []string{"address", "amount"},
		Rename:   map[string]string{"tag": "memo"},
	},
	core.OpCancelWithdrawal:     {Method: http.MethodPost, Path: "/account/withdraw/{id}/cancel", Signed: true},
	core.OpGetDepositHistory:    {Method: http.MethodGet, Path: "/account/{symbol?}/deposit/history", Signed: true},
	core.OpGetWithdrawalHistory: {Method: http.MethodGet, Path: "/account/{symbol?}/withdraw/history", Signed: true},
	core.OpGetBalance:           {Method: http.MethodGet, Path: "/account/{symbol?}/balance", Signed: true},

	core.OpCreateOrder: {
		Method:   http.MethodPost,
		Path:     "/order/{symbol}/create",
		Signed:   true,
		Required: []string{"side", "type", "amount"},
		Rename:   map[string]string{"client_order_id": "clientOid"},
	},
	core.OpCancelOrder: {
		Method:   http.MethodPost,
		Path:     "/order/{symbol}/cancel",
		Signed:   true,
		Required: []string{"order_id"},
		Rename:   map[string]string{"order_id": "id"},
	},
	core.OpGetActiveOrders:    {Method: http.MethodGet, Path: "/order/{symbol?}/active", Signed: true},
	core.OpGetCompletedOrders: {Method: http.MethodGet, Path: "/order/{symbol?}/completed", Signed: true},
	core.OpGetRecentOrders:    {Method: http.MethodGet, Path: "/market/open/{symbol}/orders/recent"},

	core.OpGetTicker:    {Method: http.MethodGet, Path: "/market/open/{symbol?}/ticker"},
	core.OpGetOrderBook: {Method: http.MethodGet, Path: "/market/open/{symbol}/orderbook"},
	core.OpGetTrending:  {Method: http.MethodGet, Path: "/market/open/trending"},
	core.OpGetSymbols:   {Method: http.MethodGet, Path: "/market/open/symbols"},
	core.OpGetCoins:     {Method: http.MethodGet, Path: "/market/open/coins"},
}

// Protocol implements core.Protocol for the Koin API.
type Protocol struct{}

// NewProtocol creates a new Koin protocol instance.
func NewProtocol() *Protocol {
	return &Protocol{}
}

// Name returns the protocol identifier "koin".
func (p *Protocol) Name() string {
	return "koin"
}

// Version returns the API version path segment.
func (p *Protocol) Version() string {
	return APIVersion
}

// BaseURL returns the production host.
func (p *Protocol) BaseURL() string {
	return ProductionURL
}

// PathPrefix returns the version prefix every request path starts with.
func (p *Protocol) PathPrefix() string {
	return "/" + APIVersion
}

// SupportedOperations returns the operations present in the endpoint table, in declaration order.
func (p *Protocol) SupportedOperations() []core.Operation {
	ops := make([]core.Operation, 0, len(endpoints))
	for op := range endpoints {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

// IsSigned reports whether op requires authentication headers.
func (p *Protocol) IsSigned(op core.Operation) bool {
	return endpoints[op].Signed
}

// BuildRequest resolves op in the endpoint table, interpolates path
// parameters and renames the remaining ones into query parameters.
// Nil values and empty strings count as absent. When a caller passes both a
// parameter and its wire name, the renamed parameter's value is sent.
func (p *Protocol) BuildRequest(ctx context.Context, op core.Operation, params core.Params) (*core.Request, error) {
	ep, ok := endpoints[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedOperation, op)
	}

	query := compactParams(params)

	path, err := expandPath(ep.Path, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, name := range ep.Required {
		if _, ok := query[name]; !ok {
			return nil, fmt.Errorf("%s: %w: %s", op, core.ErrMissingParameter, name)
		}
	}

	req := core.NewRequest(ep.Method, p.PathPrefix()+path)
	for k, v := range query {
		if _, ok := ep.Rename[k]; !ok {
			req.SetQuery(k, v)
		}
	}
	// renamed parameters are applied last and win over a raw wire name
	for k, wire := range ep.Rename {
		if v, ok := query[k]; ok {
			req.SetQuery(wire, v)
		}
	}
	req.SetRequireAuth(ep.Signed)

	return req, nil
}

// SignRequest attaches the API key, nonce and signature headers. The nonce in
// the header is the same value that went into the signature.
func (p *Protocol) SignRequest(req *core.Request, creds core.Credentials, nonce int64) error {
	if creds.IsEmpty() {
		return core.ErrNoCredentials
	}

	n := strconv.FormatInt(nonce, 10)
	signature := Sign(req.Path, n, req.CanonicalQuery(), creds.SecretKey)

	req.SetHeader(core.HeaderAPIKey, creds.APIKey)
	req.SetHeader(core.HeaderNonce, n)
	req.SetHeader(core.HeaderSignature, signature)
	req.SetHeader(core.HeaderContentType, core.ContentTypeJSON)

	return nil
}

// wireEnvelope detects bodies that are JSON but not an envelope.
type wireEnvelope struct {
	Success *bool `json:"success"`
}

// ParseResponse decodes body into an envelope. A body that is not an
// envelope is a transport error; an envelope with success=false is a
// rejected error that carries the envelope. The HTTP status only annotates
// the error, the envelope decides the outcome.
func (p *Protocol) ParseResponse(statusCode int, body []byte) (*core.Envelope, error) {
	var head wireEnvelope
	if err := sonic.Unmarshal(body, &head); err != nil {
		return nil, core.NewTransportError(p.Name(), statusCode,
			fmt.Errorf("decode envelope: %w", err)).WithCode(core.ErrCodeMalformedBody)
	}
	if head.Success == nil {
		return nil, core.NewTransportError(p.Name(), statusCode,
			fmt.Errorf("response is not an envelope (HTTP %d)", statusCode)).WithCode(core.ErrCodeMalformedBody)
	}

	var env core.Envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return nil, core.NewTransportError(p.Name(), statusCode,
			fmt.Errorf("decode envelope: %w", err)).WithCode(core.ErrCodeMalformedBody)
	}

	if !env.Success {
		return nil, core.NewRejectedError(p.Name(), statusCode, &env)
	}
	return &env, nil
}

func compactParams(params core.Params) core.Params {
	out := make(core.Params, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// expandPath substitutes path placeholders from query and removes the
// consumed parameters from it.
func expandPath(template string, query core.Params) (string, error) {
	segments := strings.Split(template, "/")
	out := make([]string, 0, len(segments))

	for _, seg := range segments {
		inner, isParam := strings.CutPrefix(seg, "{")
		if !isParam {
			out = append(out, seg)
			continue
		}
		inner = strings.TrimSuffix(inner, "}")
		name, optional := strings.CutSuffix(inner, "?")

		v, ok := query[name]
		if !ok {
			if optional {
				continue
			}
			return "", fmt.Errorf("%w: %s", core.ErrMissingParameter, name)
		}
		delete(query, name)
		out = append(out, url.PathEscape(core.FormatValue(v)))
	}

	return strings.Join(out, "/"), nil
}
