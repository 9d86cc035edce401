package exchange

import (
	"context"
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-playground/validator/v10"

	"koinrest/pkg/core"
)

// Exchange is the compatibility-facing method surface: one method per remote
// endpoint. Every method returns the full response envelope.
type Exchange interface {
	Name() string
	Version() string

	GetExchangeRate(ctx context.Context, opts ...Option) (*core.Envelope, error)
	GetLanguageList(ctx context.Context, opts ...Option) (*core.Envelope, error)
	ChangeLanguage(ctx context.Context, lang string, opts ...Option) (*core.Envelope, error)

	GetAccountInfo(ctx context.Context, opts ...Option) (*core.Envelope, error)
	GetInviteCount(ctx context.Context, opts ...Option) (*core.Envelope, error)
	GetPromotionRewardInfo(ctx context.Context, opts ...Option) (*core.Envelope, error)
	GetPromotionRewardSummary(ctx context.Context, opts ...Option) (*core.Envelope, error)

	GetDepositAddress(ctx context.Context, symbol string, opts ...Option) (*core.Envelope, error)
	CreateWithdrawal(ctx context.Context, req *WithdrawalRequest, opts ...Option) (*core.Envelope, error)
	CancelWithdrawal(ctx context.Context, id string, opts ...Option) (*core.Envelope, error)
	GetDepositHistory(ctx context.Context, symbol string, opts ...Option) (*core.Envelope, error)
	GetWithdrawalHistory(ctx context.Context, symbol string, opts ...Option) (*core.Envelope, error)
	GetBalance(ctx context.Context, symbol string, opts ...Option) (*core.Envelope, error)

	CreateOrder(ctx context.Context, req *OrderRequest, opts ...Option) (*core.Envelope, error)
	CancelOrder(ctx context.Context, req *CancelRequest, opts ...Option) (*core.Envelope, error)
	GetActiveOrders(ctx context.Context, symbol string, opts ...Option) (*core.Envelope, error)
	GetCompletedOrders(ctx context.Context, symbol string, opts ...Option) (*core.Envelope, error)
	GetRecentOrders(ctx context.Context, symbol string, opts ...Option) (*core.Envelope, error)

	GetTicker(ctx context.Context, symbol string, opts ...Option) (*core.Envelope, error)
	GetOrderBook(ctx context.Context, symbol string, opts ...Option) (*core.Envelope, error)
	GetTrending(ctx context.Context, opts ...Option) (*core.Envelope, error)
	GetSymbols(ctx context.Context, opts ...Option) (*core.Envelope, error)
	GetCoins(ctx context.Context, opts ...Option) (*core.Envelope, error)
}

var validate = validator.New()

// OrderRequest contains the parameters required to place a new order.
// Price is ignored for market orders.
type OrderRequest struct {
	Symbol        string      `validate:"required"`
	Side          string      `validate:"required,oneof=buy sell"`
	Type          string      `validate:"required,oneof=limit market"`
	Price         apd.Decimal `validate:"-"`
	Amount        apd.Decimal `validate:"-"`
	ClientOrderID string
}

// Validate checks the request before it is turned into parameters.
func (r *OrderRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if r.Type == "limit" && r.Price.Sign() <= 0 {
		return fmt.Errorf("limit order requires a positive price")
	}
	return nil
}

// Params maps the request to endpoint parameter names.
func (r *OrderRequest) Params() core.Params {
	params := core.Params{
		"symbol": r.Symbol,
		"side":   r.Side,
		"type":   r.Type,
		"amount": r.Amount.Text('f'),
	}
	if r.Type == "limit" {
		params["price"] = r.Price.Text('f')
	}
	if r.ClientOrderID != "" {
		params["client_order_id"] = r.ClientOrderID
	}
	return params
}

// CancelRequest identifies the order to cancel.
type CancelRequest struct {
	Symbol  string `validate:"required"`
	OrderID string `validate:"required"`
}

// Validate checks that both identifiers are present.
func (r *CancelRequest) Validate() error {
	return validate.Struct(r)
}

// Params maps the request to endpoint parameter names.
func (r *CancelRequest) Params() core.Params {
	return core.Params{
		"symbol":   r.Symbol,
		"order_id": r.OrderID,
	}
}

// WithdrawalRequest contains the parameters required to withdraw a coin.
type WithdrawalRequest struct {
	Symbol  string      `validate:"required"`
	Address string      `validate:"required"`
	Amount  apd.Decimal `validate:"-"`
	// Tag is the destination memo required by some chains.
	Tag string
}

// Validate checks the request before it is turned into parameters.
func (r *WithdrawalRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// Params maps the request to endpoint parameter names.
func (r *WithdrawalRequest) Params() core.Params {
	params := core.Params{
		"symbol":  r.Symbol,
		"address": r.Address,
		"amount":  r.Amount.Text('f'),
	}
	if r.Tag != "" {
		params["tag"] = r.Tag
	}
	return params
}
