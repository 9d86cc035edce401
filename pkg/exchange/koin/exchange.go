package koin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"koinrest/internal/circuitbreaker"
	httpClient "koinrest/internal/http"
	"koinrest/internal/ratelimit"
	"koinrest/pkg/core"
	"koinrest/pkg/exchange"
)

// Client implements exchange.Exchange. It is safe for concurrent use: the
// credentials are read-only and every call builds its own request and nonce.
type Client struct {
	config         *core.Config
	credentials    *core.Credentials
	protocol       *Protocol
	httpClient     *httpClient.Client
	rateLimiter    *ratelimit.RateLimiter
	circuitBreaker *circuitbreaker.Breaker
	logger         zerolog.Logger
	now            func() time.Time

	mu     sync.RWMutex
	closed bool
}

var _ exchange.Exchange = (*Client)(nil)

// Option is a functional option for configuring the Client.
type Option func(*Options)

// Options holds configuration options for the Client.
type Options struct {
	Logger zerolog.Logger
}

// WithLogger returns an option that sets the logger for the client.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// New creates a Client from config. Credentials are optional; without them
// only unsigned endpoints can be called.
func New(config *core.Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.Logger.With().Str("exchange", "koin").Logger()
	if config.LogLevel != "" {
		level, err := zerolog.ParseLevel(config.LogLevel)
		if err != nil {
			level = zerolog.InfoLevel
		}
		logger = logger.Level(level)
	}

	protocol := NewProtocol()

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = protocol.BaseURL()
	}

	hc, err := httpClient.NewClient(&httpClient.Config{
		BaseURL:      baseURL,
		Timeout:      config.Timeout,
		MaxRetries:   config.MaxRetries,
		RetryWaitMin: config.RetryWaitMin,
		RetryWaitMax: config.RetryWaitMax,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	var rl *ratelimit.RateLimiter
	if config.RateLimitRequests > 0 {
		rl = ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod)
	}

	var cb *circuitbreaker.Breaker
	if config.CircuitBreakerEnabled {
		cb = circuitbreaker.New(circuitbreaker.Config{
			FailThreshold:    config.CircuitBreakerFailThreshold,
			SuccessThreshold: config.CircuitBreakerSuccessThreshold,
			Timeout:          config.CircuitBreakerTimeout,
		})
	}

	var creds *core.Credentials
	if config.Credentials != nil {
		c := *config.Credentials
		creds = &c
	}

	return &Client{
		config:         config,
		credentials:    creds,
		protocol:       protocol,
		httpClient:     hc,
		rateLimiter:    rl,
		circuitBreaker: cb,
		logger:         logger,
		now:            time.Now,
	}, nil
}

// Name returns the exchange identifier "koin".
func (c *Client) Name() string {
	return c.protocol.Name()
}

// Version returns the API version.
func (c *Client) Version() string {
	return c.protocol.Version()
}

// Close releases the HTTP client. Calls made after Close fail with core.ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.httpClient.Close()
}

// Dispatch issues method against the versioned path with params in the
// canonical query string, signing the request when signed is true.
//
// On success the full envelope is returned. Failures of the round trip are
// *core.ExchangeError values of type ErrorTypeTransport (the cause is
// available through errors.Unwrap) or ErrorTypeRejected (the envelope is
// attached). No retry is attempted.
func (c *Client) Dispatch(ctx context.Context, method, path string, signed bool, params core.Params) (*core.Envelope, error) {
	if path == "" {
		return nil, fmt.Errorf("empty request path")
	}
	req := core.NewRequest(method, c.protocol.PathPrefix()+path).
		SetQueryParams(params).
		SetRequireAuth(signed)
	return c.do(ctx, req)
}

// Call resolves op through the endpoint table and dispatches it.
func (c *Client) Call(ctx context.Context, op core.Operation, params core.Params) (*core.Envelope, error) {
	req, err := c.protocol.BuildRequest(ctx, op, params)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(ctx, req)
}

func (c *Client) call(ctx context.Context, op core.Operation, params core.Params, opts []exchange.Option) (*core.Envelope, error) {
	return c.Call(ctx, op, exchange.ApplyOptions(opts...).Params(params))
}

func (c *Client) do(ctx context.Context, req *core.Request) (*core.Envelope, error) {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return nil, core.ErrClientClosed
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.RequireAuth && c.credentials.IsEmpty() {
		return nil, fmt.Errorf("sign request: %w", core.ErrNoCredentials)
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, core.NewTransportError(c.Name(), 0, fmt.Errorf("rate limit: %w", err)).
				WithCode(core.ErrCodeRateLimitWait)
		}
	}

	if c.circuitBreaker != nil && !c.circuitBreaker.Allow() {
		return nil, core.NewTransportError(c.Name(), 0, core.ErrCircuitBreakerOpen).
			WithCode(core.ErrCodeCircuitBreaker)
	}

	// the nonce is taken after any throttling so it reflects the send time
	req.SetHeader(core.HeaderContentType, core.ContentTypeJSON)
	if req.RequireAuth {
		if err := c.protocol.SignRequest(req, *c.credentials, c.now().UnixMilli()); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	env, err := c.roundTrip(ctx, req)
	if c.circuitBreaker != nil {
		c.circuitBreaker.Record(!core.IsTransportError(err))
	}
	return env, err
}

func (c *Client) roundTrip(ctx context.Context, req *core.Request) (*core.Envelope, error) {
	resp, err := c.httpClient.Do(ctx, req.Method, req.URL(), httpClient.WithHeaders(req.Headers))
	if err != nil {
		code := core.ErrCodeNetwork
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			code = core.ErrCodeCanceled
		}
		c.logger.Warn().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("http request failed")
		return nil, core.NewTransportError(c.Name(), 0, err).WithCode(code)
	}

	env, err := c.protocol.ParseResponse(resp.StatusCode(), resp.Bytes())
	if err != nil {
		c.logger.Debug().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Int("status", resp.StatusCode()).
			Msg("call failed")
		return nil, err
	}

	return env, nil
}

// Metrics is a snapshot of the optional rate limiter and circuit breaker.
// Fields of a disabled subsystem stay zero.
type Metrics struct {
	RateLimitPermitted int64
	RateLimitAborted   int64

	CircuitState        string
	CircuitFailures     int
	CircuitRejected     int64
	CircuitStateChanges int64
}

// Metrics returns the current limiter and breaker counters.
func (c *Client) Metrics() Metrics {
	var m Metrics
	if c.rateLimiter != nil {
		rl := c.rateLimiter.Metrics()
		m.RateLimitPermitted = rl.Permitted
		m.RateLimitAborted = rl.Aborted
	}
	if c.circuitBreaker != nil {
		cb := c.circuitBreaker.Metrics()
		m.CircuitState = cb.CurrentState.String()
		m.CircuitFailures = cb.Failures
		m.CircuitRejected = cb.Rejected
		m.CircuitStateChanges = cb.StateChanges
	}
	return m
}

// ResetCircuitBreaker closes the circuit breaker. It is a no-op when the breaker is disabled.
func (c *Client) ResetCircuitBreaker() {
	if c.circuitBreaker != nil {
		c.circuitBreaker.Reset()
	}
}

// GetExchangeRate retrieves fiat exchange rates.
func (c *Client) GetExchangeRate(ctx context.Context, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetExchangeRate, nil, opts)
}

// GetLanguageList lists the languages the service supports.
func (c *Client) GetLanguageList(ctx context.Context, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetLanguageList, nil, opts)
}

// ChangeLanguage sets the account language.
func (c *Client) ChangeLanguage(ctx context.Context, lang string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpChangeLanguage, core.Params{"lang": lang}, opts)
}

// GetAccountInfo retrieves the account profile.
func (c *Client) GetAccountInfo(ctx context.Context, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetAccountInfo, nil, opts)
}

// GetInviteCount retrieves the number of users the account has invited.
func (c *Client) GetInviteCount(ctx context.Context, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetInviteCount, nil, opts)
}

// GetPromotionRewardInfo lists promotion reward records.
func (c *Client) GetPromotionRewardInfo(ctx context.Context, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetPromotionRewardInfo, nil, opts)
}

// GetPromotionRewardSummary retrieves aggregated promotion rewards.
func (c *Client) GetPromotionRewardSummary(ctx context.Context, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetPromotionRewardSummary, nil, opts)
}

// GetDepositAddress retrieves the deposit address for symbol.
func (c *Client) GetDepositAddress(ctx context.Context, symbol string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetDepositAddress, core.Params{"symbol": symbol}, opts)
}

// CreateWithdrawal validates req and submits the withdrawal.
func (c *Client) CreateWithdrawal(ctx context.Context, req *exchange.WithdrawalRequest, opts ...exchange.Option) (*core.Envelope, error) {
	if req == nil {
		return nil, fmt.Errorf("withdrawal request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate withdrawal: %w", err)
	}
	return c.call(ctx, core.OpCreateWithdrawal, req.Params(), opts)
}

// CancelWithdrawal cancels a pending withdrawal by id.
func (c *Client) CancelWithdrawal(ctx context.Context, id string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpCancelWithdrawal, core.Params{"id": id}, opts)
}

// GetDepositHistory lists deposits; an empty symbol lists all coins.
func (c *Client) GetDepositHistory(ctx context.Context, symbol string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetDepositHistory, core.Params{"symbol": symbol}, opts)
}

// GetWithdrawalHistory lists withdrawals; an empty symbol lists all coins.
func (c *Client) GetWithdrawalHistory(ctx context.Context, symbol string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetWithdrawalHistory, core.Params{"symbol": symbol}, opts)
}

// GetBalance retrieves balances; an empty symbol returns every coin.
func (c *Client) GetBalance(ctx context.Context, symbol string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetBalance, core.Params{"symbol": symbol}, opts)
}

// CreateOrder validates req and places the order.
func (c *Client) CreateOrder(ctx context.Context, req *exchange.OrderRequest, opts ...exchange.Option) (*core.Envelope, error) {
	if req == nil {
		return nil, fmt.Errorf("order request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate order: %w", err)
	}
	return c.call(ctx, core.OpCreateOrder, req.Params(), opts)
}

// CancelOrder cancels an open order.
func (c *Client) CancelOrder(ctx context.Context, req *exchange.CancelRequest, opts ...exchange.Option) (*core.Envelope, error) {
	if req == nil {
		return nil, fmt.Errorf("cancel request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate cancel: %w", err)
	}
	return c.call(ctx, core.OpCancelOrder, req.Params(), opts)
}

// GetActiveOrders lists the account's open orders, optionally for one market.
func (c *Client) GetActiveOrders(ctx context.Context, symbol string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetActiveOrders, core.Params{"symbol": symbol}, opts)
}

// GetCompletedOrders lists the account's finished orders, optionally for one market.
func (c *Client) GetCompletedOrders(ctx context.Context, symbol string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetCompletedOrders, core.Params{"symbol": symbol}, opts)
}

// GetRecentOrders lists recent public fills for a market. It is not signed.
func (c *Client) GetRecentOrders(ctx context.Context, symbol string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetRecentOrders, core.Params{"symbol": symbol}, opts)
}

// GetTicker retrieves the ticker for symbol, or for every market when symbol is empty.
func (c *Client) GetTicker(ctx context.Context, symbol string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetTicker, core.Params{"symbol": symbol}, opts)
}

// GetOrderBook retrieves order book depth for a market.
func (c *Client) GetOrderBook(ctx context.Context, symbol string, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetOrderBook, core.Params{"symbol": symbol}, opts)
}

// GetTrending lists trending markets.
func (c *Client) GetTrending(ctx context.Context, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetTrending, nil, opts)
}

// GetSymbols lists tradable markets.
func (c *Client) GetSymbols(ctx context.Context, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetSymbols, nil, opts)
}

// GetCoins lists supported coins.
func (c *Client) GetCoins(ctx context.Context, opts ...exchange.Option) (*core.Envelope, error) {
	return c.call(ctx, core.OpGetCoins, nil, opts)
}
