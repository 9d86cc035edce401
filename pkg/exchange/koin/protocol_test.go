package koin

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koinrest/pkg/core"
)

var _ core.Protocol = (*Protocol)(nil)

func TestProtocol_Identity(t *testing.T) {
	p := NewProtocol()
	assert.Equal(t, "koin", p.Name())
	assert.Equal(t, "v1", p.Version())
	assert.Equal(t, "https://api.koinrest.io", p.BaseURL())
	assert.Equal(t, "/v1", p.PathPrefix())
}

func TestProtocol_SupportedOperations(t *testing.T) {
	p := NewProtocol()
	assert.Equal(t, core.Operations(), p.SupportedOperations())
}

func TestProtocol_BuildRequest_Table(t *testing.T) {
	p := NewProtocol()
	ctx := context.Background()

	tests := []struct {
		op     core.Operation
		params core.Params
		method string
		path   string
		signed bool
	}{
		{core.OpGetExchangeRate, nil, http.MethodGet, "/v1/common/open/exchange-rate", false},
		{core.OpGetLanguageList, nil, http.MethodGet, "/v1/common/open/languages", false},
		{core.OpChangeLanguage, core.Params{"lang": "en"}, http.MethodPost, "/v1/account/language", true},
		{core.OpGetAccountInfo, nil, http.MethodGet, "/v1/account/info", true},
		{core.OpGetInviteCount, nil, http.MethodGet, "/v1/account/invite/count", true},
		{core.OpGetPromotionRewardInfo, nil, http.MethodGet, "/v1/account/promotion/reward", true},
		{core.OpGetPromotionRewardSummary, nil, http.MethodGet, "/v1/account/promotion/reward/summary", true},
		{core.OpGetDepositAddress, core.Params{"symbol": "btc"}, http.MethodGet, "/v1/account/btc/deposit/address", true},
		{core.OpCreateWithdrawal, core.Params{"symbol": "btc", "address": "addr", "amount": "1"}, http.MethodPost, "/v1/account/btc/withdraw", true},
		{core.OpCancelWithdrawal, core.Params{"id": "42"}, http.MethodPost, "/v1/account/withdraw/42/cancel", true},
		{core.OpGetDepositHistory, nil, http.MethodGet, "/v1/account/deposit/history", true},
		{core.OpGetWithdrawalHistory, core.Params{"symbol": "eth"}, http.MethodGet, "/v1/account/eth/withdraw/history", true},
		{core.OpGetBalance, nil, http.MethodGet, "/v1/account/balance", true},
		{core.OpCreateOrder, core.Params{"symbol": "btc_usdt", "side": "buy", "type": "market", "amount": "1"}, http.MethodPost, "/v1/order/btc_usdt/create", true},
		{core.OpCancelOrder, core.Params{"symbol": "btc_usdt", "order_id": "7"}, http.MethodPost, "/v1/order/btc_usdt/cancel", true},
		{core.OpGetActiveOrders, nil, http.MethodGet, "/v1/order/active", true},
		{core.OpGetCompletedOrders, core.Params{"symbol": "btc_usdt"}, http.MethodGet, "/v1/order/btc_usdt/completed", true},
		{core.OpGetRecentOrders, core.Params{"symbol": "btc_usdt"}, http.MethodGet, "/v1/market/open/btc_usdt/orders/recent", false},
		{core.OpGetTicker, nil, http.MethodGet, "/v1/market/open/ticker", false},
		{core.OpGetOrderBook, core.Params{"symbol": "btc_usdt"}, http.MethodGet, "/v1/market/open/btc_usdt/orderbook", false},
		{core.OpGetTrending, nil, http.MethodGet, "/v1/market/open/trending", false},
		{core.OpGetSymbols, nil, http.MethodGet, "/v1/market/open/symbols", false},
		{core.OpGetCoins, nil, http.MethodGet, "/v1/market/open/coins", false},
	}

	require.Len(t, tests, len(core.Operations()))

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			req, err := p.BuildRequest(ctx, tt.op, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.signed, req.RequireAuth)
			assert.Equal(t, tt.signed, p.IsSigned(tt.op))
		})
	}
}

func TestProtocol_BuildRequest_OptionalSegment(t *testing.T) {
	p := NewProtocol()

	req, err := p.BuildRequest(context.Background(), core.OpGetTicker, core.Params{"symbol": ""})
	require.NoError(t, err)
	assert.Equal(t, "/v1/market/open/ticker", req.Path)
	assert.Empty(t, req.Query)

	req, err = p.BuildRequest(context.Background(), core.OpGetTicker, core.Params{"symbol": "btc_usdt"})
	require.NoError(t, err)
	assert.Equal(t, "/v1/market/open/btc_usdt/ticker", req.Path)
	assert.Empty(t, req.Query, "path parameters are consumed")
}

func TestProtocol_BuildRequest_PathEscape(t *testing.T) {
	p := NewProtocol()

	req, err := p.BuildRequest(context.Background(), core.OpGetOrderBook, core.Params{"symbol": "a/b"})
	require.NoError(t, err)
	assert.Equal(t, "/v1/market/open/a%2Fb/orderbook", req.Path)
}

func TestProtocol_BuildRequest_Renames(t *testing.T) {
	p := NewProtocol()
	ctx := context.Background()

	req, err := p.BuildRequest(ctx, core.OpCancelOrder, core.Params{"symbol": "btc_usdt", "order_id": "99"})
	require.NoError(t, err)
	assert.Equal(t, "id=99", req.CanonicalQuery())

	req, err = p.BuildRequest(ctx, core.OpCreateWithdrawal, core.Params{
		"symbol":  "xrp",
		"address": "rAddr",
		"amount":  "10",
		"tag":     "123",
	})
	require.NoError(t, err)
	assert.Equal(t, "address=rAddr&amount=10&memo=123", req.CanonicalQuery())

	req, err = p.BuildRequest(ctx, core.OpCreateOrder, core.Params{
		"symbol":          "btc_usdt",
		"side":            "buy",
		"type":            "limit",
		"amount":          "0.01",
		"price":           30000,
		"client_order_id": "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, "amount=0.01&clientOid=c1&price=30000&side=buy&type=limit", req.CanonicalQuery())
}

func TestProtocol_BuildRequest_RenameCollision(t *testing.T) {
	p := NewProtocol()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		req, err := p.BuildRequest(ctx, core.OpCancelOrder, core.Params{
			"symbol":   "btc_usdt",
			"order_id": "from-caller",
			"id":       "raw",
		})
		require.NoError(t, err)
		assert.Equal(t, "id=from-caller", req.CanonicalQuery())

		req, err = p.BuildRequest(ctx, core.OpCreateWithdrawal, core.Params{
			"symbol":  "xrp",
			"address": "rAddr",
			"amount":  "10",
			"tag":     "123",
			"memo":    "456",
		})
		require.NoError(t, err)
		assert.Equal(t, "address=rAddr&amount=10&memo=123", req.CanonicalQuery())
	}
}

func TestProtocol_BuildRequest_Errors(t *testing.T) {
	p := NewProtocol()
	ctx := context.Background()

	t.Run("unsupported operation", func(t *testing.T) {
		_, err := p.BuildRequest(ctx, core.Operation(999), nil)
		require.ErrorIs(t, err, core.ErrUnsupportedOperation)
	})

	t.Run("missing path parameter", func(t *testing.T) {
		_, err := p.BuildRequest(ctx, core.OpGetOrderBook, nil)
		require.ErrorIs(t, err, core.ErrMissingParameter)
		assert.Contains(t, err.Error(), "symbol")
	})

	t.Run("empty path parameter", func(t *testing.T) {
		_, err := p.BuildRequest(ctx, core.OpGetDepositAddress, core.Params{"symbol": ""})
		require.ErrorIs(t, err, core.ErrMissingParameter)
	})

	t.Run("missing query parameter", func(t *testing.T) {
		_, err := p.BuildRequest(ctx, core.OpCreateOrder, core.Params{"symbol": "btc_usdt", "side": "buy"})
		require.ErrorIs(t, err, core.ErrMissingParameter)
		_, ok := core.AsExchangeError(err)
		assert.False(t, ok)
	})

	t.Run("nil value counts as absent", func(t *testing.T) {
		_, err := p.BuildRequest(ctx, core.OpChangeLanguage, core.Params{"lang": nil})
		require.ErrorIs(t, err, core.ErrMissingParameter)
	})
}

func TestProtocol_SignRequest(t *testing.T) {
	p := NewProtocol()
	amount, _, err := apd.NewFromString("0.01")
	require.NoError(t, err)

	req, err := p.BuildRequest(context.Background(), core.OpCreateOrder, core.Params{
		"symbol": "btc_usdt",
		"side":   "buy",
		"type":   "limit",
		"amount": amount,
		"price":  30000,
	})
	require.NoError(t, err)

	creds := core.Credentials{APIKey: "my-api-key", SecretKey: "secret"}
	require.NoError(t, p.SignRequest(req, creds, 1700000000000))

	assert.Equal(t, "my-api-key", req.Headers[core.HeaderAPIKey])
	assert.Equal(t, "1700000000000", req.Headers[core.HeaderNonce])
	assert.Equal(t, "d899a373112358ba20cbd6e40dde3bdd6a326312a8d0d6818788abd807232a1a", req.Headers[core.HeaderSignature])
	assert.Equal(t, core.ContentTypeJSON, req.Headers[core.HeaderContentType])
}

func TestProtocol_SignRequest_NoCredentials(t *testing.T) {
	p := NewProtocol()
	req := core.NewRequest(http.MethodGet, "/v1/account/info")

	err := p.SignRequest(req, core.Credentials{}, 1)
	require.ErrorIs(t, err, core.ErrNoCredentials)
	assert.Empty(t, req.Headers)
}

func TestProtocol_ParseResponse(t *testing.T) {
	p := NewProtocol()

	t.Run("success", func(t *testing.T) {
		body := []byte(`{"success":true,"code":200,"msg":"ok","timestamp":1700000000000,"data":{"btc":"1.5"}}`)
		env, err := p.ParseResponse(http.StatusOK, body)
		require.NoError(t, err)
		assert.True(t, env.Success)
		assert.Equal(t, "200", env.Code.String())
		assert.Equal(t, "ok", env.Message)
		assert.Equal(t, int64(1700000000000), env.Timestamp)
		assert.JSONEq(t, `{"btc":"1.5"}`, string(env.Data))
	})

	t.Run("rejected", func(t *testing.T) {
		body := []byte(`{"success":false,"code":10003,"msg":"insufficient balance","timestamp":1}`)
		env, err := p.ParseResponse(http.StatusOK, body)
		require.Error(t, err)
		assert.Nil(t, env)

		exErr, ok := core.AsExchangeError(err)
		require.True(t, ok)
		assert.Equal(t, core.ErrorTypeRejected, exErr.Type)
		assert.Equal(t, "10003", exErr.Code)
		assert.Equal(t, "insufficient balance", exErr.Message)
		require.NotNil(t, exErr.Envelope)
		assert.False(t, exErr.Envelope.Success)
	})

	t.Run("non-2xx with envelope", func(t *testing.T) {
		body := []byte(`{"success":false,"code":"AUTH_FAILED","msg":"bad signature"}`)
		_, err := p.ParseResponse(http.StatusUnauthorized, body)
		exErr, ok := core.AsExchangeError(err)
		require.True(t, ok)
		assert.Equal(t, core.ErrorTypeRejected, exErr.Type)
		assert.Equal(t, http.StatusUnauthorized, exErr.StatusCode)
		assert.Equal(t, "AUTH_FAILED", exErr.Code)
	})

	t.Run("server error with successful envelope", func(t *testing.T) {
		env, err := p.ParseResponse(http.StatusInternalServerError, []byte(`{"success":true,"code":0}`))
		require.NoError(t, err)
		assert.True(t, env.Success)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := p.ParseResponse(http.StatusBadGateway, []byte("<html>bad gateway</html>"))
		require.True(t, core.IsTransportError(err))
		assert.True(t, core.IsErrorCode(err, core.ErrCodeMalformedBody))
		assert.NotNil(t, errors.Unwrap(err))
	})

	t.Run("json but not an envelope", func(t *testing.T) {
		_, err := p.ParseResponse(http.StatusOK, []byte(`{"foo":"bar"}`))
		require.True(t, core.IsTransportError(err))
		assert.True(t, core.IsErrorCode(err, core.ErrCodeMalformedBody))
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := p.ParseResponse(http.StatusOK, nil)
		require.True(t, core.IsTransportError(err))
	})
}
