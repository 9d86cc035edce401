package main

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"koinrest/pkg/core"
	"koinrest/pkg/exchange"
)

func TestParseParams(t *testing.T) {
	t.Parallel()

	params, err := parseParams([]string{"symbol=btc_usdt", "limit=10", "memo=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, core.Params{
		"symbol": "btc_usdt",
		"limit":  "10",
		"memo":   "a=b",
		"empty":  "",
	}, params)
	assert.Equal(t, "empty=&limit=10&memo=a=b&symbol=btc_usdt", params.Canonical())

	params, err = parseParams(nil)
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = parseParams([]string{"novalue"})
	require.ErrorIs(t, err, errInvalidParam)

	_, err = parseParams([]string{"=x"})
	require.ErrorIs(t, err, errInvalidParam)
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	d, err := parseDecimal("amount", "0.00012300")
	require.NoError(t, err)
	assert.Equal(t, "0.00012300", d.Text('f'))

	d, err = parseDecimal("price", "")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Sign())

	_, err = parseDecimal("amount", "abc")
	require.Error(t, err)
}

func newContext(t *testing.T, flags []cli.Flag, args []string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestPagingOptions(t *testing.T) {
	c := newContext(t, withPaging(symbolFlag), []string{
		"--limit", "20",
		"--page", "3",
		"--start", "2023-11-14T22:13:20Z",
	})

	params := exchange.ApplyOptions(pagingOptions(c)...).Params(nil)
	assert.Equal(t, 20, params["limit"])
	assert.Equal(t, 3, params["page"])
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC).UnixMilli(), params["start"])
	assert.NotContains(t, params, "end")
}

func TestPagingOptions_None(t *testing.T) {
	c := newContext(t, withPaging(symbolFlag), nil)
	assert.Empty(t, pagingOptions(c))
}

func TestSymbolArg(t *testing.T) {
	c := newContext(t, []cli.Flag{symbolFlag}, []string{"--symbol", "eth_usdt", "ignored"})
	assert.Equal(t, "eth_usdt", symbolArg(c))

	c = newContext(t, []cli.Flag{symbolFlag}, []string{"btc_usdt"})
	assert.Equal(t, "btc_usdt", symbolArg(c))

	c = newContext(t, []cli.Flag{symbolFlag}, nil)
	_, err := requireSymbol(c)
	require.Error(t, err)
}
