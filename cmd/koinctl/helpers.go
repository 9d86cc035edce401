package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/urfave/cli/v2"

	"koinrest/pkg/core"
	"koinrest/pkg/exchange"
)

var errInvalidParam = errors.New("parameter must be in key=value form")

// pagingFlags returns a new set of paging flags for each command.
func pagingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "maximum number of records",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "page number",
		},
		&cli.TimestampFlag{
			Name:   "start",
			Usage:  "start time (RFC3339)",
			Layout: time.RFC3339,
		},
		&cli.TimestampFlag{
			Name:   "end",
			Usage:  "end time (RFC3339)",
			Layout: time.RFC3339,
		},
	}
}

var symbolFlag = &cli.StringFlag{
	Name:  "symbol",
	Usage: "the market or coin symbol, e.g. btc_usdt",
}

// withPaging appends the paging flags to flags.
func withPaging(flags ...cli.Flag) []cli.Flag {
	out := make([]cli.Flag, 0, len(flags)+4)
	out = append(out, flags...)
	return append(out, pagingFlags()...)
}

// pagingOptions turns the paging flags that were set into request options.
func pagingOptions(c *cli.Context) []exchange.Option {
	var opts []exchange.Option
	if c.IsSet("limit") {
		opts = append(opts, exchange.WithLimit(c.Int("limit")))
	}
	if c.IsSet("page") {
		opts = append(opts, exchange.WithPage(c.Int("page")))
	}
	var start, end time.Time
	if ts := c.Timestamp("start"); ts != nil {
		start = *ts
	}
	if ts := c.Timestamp("end"); ts != nil {
		end = *ts
	}
	if !start.IsZero() || !end.IsZero() {
		opts = append(opts, exchange.WithTimeRange(start, end))
	}
	return opts
}

// symbolArg returns the --symbol flag, falling back to the first positional argument.
func symbolArg(c *cli.Context) string {
	if c.IsSet("symbol") {
		return c.String("symbol")
	}
	return c.Args().First()
}

func requireSymbol(c *cli.Context) (string, error) {
	s := symbolArg(c)
	if s == "" {
		return "", fmt.Errorf("symbol is required")
	}
	return s, nil
}

// parseParams converts key=value pairs into request parameters. Values are
// kept as strings; repeated keys overwrite earlier ones.
func parseParams(pairs []string) (core.Params, error) {
	params := make(core.Params, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidParam, p)
		}
		params[k] = v
	}
	return params, nil
}

func parseDecimal(name, s string) (apd.Decimal, error) {
	if s == "" {
		return apd.Decimal{}, nil
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return apd.Decimal{}, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return *d, nil
}
