package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"koinrest/pkg/core"
	"koinrest/pkg/exchange"
	"koinrest/pkg/exchange/koin"
)

var orderCommand = &cli.Command{
	Name:      "order",
	Usage:     "place, cancel and list orders",
	ArgsUsage: "<command> <args>",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "place an order",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "symbol", Usage: "the market, e.g. btc_usdt", Required: true},
				&cli.StringFlag{Name: "side", Usage: "buy or sell", Required: true},
				&cli.StringFlag{Name: "type", Usage: "limit or market", Value: "limit"},
				&cli.StringFlag{Name: "price", Usage: "limit price"},
				&cli.StringFlag{Name: "amount", Usage: "order amount", Required: true},
				&cli.StringFlag{Name: "client-order-id", Usage: "caller supplied order id"},
			},
			Action: createOrder,
		},
		{
			Name:  "cancel",
			Usage: "cancel an open order",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "symbol", Usage: "the market", Required: true},
				&cli.StringFlag{Name: "id", Usage: "the order id", Required: true},
			},
			Action: func(c *cli.Context) error {
				req := &exchange.CancelRequest{
					Symbol:  c.String("symbol"),
					OrderID: c.String("id"),
				}
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.CancelOrder(ctx, req)
				})
			},
		},
		{
			Name:      "active",
			Usage:     "list open orders, optionally for one market",
			ArgsUsage: "[symbol]",
			Flags:     withPaging(symbolFlag),
			Action: func(c *cli.Context) error {
				symbol := symbolArg(c)
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.GetActiveOrders(ctx, symbol, pagingOptions(c)...)
				})
			},
		},
		{
			Name:      "completed",
			Usage:     "list finished orders, optionally for one market",
			ArgsUsage: "[symbol]",
			Flags:     withPaging(symbolFlag),
			Action: func(c *cli.Context) error {
				symbol := symbolArg(c)
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.GetCompletedOrders(ctx, symbol, pagingOptions(c)...)
				})
			},
		},
		{
			Name:      "recent",
			Usage:     "list recent public fills for a market",
			ArgsUsage: "<symbol>",
			Flags:     withPaging(symbolFlag),
			Action: func(c *cli.Context) error {
				symbol, err := requireSymbol(c)
				if err != nil {
					return err
				}
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.GetRecentOrders(ctx, symbol, pagingOptions(c)...)
				})
			},
		},
	},
}

func createOrder(c *cli.Context) error {
	price, err := parseDecimal("price", c.String("price"))
	if err != nil {
		return err
	}
	amount, err := parseDecimal("amount", c.String("amount"))
	if err != nil {
		return err
	}

	req := &exchange.OrderRequest{
		Symbol:        c.String("symbol"),
		Side:          c.String("side"),
		Type:          c.String("type"),
		Price:         price,
		Amount:        amount,
		ClientOrderID: c.String("client-order-id"),
	}

	return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
		return client.CreateOrder(ctx, req)
	})
}
