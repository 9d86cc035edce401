package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"koinrest/pkg/core"
	"koinrest/pkg/exchange/koin"
)

var exchangeRateCommand = &cli.Command{
	Name:  "exchange-rate",
	Usage: "show fiat exchange rates",
	Action: func(c *cli.Context) error {
		return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
			return client.GetExchangeRate(ctx)
		})
	},
}

var languagesCommand = &cli.Command{
	Name:  "languages",
	Usage: "list supported languages",
	Action: func(c *cli.Context) error {
		return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
			return client.GetLanguageList(ctx)
		})
	},
}

var languageCommand = &cli.Command{
	Name:  "language",
	Usage: "manage the account language",
	Subcommands: []*cli.Command{
		{
			Name:      "set",
			Usage:     "change the account language",
			ArgsUsage: "<lang>",
			Action: func(c *cli.Context) error {
				if c.NArg() == 0 {
					return cli.ShowSubcommandHelp(c)
				}
				lang := c.Args().First()
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.ChangeLanguage(ctx, lang)
				})
			},
		},
	},
}

var tickerCommand = &cli.Command{
	Name:      "ticker",
	Usage:     "show the ticker for one market, or all markets",
	ArgsUsage: "[symbol]",
	Flags:     []cli.Flag{symbolFlag},
	Action: func(c *cli.Context) error {
		symbol := symbolArg(c)
		return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
			return client.GetTicker(ctx, symbol)
		})
	},
}

var orderBookCommand = &cli.Command{
	Name:      "orderbook",
	Usage:     "show order book depth for a market",
	ArgsUsage: "<symbol>",
	Flags:     withPaging(symbolFlag),
	Action: func(c *cli.Context) error {
		symbol, err := requireSymbol(c)
		if err != nil {
			return err
		}
		return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
			return client.GetOrderBook(ctx, symbol, pagingOptions(c)...)
		})
	},
}

var trendingCommand = &cli.Command{
	Name:  "trending",
	Usage: "list trending markets",
	Action: func(c *cli.Context) error {
		return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
			return client.GetTrending(ctx)
		})
	},
}

var symbolsCommand = &cli.Command{
	Name:  "symbols",
	Usage: "list tradable markets",
	Action: func(c *cli.Context) error {
		return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
			return client.GetSymbols(ctx)
		})
	},
}

var coinsCommand = &cli.Command{
	Name:  "coins",
	Usage: "list supported coins",
	Action: func(c *cli.Context) error {
		return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
			return client.GetCoins(ctx)
		})
	},
}
