package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"koinrest/pkg/core"
	"koinrest/pkg/exchange"
	"koinrest/pkg/exchange/koin"
)

var accountCommand = &cli.Command{
	Name:  "account",
	Usage: "show the account profile",
	Action: func(c *cli.Context) error {
		return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
			return client.GetAccountInfo(ctx)
		})
	},
}

var invitesCommand = &cli.Command{
	Name:  "invites",
	Usage: "show the number of invited users",
	Action: func(c *cli.Context) error {
		return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
			return client.GetInviteCount(ctx)
		})
	},
}

var rewardsCommand = &cli.Command{
	Name:  "rewards",
	Usage: "promotion rewards",
	Subcommands: []*cli.Command{
		{
			Name:  "info",
			Usage: "list promotion reward records",
			Flags: pagingFlags(),
			Action: func(c *cli.Context) error {
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.GetPromotionRewardInfo(ctx, pagingOptions(c)...)
				})
			},
		},
		{
			Name:  "summary",
			Usage: "show aggregated promotion rewards",
			Action: func(c *cli.Context) error {
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.GetPromotionRewardSummary(ctx)
				})
			},
		},
	},
}

var depositCommand = &cli.Command{
	Name:  "deposit",
	Usage: "deposit addresses and history",
	Subcommands: []*cli.Command{
		{
			Name:      "address",
			Usage:     "show the deposit address for a coin",
			ArgsUsage: "<symbol>",
			Flags:     []cli.Flag{symbolFlag},
			Action: func(c *cli.Context) error {
				symbol, err := requireSymbol(c)
				if err != nil {
					return err
				}
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.GetDepositAddress(ctx, symbol)
				})
			},
		},
		{
			Name:      "history",
			Usage:     "list deposits, optionally for one coin",
			ArgsUsage: "[symbol]",
			Flags:     withPaging(symbolFlag),
			Action: func(c *cli.Context) error {
				symbol := symbolArg(c)
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.GetDepositHistory(ctx, symbol, pagingOptions(c)...)
				})
			},
		},
	},
}

var withdrawCommand = &cli.Command{
	Name:  "withdraw",
	Usage: "create, cancel and list withdrawals",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "submit a withdrawal",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "symbol", Usage: "the coin to withdraw", Required: true},
				&cli.StringFlag{Name: "address", Usage: "destination address", Required: true},
				&cli.StringFlag{Name: "amount", Usage: "amount to withdraw", Required: true},
				&cli.StringFlag{Name: "tag", Usage: "destination memo or tag"},
			},
			Action: func(c *cli.Context) error {
				amount, err := parseDecimal("amount", c.String("amount"))
				if err != nil {
					return err
				}
				req := &exchange.WithdrawalRequest{
					Symbol:  c.String("symbol"),
					Address: c.String("address"),
					Amount:  amount,
					Tag:     c.String("tag"),
				}
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.CreateWithdrawal(ctx, req)
				})
			},
		},
		{
			Name:      "cancel",
			Usage:     "cancel a pending withdrawal",
			ArgsUsage: "<id>",
			Action: func(c *cli.Context) error {
				if c.NArg() == 0 {
					return cli.ShowSubcommandHelp(c)
				}
				id := c.Args().First()
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.CancelWithdrawal(ctx, id)
				})
			},
		},
		{
			Name:      "history",
			Usage:     "list withdrawals, optionally for one coin",
			ArgsUsage: "[symbol]",
			Flags:     withPaging(symbolFlag),
			Action: func(c *cli.Context) error {
				symbol := symbolArg(c)
				return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
					return client.GetWithdrawalHistory(ctx, symbol, pagingOptions(c)...)
				})
			},
		},
	},
}

var balanceCommand = &cli.Command{
	Name:      "balance",
	Usage:     "show balances, optionally for one coin",
	ArgsUsage: "[symbol]",
	Flags:     []cli.Flag{symbolFlag},
	Action: func(c *cli.Context) error {
		symbol := symbolArg(c)
		return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
			return client.GetBalance(ctx, symbol)
		})
	},
}
