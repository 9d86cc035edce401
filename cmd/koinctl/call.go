package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"koinrest/pkg/core"
	"koinrest/pkg/exchange/koin"
)

var callCommand = &cli.Command{
	Name:      "call",
	Usage:     "issue a raw request against any path below /v1",
	ArgsUsage: "<GET|POST> <path>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "signed",
			Usage: "sign the request with the configured credentials",
		},
		&cli.StringSliceFlag{
			Name:    "param",
			Aliases: []string{"p"},
			Usage:   "query parameter as key=value, may be repeated",
		},
	},
	Action: rawCall,
}

func rawCall(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.ShowSubcommandHelp(c)
	}

	method := strings.ToUpper(c.Args().Get(0))
	path := c.Args().Get(1)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	params, err := parseParams(c.StringSlice("param"))
	if err != nil {
		return fmt.Errorf("call: %w", err)
	}

	signed := c.Bool("signed")
	return run(c, func(ctx context.Context, client *koin.Client) (*core.Envelope, error) {
		return client.Dispatch(ctx, method, path, signed, params)
	})
}
