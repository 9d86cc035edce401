package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"koinrest/pkg/core"
	"koinrest/pkg/exchange/koin"
)

var app *cli.App

func init() {
	app = &cli.App{
		Name:                 filepath.Base(os.Args[0]),
		Usage:                "command line client for the Koin REST API",
		Version:              "0.1.0",
		EnableBashCompletion: true,
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for signed endpoints",
			EnvVars: []string{"KOIN_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "api-secret",
			Usage:   "API secret for signed endpoints",
			EnvVars: []string{"KOIN_API_SECRET"},
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "override the API host",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: 10 * time.Second,
			Usage: "HTTP timeout per request",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "warn",
			Usage: "log level (trace, debug, info, warn, error, disabled)",
		},
	}

	app.Commands = []*cli.Command{
		exchangeRateCommand,
		languagesCommand,
		languageCommand,
		accountCommand,
		invitesCommand,
		rewardsCommand,
		depositCommand,
		withdrawCommand,
		balanceCommand,
		orderCommand,
		tickerCommand,
		orderBookCommand,
		trendingCommand,
		symbolsCommand,
		coinsCommand,
		callCommand,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	if err := app.RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupClient builds a client from the global flags. Credentials are only
// attached when both halves are present.
func setupClient(c *cli.Context) (*koin.Client, error) {
	config := core.DefaultConfig().WithTimeout(c.Duration("timeout"))
	config.BaseURL = c.String("base-url")
	config.LogLevel = c.String("log-level")

	key, secret := c.String("api-key"), c.String("api-secret")
	if key != "" && secret != "" {
		config.WithCredentials(&core.Credentials{APIKey: key, SecretKey: secret})
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return koin.New(config, koin.WithLogger(logger))
}

// run executes fn against a fresh client and prints the resulting envelope.
// A rejected call prints the envelope it carried and returns the error.
func run(c *cli.Context, fn func(ctx context.Context, client *koin.Client) (*core.Envelope, error)) error {
	client, err := setupClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	env, err := fn(c.Context, client)
	if err != nil {
		if exErr, ok := core.AsExchangeError(err); ok && exErr.Envelope != nil {
			jsonOutput(exErr.Envelope)
		}
		return err
	}
	jsonOutput(env)
	return nil
}

func jsonOutput(in any) {
	j, err := sonic.ConfigStd.MarshalIndent(in, "", "  ")
	if err != nil {
		return
	}
	fmt.Println(string(j))
}
