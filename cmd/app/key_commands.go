package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/secretstore/cmd/app/commands"
	"github.com/allisson/secretstore/internal/app"
	"github.com/allisson/secretstore/internal/config"
	"github.com/allisson/secretstore/internal/keystore/domain"
)

// resolveAlias picks the --alias flag, then KEY_ALIAS, then the default alias.
func resolveAlias(cmd *cli.Command, cfg *config.Config) string {
	if alias := cmd.String("alias"); alias != "" {
		return alias
	}
	if cfg.KeyAlias != "" {
		return cfg.KeyAlias
	}
	return domain.DefaultAlias
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt",
			Usage: "Encrypt text with a named key, creating the key on first use",
			Flags: []cli.Flag{
				aliasFlag(),
				&cli.StringFlag{
					Name:     "plaintext",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Text to encrypt ('-' reads standard input)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg, app.WithLogOutput(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecretStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunEncrypt(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO(),
					resolveAlias(cmd, cfg),
					cmd.String("plaintext"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt a ciphertext and nonce produced by encrypt",
			Flags: []cli.Flag{
				aliasFlag(),
				&cli.StringFlag{
					Name:    "ciphertext",
					Aliases: []string{"c"},
					Usage:   "Base64 ciphertext (omit both flags to read encrypt's JSON from standard input)",
				},
				&cli.StringFlag{
					Name:    "nonce",
					Aliases: []string{"n"},
					Usage:   "Base64 nonce",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg, app.WithLogOutput(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecretStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunDecrypt(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO(),
					resolveAlias(cmd, cfg),
					cmd.String("ciphertext"),
					cmd.String("nonce"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "key-status",
			Usage: "Show whether a key is stored under an alias",
			Flags: []cli.Flag{aliasFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg, app.WithLogOutput(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecretStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunKeyStatus(
					ctx,
					store,
					commands.DefaultIO().Writer,
					resolveAlias(cmd, cfg),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "clear-key",
			Usage: "Delete the key stored under an alias (its ciphertexts become undecryptable)",
			Flags: []cli.Flag{aliasFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg, app.WithLogOutput(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecretStore(ctx)
				if err != nil {
					return err
				}

				return commands.RunClearKey(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					resolveAlias(cmd, cfg),
					cmd.String("format"),
				)
			},
		},
	}
}
