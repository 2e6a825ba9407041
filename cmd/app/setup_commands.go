package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/secretstore/cmd/app/commands"
	"github.com/allisson/secretstore/internal/app"
	"github.com/allisson/secretstore/internal/config"
)

func getSetupCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-kms-key",
			Usage: "Prepare and verify the KMS key that wraps stored keys (database backend)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kms-provider",
					Required: true,
					Usage:    "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "KMS key URI (generated for localsecrets when omitted)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg, app.WithLogOutput(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateKMSKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-age-identity",
			Usage: "Generate the age identity that encrypts key files (file backend)",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg, app.WithLogOutput(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateAgeIdentity(
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "hash-api-token",
			Usage: "Generate or hash the bearer token accepted by the API",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "token",
					Aliases: []string{"t"},
					Usage:   "Token to hash (a random token is generated when omitted)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg, app.WithLogOutput(os.Stderr))
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunHashAPIToken(
					container.TokenService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("token"),
					cmd.String("format"),
				)
			},
		},
	}
}
