package main

import (
	"github.com/urfave/cli/v3"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getSetupCommands()...)
	cmds = append(cmds, getKeyCommands()...)
	return cmds
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func aliasFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "alias",
		Aliases: []string{"a"},
		Usage:   "Key alias (defaults to KEY_ALIAS, then my_app_key)",
	}
}
