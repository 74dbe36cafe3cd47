package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/listo/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "listo",
		Usage: "A small, local task list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep tasks in memory only; nothing is written to disk",
			},
		},
		Commands: []*cli.Command{
			NewInitCommand(),
			NewAddCommand(),
			NewListCommand(),
			NewDoneCommand(),
			NewEditCommand(),
			NewRemoveCommand(),
			NewClearCommand(),
			NewStatsCommand(),
			NewThemeCommand(),
			NewExportCommand(),
			NewTUICommand(),
			NewServeCommand(),
			NewStatusCommand(),
			NewWatchCommand(),
			NewKeyCommand(),
		},
	}
}
