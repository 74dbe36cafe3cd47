package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/listo/clients/tui"
)

// NewTUICommand returns the tui subcommand.
func NewTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive TUI",
		Action: func(_ context.Context, cmd *cli.Command) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(a.tasks, a.kv)
		},
	}
}
