package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/listo/internal/theme"
)

// NewThemeCommand returns the theme subcommand.
func NewThemeCommand() *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "Show or change the display theme",
		ArgsUsage: "[toggle|light|dark]",
		Action:    runTheme,
	}
}

func runTheme(_ context.Context, cmd *cli.Command) error {
	a, err := openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	var th theme.Theme
	switch arg := cmd.Args().First(); arg {
	case "":
		th, err = theme.Load(a.kv)
	case "toggle":
		th, err = theme.Toggle(a.kv)
	default:
		th, err = theme.Parse(arg)
		if err == nil {
			err = theme.Save(a.kv, th)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout(cmd), th)
	return nil
}
