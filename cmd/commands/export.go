package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/listo/internal/export"
	"github.com/dohr-michael/listo/internal/tasks"
)

// NewExportCommand returns the export subcommand.
func NewExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the task list as json, yaml, csv, markdown or pdf",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "json, yaml, csv, markdown or pdf",
				Value: string(export.FormatJSON),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "all, active or completed",
				Value: string(tasks.FilterAll),
			},
			&cli.StringFlag{
				Name:  "search",
				Usage: "Only tasks containing this text (case-insensitive)",
			},
		},
		Action: runExport,
	}
}

func runExport(_ context.Context, cmd *cli.Command) error {
	format, err := export.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	filter, err := tasks.ParseFilter(cmd.String("filter"))
	if err != nil {
		return err
	}

	a, err := openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	list := a.tasks.Query(filter, cmd.String("search"))

	out := cmd.String("output")
	if out == "" {
		if format == export.FormatPDF && isTerminal(stdout(cmd)) {
			return fmt.Errorf("refusing to write pdf to a terminal: pass --output")
		}
		return export.Write(stdout(cmd), format, list, a.tasks.Stats())
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := export.Write(f, format, list, a.tasks.Stats()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("tasks exported", "format", format, "path", out, "count", len(list))
	return nil
}
