package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/listo/internal/export"
	"github.com/dohr-michael/listo/internal/tasks"
	"github.com/dohr-michael/listo/internal/theme"
)

// NewAddCommand returns the add subcommand.
func NewAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		ArgsUsage: "<text...>",
		Action:    runAdd,
	}
}

func runAdd(_ context.Context, cmd *cli.Command) error {
	a, err := openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.tasks.Add(joinArgs(cmd, 0))
	if err != nil {
		return err
	}
	if t == nil {
		fmt.Fprintln(stdout(cmd), "Nothing to add.")
		return nil
	}
	fmt.Fprintln(stdout(cmd), t.ID)
	return nil
}

// NewListCommand returns the list subcommand.
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "all, active or completed",
				Value:   string(tasks.FilterAll),
			},
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "Only tasks containing this text (case-insensitive)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "table, markdown or json",
				Value: "table",
			},
		},
		Action: runList,
	}
}

func runList(_ context.Context, cmd *cli.Command) error {
	filter, err := tasks.ParseFilter(cmd.String("filter"))
	if err != nil {
		return err
	}

	a, err := openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	search := cmd.String("search")
	list := a.tasks.Query(filter, search)
	stats := a.tasks.Stats()
	w := stdout(cmd)

	switch cmd.String("format") {
	case "json":
		return export.Write(w, export.FormatJSON, list, stats)
	case "markdown", "md":
		return printMarkdown(cmd, a, export.Markdown(list, stats))
	case "table":
	default:
		return fmt.Errorf("unknown list format %q", cmd.String("format"))
	}

	if len(list) == 0 {
		if search != "" {
			fmt.Fprintln(w, "No tasks found.")
		} else {
			fmt.Fprintln(w, "No tasks.")
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tCREATED\tTEXT")
	for _, t := range list {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(tw, "%s\t[%s]\t%s\t%s\n",
			t.ID,
			done,
			t.CreatedAt.Local().Format("2006-01-02 15:04"),
			tasks.Display(t.Text),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", stats)
	return nil
}

// printMarkdown renders markdown with glamour on a terminal and prints it raw otherwise.
func printMarkdown(cmd *cli.Command, a *app, md string) error {
	w := stdout(cmd)
	if !isTerminal(w) {
		_, err := fmt.Fprint(w, md)
		return err
	}

	th, err := theme.Load(a.kv)
	if err != nil {
		th = theme.Default
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(th)),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// NewDoneCommand returns the done subcommand.
func NewDoneCommand() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Aliases:   []string{"toggle"},
		Usage:     "Toggle the completion of tasks",
		ArgsUsage: "<id...>",
		Action:    runDone,
	}
}

func runDone(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return errors.New("usage: listo done <id...>")
	}

	a, err := openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	w := stdout(cmd)
	for _, id := range cmd.Args().Slice() {
		if _, ok := a.tasks.Get(id); !ok {
			fmt.Fprintf(w, "No task %s.\n", id)
			continue
		}
		if err := a.tasks.Toggle(id); err != nil {
			return err
		}
		t, _ := a.tasks.Get(id)
		state := "active"
		if t.Completed {
			state = "completed"
		}
		fmt.Fprintf(w, "%s is now %s.\n", id, state)
	}
	return nil
}

// NewEditCommand returns the edit subcommand.
func NewEditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Replace the text of a task",
		ArgsUsage: "<id> <text...>",
		Action:    runEdit,
	}
}

func runEdit(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return errors.New("usage: listo edit <id> <text...>")
	}
	id := cmd.Args().First()
	text := joinArgs(cmd, 1)

	a, err := openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	w := stdout(cmd)
	if _, ok := a.tasks.Get(id); !ok {
		fmt.Fprintf(w, "No task %s.\n", id)
		return nil
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(w, "Empty text, task left unchanged.")
		return nil
	}
	if err := a.tasks.Edit(id, text); err != nil {
		return err
	}
	fmt.Fprintf(w, "Updated %s.\n", id)
	return nil
}

// NewRemoveCommand returns the rm subcommand.
func NewRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Aliases:   []string{"delete"},
		Usage:     "Delete a task",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Do not ask for confirmation",
			},
		},
		Action: runRemove,
	}
}

func runRemove(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("usage: listo rm <id>")
	}
	id := cmd.Args().First()

	a, err := openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	w := stdout(cmd)
	t, ok := a.tasks.Get(id)
	if !ok {
		fmt.Fprintf(w, "No task %s.\n", id)
		return nil
	}

	if !cmd.Bool("yes") {
		in := stdin(cmd)
		if !isTerminal(in) {
			return errors.New("refusing to delete without confirmation: pass --yes")
		}
		fmt.Fprintf(w, "Delete task %q? [y/N] ", tasks.Display(t.Text))
		answer, _ := bufio.NewReader(in).ReadString('\n')
		if ans := strings.ToLower(strings.TrimSpace(answer)); ans != "y" && ans != "yes" {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if err := a.tasks.Remove(id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted %s.\n", id)
	return nil
}

// NewClearCommand returns the clear subcommand.
func NewClearCommand() *cli.Command {
	return &cli.Command{
		Name:   "clear",
		Usage:  "Delete every completed task",
		Action: runClear,
	}
}

func runClear(_ context.Context, cmd *cli.Command) error {
	a, err := openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.tasks.ClearCompleted()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout(cmd), "Removed %d completed %s.\n", n, plural(n, "task", "tasks"))
	return nil
}

// NewStatsCommand returns the stats subcommand.
func NewStatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show task counters",
		Action: func(_ context.Context, cmd *cli.Command) error {
			a, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(stdout(cmd), a.tasks.Stats())
			return nil
		},
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
