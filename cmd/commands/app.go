package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/dohr-michael/listo/internal/config"
	"github.com/dohr-michael/listo/internal/events"
	"github.com/dohr-michael/listo/internal/storage"
	"github.com/dohr-michael/listo/internal/tasks"
)

// app bundles what a command needs to work on the task list.
type app struct {
	cfg   *config.Config
	kv    storage.Store
	tasks *tasks.Store
}

// loadConfig reads the config named by --config and applies global flags.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if cmd.Bool("ephemeral") {
		cfg.Storage.Driver = config.DriverMemory
		cfg.Storage.Encrypt = false
	}
	setupLogging(cmd, cfg.Log.Level)
	return cfg, nil
}

// openApp loads config and opens storage. bus may be nil.
func openApp(cmd *cli.Command, bus *events.Bus) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	slog.Debug("storage opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path, "encrypt", cfg.Storage.Encrypt)

	var opts []tasks.Option
	if bus != nil {
		opts = append(opts, tasks.WithBus(bus))
	}
	store, err := tasks.Open(kv, opts...)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	return &app{cfg: cfg, kv: kv, tasks: store}, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		slog.Warn("close storage", "error", err)
	}
}

func setupLogging(cmd *cli.Command, level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if cmd.Bool("debug") {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// stdout and stdin resolve to the root command's streams so tests can swap them.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// isTerminal reports whether a stream is an interactive terminal.
var isTerminal = func(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// joinArgs joins the positional arguments from index i on.
func joinArgs(cmd *cli.Command, i int) string {
	args := cmd.Args().Slice()
	if i >= len(args) {
		return ""
	}
	return strings.Join(args[i:], " ")
}
