package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/listo/internal/config"
	"github.com/dohr-michael/listo/internal/events"
	"github.com/dohr-michael/listo/internal/gateway"
	"github.com/dohr-michael/listo/internal/heartbeat"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"gateway"},
		Usage:   "Serve the task list in the browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	bus := events.NewBus(256)
	defer bus.Close()

	a, err := openApp(cmd, bus)
	if err != nil {
		return err
	}
	defer a.Close()

	// CLI flags override config
	if cmd.IsSet("host") {
		a.cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		a.cfg.Server.Port = cmd.Int("port")
	}

	bus.Subscribe(func(e events.Event) {
		slog.Debug("event", "type", e.Type, "payload", e.Payload)
	})

	server := gateway.NewServer(a.tasks, a.kv, bus, a.cfg.Server.Host, a.cfg.Server.Port)

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	hb := heartbeat.NewWriter(heartbeatPath(), addr, heartbeat.DefaultInterval)
	if err := hb.Start(); err != nil {
		slog.Warn("heartbeat disabled", "error", err)
	}
	defer hb.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func heartbeatPath() string {
	return filepath.Join(config.ListoPath(), heartbeat.FileName)
}
