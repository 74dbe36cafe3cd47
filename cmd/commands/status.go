package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/listo/internal/heartbeat"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show whether the web gateway is running",
		Action: func(_ context.Context, cmd *cli.Command) error {
			status, hb, err := heartbeat.Check(heartbeatPath(), 2*heartbeat.DefaultInterval)
			if err != nil {
				return fmt.Errorf("check heartbeat: %w", err)
			}

			w := stdout(cmd)
			switch status {
			case heartbeat.StatusAlive:
				fmt.Fprintf(w, "Gateway: ALIVE on http://%s (PID %d, uptime %s)\n", hb.Addr, hb.PID, hb.Uptime())
			case heartbeat.StatusStale:
				fmt.Fprintf(w, "Gateway: STALE (PID %d, last heartbeat %s ago)\n",
					hb.PID, time.Since(hb.Timestamp).Truncate(time.Second))
			case heartbeat.StatusDead:
				fmt.Fprintln(w, "Gateway: NOT RUNNING")
			}
			return nil
		},
	}
}
