package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	wsclient "github.com/dohr-michael/listo/clients/ws"
	"github.com/dohr-michael/listo/internal/heartbeat"
)

// NewWatchCommand returns the watch subcommand.
func NewWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Follow task changes made through a running gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Gateway websocket URL (default: from the running gateway)",
			},
		},
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	url := cmd.String("url")
	if url == "" {
		status, hb, err := heartbeat.Check(heartbeatPath(), 2*heartbeat.DefaultInterval)
		if err != nil {
			return err
		}
		if status != heartbeat.StatusAlive {
			return errors.New("no running gateway: start one with `listo serve` or pass --url")
		}
		url = "ws://" + hb.Addr + "/api/ws"
	}

	client, err := wsclient.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer client.Close()

	w := stdout(cmd)
	fmt.Fprintf(w, "Watching %s\n", url)
	for {
		f, err := client.ReadFrame()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if f.Event == "" {
			continue
		}
		fmt.Fprintf(w, "%s  %-14s %s\n", time.Now().Format("15:04:05"), f.Event, f.Payload)
	}
}
