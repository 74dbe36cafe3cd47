// Command task_flow exercises the task lifecycle against a running gateway via WS.
//
// It adds a task, toggles it, renames it and removes it again, checking that
// every call is answered and that the matching event is broadcast.
//
// Usage: task_flow -gateway ws://127.0.0.1:PORT/api/ws
//
// Exit codes:
//
//	0 = all checks passed
//	1 = a check failed
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	wsclient "github.com/dohr-michael/listo/clients/ws"
	"github.com/dohr-michael/listo/internal/events"
	wsprotocol "github.com/dohr-michael/listo/internal/gateway/ws"
	"github.com/dohr-michael/listo/internal/tasks"
)

func main() {
	gatewayURL := flag.String("gateway", "ws://127.0.0.1:18421/api/ws", "Gateway WS URL")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, *gatewayURL); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, gatewayURL string) error {
	client, err := wsclient.Dial(ctx, gatewayURL)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer client.Close()
	fmt.Println("CHECK connected")

	res, err := call(ctx, client, wsprotocol.MethodAddTask, wsprotocol.TaskParams{Text: "e2e task"}, events.EventTaskAdded)
	if err != nil {
		return err
	}
	var added struct {
		Task tasks.Task `json:"task"`
	}
	if err := json.Unmarshal(res.Payload, &added); err != nil || added.Task.ID == "" {
		return fmt.Errorf("add_task returned no task: %s", res.Payload)
	}
	id := added.Task.ID
	fmt.Printf("CHECK task added: %s\n", id)

	steps := []struct {
		method wsprotocol.Method
		params wsprotocol.TaskParams
		event  events.EventType
	}{
		{wsprotocol.MethodToggleTask, wsprotocol.TaskParams{ID: id}, events.EventTaskToggled},
		{wsprotocol.MethodEditTask, wsprotocol.TaskParams{ID: id, Text: "e2e task, renamed"}, events.EventTaskEdited},
		{wsprotocol.MethodRemoveTask, wsprotocol.TaskParams{ID: id}, events.EventTaskRemoved},
	}
	for _, s := range steps {
		if _, err := call(ctx, client, s.method, s.params, s.event); err != nil {
			return err
		}
		fmt.Printf("CHECK %s acknowledged with %s\n", s.method, s.event)
	}

	fmt.Println("CHECK all flow checks passed")
	return nil
}

// call sends a request and waits for both its response and the expected event.
func call(ctx context.Context, client *wsclient.Client, method wsprotocol.Method, params wsprotocol.TaskParams, want events.EventType) (wsprotocol.Frame, error) {
	id, err := client.Call(method, params)
	if err != nil {
		return wsprotocol.Frame{}, fmt.Errorf("%s: %w", method, err)
	}

	var res wsprotocol.Frame
	gotRes, gotEvent := false, false
	for !gotRes || !gotEvent {
		frame, err := client.ReadFrame()
		if err != nil {
			if ctx.Err() != nil {
				return res, fmt.Errorf("timeout waiting for %s", method)
			}
			return res, fmt.Errorf("read frame: %w", err)
		}

		switch {
		case frame.Type == wsprotocol.FrameTypeResponse && frame.ID == id:
			if frame.OK == nil || !*frame.OK {
				return frame, fmt.Errorf("%s failed: %s", method, frame.Error)
			}
			res, gotRes = frame, true
		case frame.Type == wsprotocol.FrameTypeEvent && events.EventType(frame.Event) == want:
			gotEvent = true
		}
	}
	return res, nil
}
