package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dohr-michael/listo/internal/events"
	wsprotocol "github.com/dohr-michael/listo/internal/gateway/ws"
	"github.com/dohr-michael/listo/internal/storage/memstore"
	"github.com/dohr-michael/listo/internal/tasks"
)

func TestClientCallAndEvents(t *testing.T) {
	bus := events.NewBus(64)
	t.Cleanup(bus.Close)
	store, err := tasks.Open(memstore.New(), tasks.WithBus(bus))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	hub := wsprotocol.NewHub(bus, store)
	t.Cleanup(hub.Close)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	for i := 0; i < 200 && hub.ClientCount() == 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}

	id, err := client.Call(wsprotocol.MethodAddTask, wsprotocol.TaskParams{Text: "Buy milk"})
	if err != nil {
		t.Fatalf("call: %v", err)
	}

	var gotResponse, gotEvent bool
	for !gotResponse || !gotEvent {
		f, err := client.ReadFrame()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		switch {
		case f.Type == wsprotocol.FrameTypeResponse && f.ID == id:
			if f.OK == nil || !*f.OK {
				t.Fatalf("add failed: %s", f.Error)
			}
			gotResponse = true
		case f.Type == wsprotocol.FrameTypeEvent && f.Event == string(events.EventTaskAdded):
			gotEvent = true
		}
	}
	if store.Stats().Total != 1 {
		t.Errorf("expected 1 task, got %d", store.Stats().Total)
	}
}
