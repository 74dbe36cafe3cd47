package events

import (
	"sync"
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	var received []Event

	bus.Subscribe(func(e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	}, EventTaskAdded)

	bus.Publish(NewEvent(EventTaskAdded, map[string]any{"id": "task_1"}))
	bus.Publish(NewEvent(EventTaskToggled, map[string]any{"id": "task_1"}))

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Type != EventTaskAdded {
		t.Errorf("expected task.added, got %s", received[0].Type)
	}
	if received[0].Payload["id"] != "task_1" {
		t.Errorf("unexpected payload %v", received[0].Payload)
	}
}

func TestBusSubscribeAll(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	count := 0

	bus.Subscribe(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(NewEvent(EventTaskAdded, nil))
	bus.Publish(NewEvent(EventTasksCleared, nil))

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	count := 0

	unsub := bus.Subscribe(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	unsub()

	bus.Publish(NewEvent(EventTaskAdded, nil))
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("expected 0 events after unsubscribe, got %d", count)
	}
}

func TestBusSubscribeChanOrder(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	ch, unsub := bus.SubscribeChan(8)
	defer unsub()

	want := []EventType{EventTaskAdded, EventTaskEdited, EventTaskRemoved}
	for _, typ := range want {
		bus.Publish(NewEvent(typ, nil))
	}

	for i, typ := range want {
		select {
		case e := <-ch:
			if e.Type != typ {
				t.Errorf("event %d = %s, want %s", i, e.Type, typ)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(1)
	bus.Close()
	bus.Close() // idempotent

	// Must not panic or block.
	bus.Publish(NewEvent(EventTaskAdded, nil))
}

func TestNewEventIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		e := NewEvent(EventTaskAdded, nil)
		if seen[e.ID] {
			t.Fatalf("duplicate event id %s", e.ID)
		}
		seen[e.ID] = true
	}
}
