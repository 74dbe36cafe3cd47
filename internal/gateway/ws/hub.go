// Package ws pushes task events to browser clients and accepts task
// requests over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/dohr-michael/listo/internal/events"
	"github.com/dohr-michael/listo/internal/tasks"
)

// TaskStore is the subset of the task store reachable over WebSocket.
type TaskStore interface {
	Add(rawText string) (*tasks.Task, error)
	Toggle(id string) error
	Edit(id, newText string) error
	Remove(id string) error
	ClearCompleted() (int, error)
	Query(filter tasks.Filter, search string) []tasks.Task
	Stats() tasks.Stats
}

// Client represents a connected WebSocket client.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub manages WebSocket clients and bridges them to the event bus.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]struct{}
	store       TaskStore
	unsubscribe func()
}

// NewHub creates a hub that forwards every bus event to all clients.
func NewHub(bus *events.Bus, store TaskStore) *Hub {
	h := &Hub{
		clients: make(map[*Client]struct{}),
		store:   store,
	}

	h.unsubscribe = bus.Subscribe(func(e events.Event) {
		frame, err := NewEventFrame(string(e.Type), e.Payload)
		if err != nil {
			slog.Error("marshal event frame", "error", err)
			return
		}
		data, err := MarshalFrame(frame)
		if err != nil {
			slog.Error("marshal frame", "error", err)
			return
		}
		h.broadcast(data)
	})

	return h
}

// broadcast sends data to all connected clients.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	slog.Debug("ws client connected", "clients", len(h.clients))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		slog.Debug("ws client disconnected", "clients", len(h.clients))
	}
}

// ServeWS handles a WebSocket upgrade and manages the client lifecycle.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Error("ws accept", "error", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 64),
		hub:  h,
	}

	h.register(client)

	ctx := r.Context()
	go client.writePump(ctx)
	client.readPump(ctx)
}

// readPump reads frames from the WS connection and dispatches them.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("ws read closed", "status", websocket.CloseStatus(err))
			} else {
				slog.Debug("ws read error", "error", err)
			}
			return
		}

		frame, err := UnmarshalFrame(data)
		if err != nil {
			c.sendError("", "malformed frame")
			continue
		}
		if frame.Type != FrameTypeRequest {
			slog.Debug("ws unknown frame type", "type", frame.Type)
			continue
		}
		c.handleRequest(frame)
	}
}

// handleRequest dispatches a request frame to the task store.
func (c *Client) handleRequest(frame Frame) {
	var params TaskParams
	if len(frame.Params) > 0 {
		if err := json.Unmarshal(frame.Params, &params); err != nil {
			c.sendError(frame.ID, "invalid params")
			return
		}
	}

	store := c.hub.store
	switch frame.Method {
	case MethodListTasks:
		filter, err := tasks.ParseFilter(params.Filter)
		if err != nil {
			c.sendError(frame.ID, err.Error())
			return
		}
		c.sendOK(frame.ID, map[string]any{
			"tasks": store.Query(filter, params.Search),
			"stats": store.Stats(),
		})

	case MethodAddTask:
		task, err := store.Add(params.Text)
		if err != nil {
			c.sendError(frame.ID, err.Error())
			return
		}
		c.sendOK(frame.ID, map[string]any{"task": task})

	case MethodToggleTask:
		c.reply(frame.ID, store.Toggle(params.ID))

	case MethodEditTask:
		c.reply(frame.ID, store.Edit(params.ID, params.Text))

	case MethodRemoveTask:
		c.reply(frame.ID, store.Remove(params.ID))

	case MethodClearCompleted:
		n, err := store.ClearCompleted()
		if err != nil {
			c.sendError(frame.ID, err.Error())
			return
		}
		c.sendOK(frame.ID, map[string]any{"removed": n})

	default:
		c.sendError(frame.ID, "unknown method: "+string(frame.Method))
	}
}

func (c *Client) reply(id string, err error) {
	if err != nil {
		c.sendError(id, err.Error())
		return
	}
	c.sendOK(id, map[string]any{"stats": c.hub.store.Stats()})
}

// writePump writes queued messages to the WS connection.
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) sendOK(id string, payload any) {
	c.enqueue(NewResponseFrame(id, true, payload, ""))
}

func (c *Client) sendError(id string, errMsg string) {
	c.enqueue(NewResponseFrame(id, false, nil, errMsg))
}

func (c *Client) enqueue(f Frame, err error) {
	if err != nil {
		slog.Error("build ws response", "error", err)
		return
	}
	data, err := MarshalFrame(f)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Close shuts down the hub and all client connections.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutdown")
		delete(h.clients, c)
	}
}
