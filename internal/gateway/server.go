// Package gateway serves the task list as a local web page and JSON API.
package gateway

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dohr-michael/listo/internal/events"
	"github.com/dohr-michael/listo/internal/gateway/ws"
	"github.com/dohr-michael/listo/internal/tasks"
	"github.com/dohr-michael/listo/internal/theme"
)

// Server is the listo web gateway.
type Server struct {
	httpServer *http.Server
	hub        *ws.Hub
	bus        *events.Bus
	store      *tasks.Store
	prefs      theme.KV
	page       *template.Template
}

// NewServer creates a gateway over store. prefs holds the theme preference.
func NewServer(store *tasks.Store, prefs theme.KV, bus *events.Bus, host string, port int) *Server {
	s := &Server{
		hub:   ws.NewHub(bus, store),
		bus:   bus,
		store: store,
		prefs: prefs,
		page:  template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(sameOrigin)

	// Page + form posts
	r.Get("/", s.handleIndex)
	r.Post("/tasks", s.handleFormAdd)
	r.Post("/tasks/clear-completed", s.handleFormClear)
	r.Post("/tasks/{id}/toggle", s.handleFormToggle)
	r.Post("/tasks/{id}/edit", s.handleFormEdit)
	r.Post("/tasks/{id}/delete", s.handleFormDelete)
	r.Post("/theme/toggle", s.handleFormTheme)

	// API
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/ws", s.hub.ServeWS)
		r.Get("/tasks", s.handleListTasks)
		r.Post("/tasks", s.handleAddTask)
		r.Post("/tasks/clear-completed", s.handleClearCompleted)
		r.Post("/tasks/{id}/toggle", s.handleToggleTask)
		r.Put("/tasks/{id}", s.handleEditTask)
		r.Delete("/tasks/{id}", s.handleRemoveTask)
		r.Get("/stats", s.handleStats)
		r.Get("/theme", s.handleGetTheme)
		r.Post("/theme/toggle", s.handleToggleTheme)
	})

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: r,
	}

	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening. It blocks until the server is stopped.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	slog.Info("listo gateway listening", "addr", "http://"+ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}
