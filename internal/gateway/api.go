package gateway

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dohr-michael/listo/internal/tasks"
	"github.com/dohr-michael/listo/internal/theme"
)

type textRequest struct {
	Text string `json:"text"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "Content-Type must be application/json"})
		return "", false
	}
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return "", false
	}
	return req.Text, true
}

// taskOrNoContent answers with the task when it exists, 204 otherwise.
func (s *Server) taskOrNoContent(w http.ResponseWriter, id string) {
	t, ok := s.store.Get(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := tasks.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": s.store.Query(filter, r.URL.Query().Get("q")),
		"stats": s.store.Stats(),
	})
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}
	t, err := s.store.Add(text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if t == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Toggle(id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.taskOrNoContent(w, id)
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.store.Edit(id, text); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.taskOrNoContent(w, id)
}

func (s *Server) handleRemoveTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Remove(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.ClearCompleted()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	th, err := theme.Load(s.prefs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": string(th), "icon": th.Icon()})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	th, err := s.toggleTheme()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": string(th), "icon": th.Icon()})
}
