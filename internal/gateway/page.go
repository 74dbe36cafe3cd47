package gateway

import (
	"embed"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dohr-michael/listo/internal/events"
	"github.com/dohr-michael/listo/internal/tasks"
	"github.com/dohr-michael/listo/internal/theme"
)

//go:embed templates/index.html
var templateFS embed.FS

type filterLink struct {
	Filter tasks.Filter
	Href   string
	Active bool
}

type pageData struct {
	Tasks   []tasks.Task
	Stats   tasks.Stats
	Filter  tasks.Filter
	Search  string
	Filters []filterLink
	Theme   theme.Theme
	Icon    string
	Empty   string
	Back    string // query string that restores the current view
}

// viewState reads filter and search from the request; invalid filters fall back to all.
func viewState(r *http.Request) (tasks.Filter, string) {
	filter, err := tasks.ParseFilter(r.FormValue("filter"))
	if err != nil {
		filter = tasks.FilterAll
	}
	return filter, r.FormValue("q")
}

func viewQuery(filter tasks.Filter, search string) string {
	v := url.Values{}
	if filter != tasks.FilterAll {
		v.Set("filter", string(filter))
	}
	if search != "" {
		v.Set("q", search)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	filter, search := viewState(r)
	th, err := theme.Load(s.prefs)
	if err != nil {
		slog.Warn("load theme", "error", err)
	}

	data := pageData{
		Tasks:  s.store.Query(filter, search),
		Stats:  s.store.Stats(),
		Filter: filter,
		Search: search,
		Theme:  th,
		Icon:   th.Icon(),
		Back:   viewQuery(filter, search),
	}
	for _, f := range tasks.Filters {
		data.Filters = append(data.Filters, filterLink{
			Filter: f,
			Href:   "/" + viewQuery(f, search),
			Active: f == filter,
		})
	}
	if len(data.Tasks) == 0 {
		data.Empty = "No tasks"
		if search != "" {
			data.Empty = "No tasks found"
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		slog.Error("render page", "error", err)
	}
}

// redirectBack sends the browser back to the view it posted from.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	filter, search := viewState(r)
	http.Redirect(w, r, "/"+viewQuery(filter, search), http.StatusSeeOther)
}

func (s *Server) formResult(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.Error("task operation failed", "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectBack(w, r)
}

func (s *Server) handleFormAdd(w http.ResponseWriter, r *http.Request) {
	_, err := s.store.Add(r.FormValue("text"))
	s.formResult(w, r, err)
}

func (s *Server) handleFormToggle(w http.ResponseWriter, r *http.Request) {
	s.formResult(w, r, s.store.Toggle(chi.URLParam(r, "id")))
}

func (s *Server) handleFormEdit(w http.ResponseWriter, r *http.Request) {
	s.formResult(w, r, s.store.Edit(chi.URLParam(r, "id"), r.FormValue("text")))
}

func (s *Server) handleFormDelete(w http.ResponseWriter, r *http.Request) {
	s.formResult(w, r, s.store.Remove(chi.URLParam(r, "id")))
}

func (s *Server) handleFormClear(w http.ResponseWriter, r *http.Request) {
	_, err := s.store.ClearCompleted()
	s.formResult(w, r, err)
}

func (s *Server) handleFormTheme(w http.ResponseWriter, r *http.Request) {
	_, err := s.toggleTheme()
	s.formResult(w, r, err)
}

func (s *Server) toggleTheme() (theme.Theme, error) {
	th, err := theme.Toggle(s.prefs)
	if err != nil {
		return th, err
	}
	s.bus.Publish(events.NewEvent(events.EventThemeChanged, map[string]any{"theme": th}))
	return th, nil
}
