package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dohr-michael/listo/internal/events"
	"github.com/dohr-michael/listo/internal/storage/memstore"
	"github.com/dohr-michael/listo/internal/tasks"
	"github.com/dohr-michael/listo/internal/theme"
)

func newTestServer(t *testing.T) (*Server, *tasks.Store, *memstore.Store) {
	t.Helper()
	bus := events.NewBus(64)
	t.Cleanup(bus.Close)

	kv := memstore.New()
	store, err := tasks.Open(kv, tasks.WithBus(bus))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	srv := NewServer(store, kv, bus, "localhost", 0)
	t.Cleanup(srv.hub.Close)
	return srv, store, kv
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	} else if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status %q, got %q", "ok", body["status"])
	}
}

func TestAPIAddTask(t *testing.T) {
	srv, store, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/tasks", `{"text": "  Buy milk  "}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var task tasks.Task
	if err := json.NewDecoder(w.Body).Decode(&task); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if task.Text != "Buy milk" || task.Completed {
		t.Errorf("unexpected task %+v", task)
	}
	if store.Stats().Total != 1 {
		t.Errorf("expected 1 task in store, got %d", store.Stats().Total)
	}
}

func TestAPIAddBlankIsNoContent(t *testing.T) {
	srv, store, kv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/tasks", `{"text": "   "}`)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if store.Stats().Total != 0 || kv.Writes() != 0 {
		t.Error("blank add must not change or persist anything")
	}
}

func TestAPIAddInvalidBody(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/tasks", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAPIListTasks(t *testing.T) {
	srv, store, _ := newTestServer(t)
	milk, _ := store.Add("Buy milk")
	store.Add("Walk dog")
	store.Toggle(milk.ID)

	w := do(t, srv, http.MethodGet, "/api/tasks?filter=active", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Tasks []tasks.Task `json:"tasks"`
		Stats tasks.Stats  `json:"stats"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Tasks) != 1 || body.Tasks[0].Text != "Walk dog" {
		t.Errorf("unexpected tasks %+v", body.Tasks)
	}
	if body.Stats != (tasks.Stats{Active: 1, Completed: 1, Total: 2}) {
		t.Errorf("unexpected stats %+v", body.Stats)
	}

	w = do(t, srv, http.MethodGet, "/api/tasks?q=MILK", "")
	json.NewDecoder(w.Body).Decode(&body)
	if len(body.Tasks) != 1 || body.Tasks[0].ID != milk.ID {
		t.Errorf("search: unexpected tasks %+v", body.Tasks)
	}
}

func TestAPIListInvalidFilter(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/tasks?filter=someday", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAPIToggleEditRemove(t *testing.T) {
	srv, store, _ := newTestServer(t)
	task, _ := store.Add("Buy milk")

	w := do(t, srv, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", "")
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", w.Code)
	}
	var got tasks.Task
	json.NewDecoder(w.Body).Decode(&got)
	if !got.Completed {
		t.Error("expected task to be completed")
	}

	w = do(t, srv, http.MethodPut, "/api/tasks/"+task.ID, `{"text": "Buy oat milk"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("edit: expected 200, got %d", w.Code)
	}
	if got, _ := store.Get(task.ID); got.Text != "Buy oat milk" {
		t.Errorf("edit not applied, text = %q", got.Text)
	}

	w = do(t, srv, http.MethodDelete, "/api/tasks/"+task.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if store.Stats().Total != 0 {
		t.Error("expected task to be removed")
	}
}

func TestAPIUnknownIDIsNoContent(t *testing.T) {
	srv, _, kv := newTestServer(t)

	if w := do(t, srv, http.MethodPost, "/api/tasks/nonexistent/toggle", ""); w.Code != http.StatusNoContent {
		t.Errorf("toggle: expected 204, got %d", w.Code)
	}
	if w := do(t, srv, http.MethodPut, "/api/tasks/nonexistent", `{"text": "x"}`); w.Code != http.StatusNoContent {
		t.Errorf("edit: expected 204, got %d", w.Code)
	}
	if kv.Writes() != 0 {
		t.Errorf("expected no writes, got %d", kv.Writes())
	}
}

func TestAPIClearCompleted(t *testing.T) {
	srv, store, _ := newTestServer(t)
	a, _ := store.Add("a")
	b, _ := store.Add("b")
	store.Add("c")
	store.Toggle(a.ID)
	store.Toggle(b.ID)

	w := do(t, srv, http.MethodPost, "/api/tasks/clear-completed", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]int
	json.NewDecoder(w.Body).Decode(&body)
	if body["removed"] != 2 {
		t.Errorf("expected 2 removed, got %d", body["removed"])
	}
	if store.Stats() != (tasks.Stats{Active: 1, Total: 1}) {
		t.Errorf("unexpected stats %+v", store.Stats())
	}
}

func TestAPIPersistFailure(t *testing.T) {
	srv, store, kv := newTestServer(t)
	kv.FailWrites(errDisk)

	w := do(t, srv, http.MethodPost, "/api/tasks", `{"text": "Buy milk"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if store.Stats().Total != 0 {
		t.Error("failed write must not change the list")
	}
}

func TestAPITheme(t *testing.T) {
	srv, _, kv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/theme", "")
	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["theme"] != string(theme.Light) {
		t.Errorf("expected default light theme, got %q", body["theme"])
	}

	w = do(t, srv, http.MethodPost, "/api/theme/toggle", "")
	json.NewDecoder(w.Body).Decode(&body)
	if body["theme"] != string(theme.Dark) || body["icon"] != "☀" {
		t.Errorf("unexpected toggle response %v", body)
	}
	if th, _ := theme.Load(kv); th != theme.Dark {
		t.Errorf("expected persisted dark theme, got %s", th)
	}
}

func TestIndexEscapesTaskText(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.Add(`<script>alert("x")</script>`)

	w := do(t, srv, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	page := w.Body.String()
	if strings.Contains(page, "<script>alert") {
		t.Error("task text must be escaped")
	}
	if !strings.Contains(page, "&lt;script&gt;") {
		t.Error("expected escaped task text in page")
	}
	if !strings.Contains(page, `data-theme="light"`) {
		t.Error("expected light theme marker")
	}
	if !strings.Contains(page, "1 active") {
		t.Error("expected stats line")
	}
}

func TestIndexEmptyMessages(t *testing.T) {
	srv, store, _ := newTestServer(t)

	if page := do(t, srv, http.MethodGet, "/", "").Body.String(); !strings.Contains(page, "No tasks") {
		t.Error("expected empty list message")
	}

	store.Add("Buy milk")
	page := do(t, srv, http.MethodGet, "/?q=bread", "").Body.String()
	if !strings.Contains(page, "No tasks found") {
		t.Error("expected no-match message")
	}
}

func TestFormAddRedirectsBack(t *testing.T) {
	srv, store, _ := newTestServer(t)

	form := url.Values{"text": {"Buy milk"}}.Encode()
	w := do(t, srv, http.MethodPost, "/tasks?filter=active", form)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/?filter=active" {
		t.Errorf("unexpected redirect %q", loc)
	}
	if store.Stats().Total != 1 {
		t.Error("expected task to be added")
	}
}

func TestFormToggleAndDelete(t *testing.T) {
	srv, store, _ := newTestServer(t)
	task, _ := store.Add("Buy milk")

	do(t, srv, http.MethodPost, "/tasks/"+task.ID+"/toggle", "")
	if got, _ := store.Get(task.ID); !got.Completed {
		t.Error("expected toggled task")
	}

	do(t, srv, http.MethodPost, "/tasks/clear-completed", "")
	if store.Stats().Total != 0 {
		t.Error("expected completed task cleared")
	}
}

func TestFormEditEmptyIsIgnored(t *testing.T) {
	srv, store, _ := newTestServer(t)
	task, _ := store.Add("Buy milk")

	form := url.Values{"text": {"   "}}.Encode()
	do(t, srv, http.MethodPost, "/tasks/"+task.ID+"/edit", form)
	if got, _ := store.Get(task.ID); got.Text != "Buy milk" {
		t.Errorf("empty edit must be rejected, text = %q", got.Text)
	}
}

func TestFormThemeToggle(t *testing.T) {
	srv, _, _ := newTestServer(t)

	do(t, srv, http.MethodPost, "/theme/toggle", "")
	page := do(t, srv, http.MethodGet, "/", "").Body.String()
	if !strings.Contains(page, `data-theme="dark"`) {
		t.Error("expected dark theme after toggle")
	}
}

func TestIndexDeleteConfirmCarriesTaskText(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.Add(`Buy "milk" <now>`)

	page := do(t, srv, http.MethodGet, "/", "").Body.String()
	if !strings.Contains(page, `data-text="Buy &#34;milk&#34; &lt;now&gt;"`) {
		t.Errorf("expected escaped task text on the delete form:\n%s", page)
	}
	if !strings.Contains(page, "this.dataset.text") {
		t.Error("expected delete confirmation to show the task text")
	}
}

func doFrom(t *testing.T, srv *Server, method, target, contentType, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestCrossSiteFormPostIsRejected(t *testing.T) {
	srv, store, _ := newTestServer(t)
	task, _ := store.Add("Buy milk")
	store.Toggle(task.ID)

	w := doFrom(t, srv, http.MethodPost, "/tasks/clear-completed", "", "", map[string]string{
		"Origin":         "https://evil.example",
		"Sec-Fetch-Site": "cross-site",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if store.Stats().Total != 1 {
		t.Error("cross-site post must not clear completed tasks")
	}
}

func TestCrossOriginAPIIsRejected(t *testing.T) {
	srv, store, _ := newTestServer(t)

	tests := []struct {
		name   string
		header map[string]string
	}{
		{"foreign origin", map[string]string{"Origin": "https://evil.example"}},
		{"other port", map[string]string{"Origin": "http://example.com:8080"}},
		{"opaque origin", map[string]string{"Origin": "null"}},
		{"same site", map[string]string{"Sec-Fetch-Site": "same-site"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doFrom(t, srv, http.MethodPost, "/api/tasks", "application/json", `{"text": "injected"}`, tt.header)
			if w.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", w.Code)
			}
		})
	}
	if store.Stats().Total != 0 {
		t.Errorf("expected no task stored, got %+v", store.Stats())
	}
}

func TestSameOriginPostIsAllowed(t *testing.T) {
	srv, store, _ := newTestServer(t)

	w := doFrom(t, srv, http.MethodPost, "/tasks", "application/x-www-form-urlencoded", "text=Buy+milk", map[string]string{
		"Origin":         "http://example.com",
		"Sec-Fetch-Site": "same-origin",
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}

	w = doFrom(t, srv, http.MethodPost, "/api/tasks", "application/json; charset=utf-8", `{"text": "Walk dog"}`, map[string]string{
		"Origin": "http://example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if store.Stats().Total != 2 {
		t.Errorf("expected 2 tasks, got %+v", store.Stats())
	}
}

func TestCrossSiteReadIsAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := doFrom(t, srv, http.MethodGet, "/api/health", "", "", map[string]string{
		"Origin":         "https://evil.example",
		"Sec-Fetch-Site": "cross-site",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAPIRequiresJSONContentType(t *testing.T) {
	srv, store, _ := newTestServer(t)
	task, _ := store.Add("Buy milk")

	w := doFrom(t, srv, http.MethodPost, "/api/tasks", "text/plain", `{"text": "injected"}`, nil)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}
	w = doFrom(t, srv, http.MethodPut, "/api/tasks/"+task.ID, "", `{"text": "injected"}`, nil)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 without content type, got %d", w.Code)
	}

	if store.Stats().Total != 1 {
		t.Errorf("expected no task added, got %+v", store.Stats())
	}
	if got, _ := store.Get(task.ID); got.Text != "Buy milk" {
		t.Errorf("task text changed to %q", got.Text)
	}
}

var errDisk = errors.New("disk full")
