package tasks

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dohr-michael/listo/internal/events"
)

// StorageKey is the key the task list is persisted under.
const StorageKey = "tasks"

// maxIDAttempts bounds how often a colliding generator is retried before
// the store disambiguates with a counter suffix.
const maxIDAttempts = 8

// KV is the persistence capability the store is given.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the task id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithBus publishes an event for every committed mutation.
func WithBus(bus *events.Bus) Option {
	return func(s *Store) { s.bus = bus }
}

// Store owns the task list and keeps it in sync with the KV.
//
// Every mutation is computed on a copy of the list and committed in memory
// only after the full list was written, so a failed write leaves the store
// exactly as it was. Unknown ids and blank input are silent no-ops.
type Store struct {
	mu    sync.Mutex
	kv    KV
	tasks []Task
	now   func() time.Time
	newID func() string
	bus   *events.Bus
}

// Open loads the task list from kv. A missing or malformed value yields an
// empty list; only a failing read is returned as an error.
func Open(kv KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:    kv,
		now:   time.Now,
		newID: GenerateTaskID,
	}
	for _, opt := range opts {
		opt(s)
	}

	list, err := s.load()
	if err != nil {
		return nil, err
	}
	s.tasks = list
	return s, nil
}

func (s *Store) load() ([]Task, error) {
	data, err := s.kv.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if len(data) == 0 {
		return []Task{}, nil
	}

	var list []Task
	if err := json.Unmarshal(data, &list); err != nil {
		slog.Warn("stored tasks are malformed, starting empty", "error", err)
		return []Task{}, nil
	}

	seen := make(map[string]bool, len(list))
	out := make([]Task, 0, len(list))
	for _, t := range list {
		if seen[t.ID] {
			slog.Warn("dropping task with duplicate id", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

// Add prepends a task with the trimmed text and returns it. Blank text is a
// no-op that returns nil, nil.
func (s *Store) Add(rawText string) (*Task, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:        s.uniqueID(),
		Text:      text,
		Completed: false,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	next := make([]Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	if err := s.commit(next); err != nil {
		return nil, err
	}

	s.publish(events.EventTaskAdded, map[string]any{"id": t.ID})
	return &t, nil
}

// Toggle flips the completed flag of the task with the given id.
func (s *Store) Toggle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil
	}

	next := slices.Clone(s.tasks)
	next[i].Completed = !next[i].Completed
	if err := s.commit(next); err != nil {
		return err
	}

	s.publish(events.EventTaskToggled, map[string]any{"id": id, "completed": next[i].Completed})
	return nil
}

// Edit replaces the text of the task with the given id. Text that trims to
// empty is rejected and leaves the task untouched.
func (s *Store) Edit(id, newText string) error {
	text := strings.TrimSpace(newText)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil
	}

	next := slices.Clone(s.tasks)
	next[i].Text = text
	if err := s.commit(next); err != nil {
		return err
	}

	s.publish(events.EventTaskEdited, map[string]any{"id": id})
	return nil
}

// Remove deletes the task with the given id. Asking the user for
// confirmation is the caller's job.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil
	}

	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	if err := s.commit(next); err != nil {
		return err
	}

	s.publish(events.EventTaskRemoved, map[string]any{"id": id})
	return nil
}

// ClearCompleted removes every completed task and returns how many were removed.
func (s *Store) ClearCompleted() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Task, 0, len(s.tasks))
	var removed []string
	for _, t := range s.tasks {
		if t.Completed {
			removed = append(removed, t.ID)
			continue
		}
		next = append(next, t)
	}
	if len(removed) == 0 {
		return 0, nil
	}

	if err := s.commit(next); err != nil {
		return 0, err
	}

	s.publish(events.EventTasksCleared, map[string]any{"ids": removed})
	return len(removed), nil
}

// Query returns, in list order, the tasks matching filter whose text contains
// search case-insensitively. An empty search matches every task.
func (s *Store) Query(filter Filter, search string) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	term := strings.ToLower(search)
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !filter.Match(t) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(t.Text), term) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Stats counts active and completed tasks over the full list.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats()
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) stats() Stats {
	st := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	return st
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

func (s *Store) uniqueID() string {
	for attempt := 0; ; attempt++ {
		id := s.newID()
		if attempt >= maxIDAttempts {
			id = fmt.Sprintf("%s_%d", id, attempt)
		}
		if s.index(id) < 0 {
			return id
		}
	}
}

// commit writes next and, once the write succeeded, makes it the current list.
func (s *Store) commit(next []Task) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := s.kv.Set(StorageKey, data); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	s.tasks = next
	return nil
}

func (s *Store) publish(typ events.EventType, payload map[string]any) {
	if s.bus == nil {
		return
	}
	payload["stats"] = s.stats()
	s.bus.Publish(events.NewEvent(typ, payload))
}
