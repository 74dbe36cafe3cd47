// Package tasks owns the task list: an ordered, newest-first list of short
// to-do items persisted as one JSON value in a key-value store.
package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do item.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Filter selects tasks by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ErrInvalidFilter is returned by ParseFilter for unknown filter names.
var ErrInvalidFilter = errors.New("invalid filter")

// ParseFilter parses a filter name. The empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (want all, active or completed)", ErrInvalidFilter, s)
	}
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next cycles all → active → completed → all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Stats counts tasks over the full list.
type Stats struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// String renders the stats line shown under the list.
func (s Stats) String() string {
	if s.Total == 0 {
		return "No tasks"
	}
	text := fmt.Sprintf("%d active", s.Active)
	if s.Completed > 0 {
		text += fmt.Sprintf(", %d completed", s.Completed)
	}
	return text
}

// GenerateTaskID creates a task identifier.
func GenerateTaskID() string {
	u := uuid.New().String()
	return "task_" + strings.ReplaceAll(u[:8], "-", "")
}
