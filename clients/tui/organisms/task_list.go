// Package organisms provides the composite panels of the TUI.
package organisms

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/listo/clients/tui/atoms"
	"github.com/dohr-michael/listo/internal/tasks"
)

// TaskListStyles are the styles a TaskList renders with.
type TaskListStyles struct {
	Item   lipgloss.Style
	Done   lipgloss.Style
	Cursor lipgloss.Style
	Muted  lipgloss.Style
}

// TaskList shows the visible tasks with a selection cursor, scrolled so the
// cursor stays on screen.
type TaskList struct {
	viewport viewport.Model
	tasks    []tasks.Task
	cursor   int
	empty    string
	styles   TaskListStyles
}

// NewTaskList creates an empty list.
func NewTaskList(width, height int, styles TaskListStyles) TaskList {
	vp := viewport.New(width, height)
	// Keys are handled by the owning model.
	vp.KeyMap = viewport.KeyMap{}
	vp.MouseWheelEnabled = false
	return TaskList{viewport: vp, styles: styles, empty: "No tasks"}
}

// SetTasks replaces the visible tasks. empty is shown when the list is empty.
func (l *TaskList) SetTasks(list []tasks.Task, empty string) {
	l.tasks = list
	l.empty = empty
	if l.cursor >= len(list) {
		l.cursor = len(list) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.refresh()
}

// SetStyles swaps the styles, for theme changes.
func (l *TaskList) SetStyles(styles TaskListStyles) {
	l.styles = styles
	l.refresh()
}

// SetSize updates the viewport dimensions.
func (l *TaskList) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.refresh()
}

// Up moves the cursor one task up.
func (l *TaskList) Up() {
	if l.cursor > 0 {
		l.cursor--
		l.refresh()
	}
}

// Down moves the cursor one task down.
func (l *TaskList) Down() {
	if l.cursor < len(l.tasks)-1 {
		l.cursor++
		l.refresh()
	}
}

// Cursor returns the selected row.
func (l TaskList) Cursor() int { return l.cursor }

// Selected returns the task under the cursor.
func (l TaskList) Selected() (tasks.Task, bool) {
	if len(l.tasks) == 0 {
		return tasks.Task{}, false
	}
	return l.tasks[l.cursor], true
}

func (l *TaskList) refresh() {
	if len(l.tasks) == 0 {
		l.viewport.SetContent(l.styles.Muted.Render(l.empty))
		l.viewport.GotoTop()
		return
	}

	lines := make([]string, len(l.tasks))
	for i, t := range l.tasks {
		text := atoms.Sanitize(t.Text)
		style := l.styles.Item
		if t.Completed {
			style = l.styles.Done
		}
		pointer := "  "
		if i == l.cursor {
			pointer = l.styles.Cursor.Render("> ")
		}
		lines[i] = pointer + atoms.Checkbox(t.Completed) + " " + style.Render(text)
	}
	l.viewport.SetContent(strings.Join(lines, "\n"))

	switch {
	case l.cursor < l.viewport.YOffset:
		l.viewport.SetYOffset(l.cursor)
	case l.viewport.Height > 0 && l.cursor >= l.viewport.YOffset+l.viewport.Height:
		l.viewport.SetYOffset(l.cursor - l.viewport.Height + 1)
	}
}

// View renders the list.
func (l TaskList) View() string {
	return l.viewport.View()
}
