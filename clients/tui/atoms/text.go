// Package atoms provides low-level TUI building blocks.
package atoms

import "github.com/dohr-michael/listo/internal/tasks"

// Sanitize makes stored text safe to print inside the TUI.
func Sanitize(s string) string {
	return tasks.Display(s)
}

// Checkbox renders the completion marker of a task.
func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
