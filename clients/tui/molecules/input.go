// Package molecules provides mid-level TUI components.
package molecules

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextInput is the single-line input used to add, edit and search.
// Enter and Esc are left to the owner; everything else edits the line.
type TextInput struct {
	input textinput.Model
}

// NewTextInput creates a blurred input.
func NewTextInput() TextInput {
	ti := textinput.New()
	ti.CharLimit = 0
	return TextInput{input: ti}
}

// Open focuses the input with a prompt and an initial value.
func (t *TextInput) Open(prompt, placeholder, value string) tea.Cmd {
	t.input.Prompt = prompt
	t.input.Placeholder = placeholder
	t.input.SetValue(value)
	t.input.CursorEnd()
	return t.input.Focus()
}

// Close blurs and empties the input.
func (t *TextInput) Close() {
	t.input.Blur()
	t.input.Reset()
}

// Focused reports whether the input is open.
func (t TextInput) Focused() bool {
	return t.input.Focused()
}

// Value returns the current text.
func (t TextInput) Value() string {
	return t.input.Value()
}

// SetWidth sets the visible width.
func (t *TextInput) SetWidth(w int) {
	t.input.Width = w
}

// SetPromptStyle sets the prompt color.
func (t *TextInput) SetPromptStyle(s lipgloss.Style) {
	t.input.PromptStyle = s
}

// Update forwards a message to the underlying input.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd
}

// View renders the input line.
func (t TextInput) View() string {
	return t.input.View()
}
