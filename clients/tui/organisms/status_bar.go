package organisms

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/listo/internal/tasks"
	"github.com/dohr-michael/listo/internal/theme"
)

// StatusBarStyles are the styles a StatusBar renders with.
type StatusBarStyles struct {
	Bar       lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Help      lipgloss.Style
	Notice    lipgloss.Style
	Error     lipgloss.Style
}

// StatusBar displays the filter tabs, stats, theme and key hints.
type StatusBar struct {
	filter tasks.Filter
	stats  tasks.Stats
	theme  theme.Theme
	search string
	mode   Mode
	notice string
	err    error
	width  int
	styles StatusBarStyles
}

// NewStatusBar creates a status bar.
func NewStatusBar(styles StatusBarStyles) StatusBar {
	return StatusBar{styles: styles, filter: tasks.FilterAll, theme: theme.Default}
}

// SetFilter updates the highlighted tab.
func (p *StatusBar) SetFilter(f tasks.Filter) { p.filter = f }

// SetStats updates the counters.
func (p *StatusBar) SetStats(s tasks.Stats) { p.stats = s }

// SetTheme updates the theme icon.
func (p *StatusBar) SetTheme(t theme.Theme) { p.theme = t }

// SetSearch updates the displayed search term.
func (p *StatusBar) SetSearch(s string) { p.search = s }

// SetMode updates the key hints.
func (p *StatusBar) SetMode(m Mode) { p.mode = m }

// SetWidth updates the rendering width.
func (p *StatusBar) SetWidth(w int) { p.width = w }

// SetStyles swaps the styles, for theme changes.
func (p *StatusBar) SetStyles(s StatusBarStyles) { p.styles = s }

// SetNotice shows a one-off message until the next key press.
func (p *StatusBar) SetNotice(msg string) { p.notice, p.err = msg, nil }

// SetError shows a failed operation until the next key press.
func (p *StatusBar) SetError(err error) { p.notice, p.err = "", err }

// ClearNotice drops any notice or error.
func (p *StatusBar) ClearNotice() { p.notice, p.err = "", nil }

// Notice returns the current notice text.
func (p StatusBar) Notice() string { return p.notice }

// Err returns the current error.
func (p StatusBar) Err() error { return p.err }

// View renders the two status lines.
func (p StatusBar) View() string {
	tabs := make([]string, len(tasks.Filters))
	for i, f := range tasks.Filters {
		label := strings.ToUpper(string(f[:1])) + string(f[1:])
		if f == p.filter {
			tabs[i] = p.styles.ActiveTab.Render(label)
		} else {
			tabs[i] = p.styles.Tab.Render(label)
		}
	}

	line := strings.Join(tabs, "  ") + " | " + p.stats.String()
	if p.search != "" {
		line += " | search: " + p.search
	}
	line += " | " + p.theme.Icon()
	bar := p.styles.Bar.Width(p.width).Render(line)

	var hint string
	switch {
	case p.err != nil:
		hint = p.styles.Error.Render("error: " + p.err.Error())
	case p.notice != "":
		hint = p.styles.Notice.Render(p.notice)
	default:
		hint = p.styles.Help.Render(p.mode.Help())
	}
	return bar + "\n" + hint
}
