// Package tui provides the listo terminal user interface.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/listo/clients/tui/organisms"
	"github.com/dohr-michael/listo/internal/theme"
)

// Palette is the set of colors one theme renders with.
type Palette struct {
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Accent   lipgloss.Color
	Done     lipgloss.Color
	Danger   lipgloss.Color
	StatusBg lipgloss.Color
	StatusFg lipgloss.Color
	Border   lipgloss.Color
}

var (
	LightPalette = Palette{
		Text:     lipgloss.Color("#1F2937"),
		Muted:    lipgloss.Color("#6B7280"),
		Accent:   lipgloss.Color("#6B21A8"),
		Done:     lipgloss.Color("#065F46"),
		Danger:   lipgloss.Color("#DC2626"),
		StatusBg: lipgloss.Color("#F3F4F6"),
		StatusFg: lipgloss.Color("#374151"),
		Border:   lipgloss.Color("#E5E7EB"),
	}

	DarkPalette = Palette{
		Text:     lipgloss.Color("#E5E7EB"),
		Muted:    lipgloss.Color("#9CA3AF"),
		Accent:   lipgloss.Color("#D8A6FF"),
		Done:     lipgloss.Color("#7EE2B8"),
		Danger:   lipgloss.Color("#FF6B6B"),
		StatusBg: lipgloss.Color("#1F2937"),
		StatusFg: lipgloss.Color("#D1D5DB"),
		Border:   lipgloss.Color("#374151"),
	}
)

// PaletteFor returns the palette of a theme.
func PaletteFor(t theme.Theme) Palette {
	if t == theme.Dark {
		return DarkPalette
	}
	return LightPalette
}

// Styles groups every style the model renders with.
type Styles struct {
	Title  lipgloss.Style
	Prompt lipgloss.Style
	Error  lipgloss.Style
	List   organisms.TaskListStyles
	Status organisms.StatusBarStyles
}

// NewStyles builds the component styles from a palette.
func NewStyles(p Palette) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Padding(0, 1),
		Prompt: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(p.Danger).
			Bold(true),
		List: organisms.TaskListStyles{
			Item:   lipgloss.NewStyle().Foreground(p.Text),
			Done:   lipgloss.NewStyle().Foreground(p.Done).Strikethrough(true),
			Cursor: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
			Muted:  lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		},
		Status: organisms.StatusBarStyles{
			Bar: lipgloss.NewStyle().
				Background(p.StatusBg).
				Foreground(p.StatusFg).
				Padding(0, 1),
			Tab:       lipgloss.NewStyle().Foreground(p.Muted),
			ActiveTab: lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Underline(true),
			Help:      lipgloss.NewStyle().Foreground(p.Muted),
			Notice:    lipgloss.NewStyle().Foreground(p.Done),
			Error:     lipgloss.NewStyle().Foreground(p.Danger).Bold(true),
		},
	}
}
