package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dohr-michael/listo/clients/tui/atoms"
	"github.com/dohr-michael/listo/clients/tui/molecules"
	"github.com/dohr-michael/listo/clients/tui/organisms"
	"github.com/dohr-michael/listo/internal/tasks"
	"github.com/dohr-michael/listo/internal/theme"
)

// App is the root bubbletea model. It only holds view state; every task
// change goes through the store and the list is re-read afterwards.
// Layout: TITLE | LIST | INPUT | STATUS
type App struct {
	store *tasks.Store
	prefs theme.KV

	theme  theme.Theme
	styles Styles
	mode   organisms.Mode
	filter tasks.Filter
	search string
	target string // task id being edited or deleted

	list   organisms.TaskList
	input  molecules.TextInput
	status organisms.StatusBar

	width  int
	height int
}

// NewApp creates the model over a task store and a preference store.
func NewApp(store *tasks.Store, prefs theme.KV) *App {
	th, err := theme.Load(prefs)
	if err != nil {
		th = theme.Default
	}
	styles := NewStyles(PaletteFor(th))

	a := &App{
		store:  store,
		prefs:  prefs,
		theme:  th,
		styles: styles,
		filter: tasks.FilterAll,
		list:   organisms.NewTaskList(80, 20, styles.List),
		input:  molecules.NewTextInput(),
		status: organisms.NewStatusBar(styles.Status),
	}
	a.input.SetPromptStyle(styles.Title)
	a.status.SetTheme(th)
	if err != nil {
		a.status.SetError(err)
	}
	a.refresh()
	return a
}

// Init initializes the application.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		a.status.ClearNotice()
		switch a.mode {
		case organisms.ModeAdd, organisms.ModeEdit, organisms.ModeSearch:
			return a.handleInputKey(msg)
		case organisms.ModeConfirmDelete:
			return a.handleConfirmKey(msg)
		default:
			return a.handleBrowseKey(msg)
		}
	}

	if a.input.Focused() {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		a.list.Up()
	case "down", "j":
		a.list.Down()
	case "a":
		return a, a.openInput(organisms.ModeAdd, "Add: ", "What needs to be done?", "")
	case "e":
		if t, ok := a.list.Selected(); ok {
			a.target = t.ID
			return a, a.openInput(organisms.ModeEdit, "Edit: ", "", t.Text)
		}
	case " ", "x":
		if t, ok := a.list.Selected(); ok {
			a.apply(a.store.Toggle(t.ID))
		}
	case "d":
		if t, ok := a.list.Selected(); ok {
			a.target = t.ID
			a.setMode(organisms.ModeConfirmDelete)
		}
	case "c":
		n, err := a.store.ClearCompleted()
		a.apply(err)
		if err == nil && n > 0 {
			a.status.SetNotice(fmt.Sprintf("Cleared %d completed", n))
		}
	case "/":
		return a, a.openInput(organisms.ModeSearch, "Search: ", "", a.search)
	case "tab":
		a.setFilter(a.filter.Next())
	case "1", "2", "3":
		a.setFilter(tasks.Filters[msg.Runes[0]-'1'])
	case "t":
		a.toggleTheme()
	case "esc":
		if a.search != "" {
			a.search = ""
			a.refresh()
		}
	}
	return a, nil
}

func (a *App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if a.mode == organisms.ModeSearch {
			a.search = ""
		}
		a.closeInput()
		return a, nil

	case tea.KeyEnter:
		value := a.input.Value()
		switch a.mode {
		case organisms.ModeAdd:
			_, err := a.store.Add(value)
			a.apply(err)
		case organisms.ModeEdit:
			if strings.TrimSpace(value) == "" {
				a.status.SetNotice("Empty text, edit discarded")
			}
			a.apply(a.store.Edit(a.target, value))
		}
		a.closeInput()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.mode == organisms.ModeSearch && a.search != a.input.Value() {
		a.search = a.input.Value()
		a.refresh()
	}
	return a, cmd
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "y" || msg.String() == "Y" {
		a.apply(a.store.Remove(a.target))
	}
	a.target = ""
	a.setMode(organisms.ModeBrowse)
	return a, nil
}

func (a *App) openInput(mode organisms.Mode, prompt, placeholder, value string) tea.Cmd {
	a.setMode(mode)
	return a.input.Open(prompt, placeholder, value)
}

func (a *App) closeInput() {
	a.input.Close()
	a.target = ""
	a.setMode(organisms.ModeBrowse)
	a.refresh()
}

func (a *App) setMode(mode organisms.Mode) {
	a.mode = mode
	a.status.SetMode(mode)
}

func (a *App) setFilter(f tasks.Filter) {
	a.filter = f
	a.refresh()
}

func (a *App) toggleTheme() {
	th, err := theme.Toggle(a.prefs)
	if err != nil {
		a.status.SetError(err)
		return
	}
	a.theme = th
	a.styles = NewStyles(PaletteFor(th))
	a.list.SetStyles(a.styles.List)
	a.status.SetStyles(a.styles.Status)
	a.status.SetTheme(th)
	a.input.SetPromptStyle(a.styles.Title)
}

// apply records a store error and re-reads the list.
func (a *App) apply(err error) {
	if err != nil {
		a.status.SetError(err)
	}
	a.refresh()
}

func (a *App) refresh() {
	empty := "No tasks"
	if a.search != "" {
		empty = "No tasks found"
	}
	a.list.SetTasks(a.store.Query(a.filter, a.search), empty)
	a.status.SetFilter(a.filter)
	a.status.SetSearch(a.search)
	a.status.SetStats(a.store.Stats())
}

func (a *App) updateSizes() {
	// title(1) + input(1) + status(2)
	listHeight := a.height - 4
	if listHeight < 1 {
		listHeight = 1
	}
	a.list.SetSize(a.width, listHeight)
	a.input.SetWidth(a.width - 10)
	a.status.SetWidth(a.width)
}

// View renders the full TUI layout.
func (a *App) View() string {
	var inputLine string
	switch a.mode {
	case organisms.ModeAdd, organisms.ModeEdit, organisms.ModeSearch:
		inputLine = a.input.View()
	case organisms.ModeConfirmDelete:
		if t, ok := a.store.Get(a.target); ok {
			inputLine = a.styles.Error.Render(fmt.Sprintf("Delete %q? [y/N]", atoms.Sanitize(t.Text)))
		}
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		a.styles.Title.Render("Tasks"),
		a.list.View(),
		inputLine,
		a.status.View(),
	)
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(store *tasks.Store, prefs theme.KV) error {
	p := tea.NewProgram(NewApp(store, prefs), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
