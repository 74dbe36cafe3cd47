package organisms

// Mode represents the current interaction state.
type Mode int

const (
	ModeBrowse        Mode = iota
	ModeAdd                 // typing a new task
	ModeEdit                // rewriting the selected task
	ModeSearch              // typing the search term
	ModeConfirmDelete       // waiting for y/n
)

// Help returns the key hints shown for the mode.
func (m Mode) Help() string {
	switch m {
	case ModeAdd, ModeEdit:
		return "enter save • esc cancel"
	case ModeSearch:
		return "enter keep • esc clear"
	case ModeConfirmDelete:
		return "y delete • n cancel"
	default:
		return "a add • e edit • space toggle • d delete • c clear • / search • tab filter • t theme • q quit"
	}
}
