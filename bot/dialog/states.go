package dialog

// State identifies a position in the conversation graph. The graph is
// cyclic: every leaf eventually leads back to the main menu.
type State string

const (
	StateNone             State = ""
	StateAwaitingName     State = "awaiting_name"
	StateAwaitingLanguage State = "awaiting_language"
	StateMainMenu         State = "main_menu"
	StateSubmenu          State = "submenu"
	StateFeedback         State = "feedback"
)
