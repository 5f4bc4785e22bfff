package conversation

import "github.com/eventease/eventbot/catalog"

// State names one screen of the booking dialog.
type State string

const (
	StateMainMenu      State = "main_menu"
	StateCategoryList  State = "category_list"
	StateEventList     State = "event_list"
	StateAwaitingName  State = "awaiting_name"
	StateAwaitingEmail State = "awaiting_email"
)

// Session holds everything the dialog remembers for one user.
//
// Categories and Events are snapshots from the catalog taken when the
// user opened the respective screen; later selections resolve against
// these snapshots, never against a fresh fetch. A non-nil SelectedEvent
// while in StateEventList means the event details screen is showing.
type Session struct {
	State State

	Categories       map[string]string
	Events           []catalog.Event
	SelectedCategory string
	SelectedEvent    *catalog.Event

	Name  string
	Email string
}

// reset returns the session to a clean main menu.
func (s *Session) reset() {
	s.State = StateMainMenu
	s.Categories = nil
	s.Events = nil
	s.SelectedCategory = ""
	s.SelectedEvent = nil
	s.Name = ""
	s.Email = ""
}

// awaitsText reports whether the dialog currently expects typed input.
func (s *Session) awaitsText() bool {
	return s.State == StateAwaitingName || s.State == StateAwaitingEmail
}
