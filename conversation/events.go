package conversation

// InboundKind discriminates what the user sent.
type InboundKind int

const (
	// KindCommand is a slash command such as /start.
	KindCommand InboundKind = iota
	// KindSelection is a button press decoded at the transport boundary.
	KindSelection
	// KindText is free text typed by the user.
	KindText
)

// SelectionKind identifies which button was pressed.
type SelectionKind int

const (
	// SelMainMenu returns to the main menu from any screen.
	SelMainMenu SelectionKind = iota
	// SelCategories opens the category list.
	SelCategories
	// SelCompanyInfo shows the about screen.
	SelCompanyInfo
	// SelContact shows the contact screen.
	SelContact
	// SelCategory picks a category by name.
	SelCategory
	// SelEvent picks an event by id from the cached listing.
	SelEvent
	// SelConfirm confirms booking the selected event.
	SelConfirm
	// SelBack steps one screen back.
	SelBack
)

// Selection is a decoded button press.
type Selection struct {
	Kind     SelectionKind
	Category string
	EventID  int
}

// Inbound is a single user input normalized by the transport layer.
type Inbound struct {
	Kind      InboundKind
	Command   string
	Selection Selection
	Text      string
}

// Option is a button offered to the user on the next screen.
type Option struct {
	Label     string
	Selection Selection
}

// Outbound is the reply to render: message text plus offered buttons.
type Outbound struct {
	Text    string
	Options []Option
}
