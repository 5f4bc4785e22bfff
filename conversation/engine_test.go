package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/eventease/eventbot/catalog"
)

type fakeCatalog struct {
	categories    map[string]string
	categoriesErr error
	events        map[string][]catalog.Event
	eventsErr     error

	categoryCalls int
	eventCalls    int
}

func (f *fakeCatalog) FetchCategories(context.Context) (map[string]string, error) {
	f.categoryCalls++
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	return f.categories, nil
}

func (f *fakeCatalog) FetchEvents(_ context.Context, locator string) ([]catalog.Event, error) {
	f.eventCalls++
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events[locator], nil
}

type fakeFinalizer struct {
	calls    int
	event    *catalog.Event
	category string
	name     string
	email    string
	message  string
}

func (f *fakeFinalizer) Finalize(_ context.Context, ev *catalog.Event, category, name, email string) string {
	f.calls++
	f.event = ev
	f.category = category
	f.name = name
	f.email = email
	if f.message == "" {
		return "booked"
	}
	return f.message
}

var testEvents = []catalog.Event{
	{ID: 1, Name: "Jazz Night", Category: "Music", StartDate: "2025-06-01 19:30", Participants: 10},
	{ID: 2, Name: "Rock Fest", Category: "Music", StartDate: "2025-06-02 18:00", Participants: 99},
}

func newTestEngine(skip bool) (*Engine, *fakeCatalog, *fakeFinalizer) {
	cat := &fakeCatalog{
		categories: map[string]string{
			"Music":  "http://site/category/music/",
			"Cinema": "http://site/category/cinema/",
		},
		events: map[string][]catalog.Event{
			"http://site/category/music/": testEvents,
		},
	}
	fin := &fakeFinalizer{}
	eng := NewEngine(NewStore(), cat, fin, skip)
	return eng, cat, fin
}

func (e *Engine) stateOf(userID int64) State {
	sess, release := e.store.Acquire(userID)
	defer release()
	return sess.State
}

func command(cmd string) Inbound {
	return Inbound{Kind: KindCommand, Command: cmd}
}

func selection(sel Selection) Inbound {
	return Inbound{Kind: KindSelection, Selection: sel}
}

func text(t string) Inbound {
	return Inbound{Kind: KindText, Text: t}
}

func optionLabels(out Outbound) []string {
	labels := make([]string, len(out.Options))
	for i, opt := range out.Options {
		labels[i] = opt.Label
	}
	return labels
}

func TestFullBookingFlow(t *testing.T) {
	eng, _, fin := newTestEngine(false)
	ctx := context.Background()
	const user = int64(100)

	out := eng.Handle(ctx, user, command("/start"))
	if !strings.Contains(out.Text, "Welcome to EventEase Bot") {
		t.Fatalf("start text = %q", out.Text)
	}
	if len(out.Options) != 3 {
		t.Fatalf("main menu options = %v", optionLabels(out))
	}

	out = eng.Handle(ctx, user, selection(Selection{Kind: SelCategories}))
	if eng.stateOf(user) != StateCategoryList {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	// Sorted categories plus the back button.
	labels := optionLabels(out)
	if len(labels) != 3 || labels[0] != "Cinema" || labels[1] != "Music" {
		t.Fatalf("category options = %v", labels)
	}

	out = eng.Handle(ctx, user, selection(Selection{Kind: SelCategory, Category: "Music"}))
	if eng.stateOf(user) != StateEventList {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	labels = optionLabels(out)
	if len(labels) != 3 || labels[0] != "Jazz Night" || labels[1] != "Rock Fest" {
		t.Fatalf("event options = %v", labels)
	}

	out = eng.Handle(ctx, user, selection(Selection{Kind: SelEvent, EventID: 1}))
	if !strings.Contains(out.Text, "Jazz Night") || !strings.Contains(out.Text, "book this event") {
		t.Fatalf("details text = %q", out.Text)
	}
	if eng.stateOf(user) != StateEventList {
		t.Fatalf("details state = %q", eng.stateOf(user))
	}

	out = eng.Handle(ctx, user, selection(Selection{Kind: SelConfirm}))
	if eng.stateOf(user) != StateAwaitingName {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "enter your name") {
		t.Fatalf("name prompt = %q", out.Text)
	}

	out = eng.Handle(ctx, user, text("  Ada Lovelace  "))
	if eng.stateOf(user) != StateAwaitingEmail {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "Ada Lovelace") {
		t.Fatalf("email prompt = %q", out.Text)
	}

	out = eng.Handle(ctx, user, text("ada@example.com"))
	if out.Text != "booked" {
		t.Fatalf("confirmation = %q", out.Text)
	}
	if eng.stateOf(user) != StateMainMenu {
		t.Fatalf("state after booking = %q", eng.stateOf(user))
	}

	if fin.calls != 1 {
		t.Fatalf("finalizer calls = %d", fin.calls)
	}
	if fin.event == nil || fin.event.ID != 1 {
		t.Fatalf("finalized event = %+v", fin.event)
	}
	if fin.category != "Music" || fin.name != "Ada Lovelace" || fin.email != "ada@example.com" {
		t.Fatalf("finalized with %q/%q/%q", fin.category, fin.name, fin.email)
	}
}

func TestRestartMidFlowClearsSession(t *testing.T) {
	eng, _, fin := newTestEngine(false)
	ctx := context.Background()
	const user = int64(101)

	eng.Handle(ctx, user, command("/start"))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategories}))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategory, Category: "Music"}))
	eng.Handle(ctx, user, selection(Selection{Kind: SelEvent, EventID: 1}))
	eng.Handle(ctx, user, selection(Selection{Kind: SelConfirm}))
	eng.Handle(ctx, user, text("Ada"))

	out := eng.Handle(ctx, user, command("/restart"))
	if eng.stateOf(user) != StateMainMenu {
		t.Fatalf("state after restart = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "Welcome") {
		t.Fatalf("restart text = %q", out.Text)
	}

	// Typed input after restart must not resume the old prompt chain.
	eng.Handle(ctx, user, text("ada@example.com"))
	if fin.calls != 0 {
		t.Fatalf("finalizer ran after restart: %d calls", fin.calls)
	}
}

func TestCategoriesUnavailableKeepsMainMenu(t *testing.T) {
	eng, cat, _ := newTestEngine(false)
	cat.categoriesErr = &catalog.TransportError{URL: "http://site/"}
	ctx := context.Background()
	const user = int64(102)

	eng.Handle(ctx, user, command("/start"))
	out := eng.Handle(ctx, user, selection(Selection{Kind: SelCategories}))

	if eng.stateOf(user) != StateMainMenu {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "couldn't fetch event categories") {
		t.Fatalf("text = %q", out.Text)
	}
	// User can still navigate from the reply.
	if len(out.Options) == 0 {
		t.Fatal("expected menu options on failure reply")
	}
}

func TestEventsUnavailableReturnsToMainMenu(t *testing.T) {
	eng, cat, _ := newTestEngine(false)
	ctx := context.Background()
	const user = int64(103)

	eng.Handle(ctx, user, command("/start"))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategories}))

	cat.eventsErr = &catalog.TransportError{URL: "http://site/category/music/"}
	out := eng.Handle(ctx, user, selection(Selection{Kind: SelCategory, Category: "Music"}))

	if eng.stateOf(user) != StateMainMenu {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "couldn't fetch events") {
		t.Fatalf("text = %q", out.Text)
	}
}

func TestEmptyCategoryReturnsToMainMenu(t *testing.T) {
	eng, _, _ := newTestEngine(false)
	ctx := context.Background()
	const user = int64(104)

	eng.Handle(ctx, user, command("/start"))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategories}))
	out := eng.Handle(ctx, user, selection(Selection{Kind: SelCategory, Category: "Cinema"}))

	if eng.stateOf(user) != StateMainMenu {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "no events found in the Cinema category") {
		t.Fatalf("text = %q", out.Text)
	}
}

func TestExpiredEventSelectionStaysOnList(t *testing.T) {
	eng, _, _ := newTestEngine(false)
	ctx := context.Background()
	const user = int64(105)

	eng.Handle(ctx, user, command("/start"))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategories}))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategory, Category: "Music"}))

	out := eng.Handle(ctx, user, selection(Selection{Kind: SelEvent, EventID: 999}))

	if eng.stateOf(user) != StateEventList {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "was not found") {
		t.Fatalf("text = %q", out.Text)
	}
	// The listing is re-offered so the user can pick again.
	if labels := optionLabels(out); len(labels) != 3 {
		t.Fatalf("options = %v", labels)
	}
}

func TestNameAndEmailValidation(t *testing.T) {
	eng, _, fin := newTestEngine(false)
	ctx := context.Background()
	const user = int64(106)

	eng.Handle(ctx, user, command("/start"))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategories}))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategory, Category: "Music"}))
	eng.Handle(ctx, user, selection(Selection{Kind: SelEvent, EventID: 2}))
	eng.Handle(ctx, user, selection(Selection{Kind: SelConfirm}))

	// Blank name re-prompts without advancing.
	eng.Handle(ctx, user, text("   "))
	if eng.stateOf(user) != StateAwaitingName {
		t.Fatalf("state = %q", eng.stateOf(user))
	}

	eng.Handle(ctx, user, text("Grace"))
	if eng.stateOf(user) != StateAwaitingEmail {
		t.Fatalf("state = %q", eng.stateOf(user))
	}

	// An address without @ re-prompts without booking.
	out := eng.Handle(ctx, user, text("not-an-email"))
	if eng.stateOf(user) != StateAwaitingEmail {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "email") {
		t.Fatalf("text = %q", out.Text)
	}
	if fin.calls != 0 {
		t.Fatalf("finalizer ran on invalid email: %d", fin.calls)
	}

	eng.Handle(ctx, user, text("grace@example.com"))
	if fin.calls != 1 {
		t.Fatalf("finalizer calls = %d", fin.calls)
	}
	if fin.event == nil || fin.event.ID != 2 {
		t.Fatalf("finalized event = %+v", fin.event)
	}
}

func TestBackFromDetailsClearsSelection(t *testing.T) {
	eng, _, _ := newTestEngine(false)
	ctx := context.Background()
	const user = int64(107)

	eng.Handle(ctx, user, command("/start"))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategories}))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategory, Category: "Music"}))
	eng.Handle(ctx, user, selection(Selection{Kind: SelEvent, EventID: 1}))

	out := eng.Handle(ctx, user, selection(Selection{Kind: SelBack}))
	if eng.stateOf(user) != StateEventList {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "Events in Music category") {
		t.Fatalf("text = %q", out.Text)
	}

	sess, release := eng.store.Acquire(user)
	selected := sess.SelectedEvent
	release()
	if selected != nil {
		t.Fatalf("selection not cleared: %+v", selected)
	}
}

func TestSkipEventListBooksByCategory(t *testing.T) {
	eng, cat, fin := newTestEngine(true)
	ctx := context.Background()
	const user = int64(108)

	eng.Handle(ctx, user, command("/start"))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategories}))
	out := eng.Handle(ctx, user, selection(Selection{Kind: SelCategory, Category: "Music"}))

	if eng.stateOf(user) != StateAwaitingName {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "Music category") {
		t.Fatalf("text = %q", out.Text)
	}
	if cat.eventCalls != 0 {
		t.Fatalf("events fetched in quick-booking mode: %d", cat.eventCalls)
	}

	eng.Handle(ctx, user, text("Ada"))
	eng.Handle(ctx, user, text("ada@example.com"))

	if fin.calls != 1 {
		t.Fatalf("finalizer calls = %d", fin.calls)
	}
	if fin.event != nil {
		t.Fatalf("expected category-only booking, got event %+v", fin.event)
	}
	if fin.category != "Music" {
		t.Fatalf("category = %q", fin.category)
	}
}

func TestExpiredCategorySelectionReprompts(t *testing.T) {
	eng, _, _ := newTestEngine(false)
	ctx := context.Background()
	const user = int64(109)

	eng.Handle(ctx, user, command("/start"))
	eng.Handle(ctx, user, selection(Selection{Kind: SelCategories}))
	out := eng.Handle(ctx, user, selection(Selection{Kind: SelCategory, Category: "Opera"}))

	if eng.stateOf(user) != StateCategoryList {
		t.Fatalf("state = %q", eng.stateOf(user))
	}
	if !strings.Contains(out.Text, "no longer listed") {
		t.Fatalf("text = %q", out.Text)
	}
}

func TestStateStaysWithinKnownSet(t *testing.T) {
	eng, _, _ := newTestEngine(false)
	ctx := context.Background()
	const user = int64(110)

	known := map[State]bool{
		StateMainMenu:      true,
		StateCategoryList:  true,
		StateEventList:     true,
		StateAwaitingName:  true,
		StateAwaitingEmail: true,
	}

	inputs := []Inbound{
		command("/start"),
		selection(Selection{Kind: SelCompanyInfo}),
		selection(Selection{Kind: SelContact}),
		selection(Selection{Kind: SelCategories}),
		selection(Selection{Kind: SelCategory, Category: "Music"}),
		selection(Selection{Kind: SelEvent, EventID: 1}),
		selection(Selection{Kind: SelConfirm}),
		text("Ada"),
		selection(Selection{Kind: SelMainMenu}),
		text("stray text"),
		selection(Selection{Kind: SelConfirm}),
	}

	for i, in := range inputs {
		eng.Handle(ctx, user, in)
		if st := eng.stateOf(user); !known[st] {
			t.Fatalf("input %d left unknown state %q", i, st)
		}
	}
}
