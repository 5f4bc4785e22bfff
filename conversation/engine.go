// Package conversation implements the booking dialog state machine.
// The engine is transport-agnostic: it consumes normalized inputs and
// produces a message plus button options, leaving rendering to the bot
// layer.
package conversation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/eventease/eventbot/catalog"
	"github.com/eventease/eventbot/core/logger"
)

// Catalog supplies category and event listings.
type Catalog interface {
	FetchCategories(ctx context.Context) (map[string]string, error)
	FetchEvents(ctx context.Context, locator string) ([]catalog.Event, error)
}

// Finalizer completes a booking and composes the confirmation message.
// It never fails: degraded confirmations are still confirmations.
type Finalizer interface {
	Finalize(ctx context.Context, ev *catalog.Event, category, name, email string) string
}

// Engine drives one dialog per user.
//
// When skipEventList is set, picking a category jumps straight to the
// guest details prompts and the booking confirms without a specific
// event. This mirrors the site's quick-booking mode.
type Engine struct {
	store         *Store
	catalog       Catalog
	finalizer     Finalizer
	skipEventList bool
}

// NewEngine wires the dialog engine.
func NewEngine(store *Store, cat Catalog, fin Finalizer, skipEventList bool) *Engine {
	return &Engine{
		store:         store,
		catalog:       cat,
		finalizer:     fin,
		skipEventList: skipEventList,
	}
}

// AwaitsText reports whether the user's dialog expects typed input.
func (e *Engine) AwaitsText(userID int64) bool {
	sess, release := e.store.Acquire(userID)
	defer release()
	return sess.awaitsText()
}

// Handle applies one input to the user's session and returns the reply.
// The session stays locked for the whole call, so inputs from the same
// user are processed strictly one at a time.
func (e *Engine) Handle(ctx context.Context, userID int64, in Inbound) Outbound {
	sess, release := e.store.Acquire(userID)
	defer release()

	prev := sess.State
	out := e.dispatch(ctx, sess, in)

	logger.Debug(ctx, "conversation", "dialog.handled",
		slog.Int64("user_id", userID),
		slog.String("state", string(prev)),
		slog.String("next_state", string(sess.State)),
	)
	return out
}

func (e *Engine) dispatch(ctx context.Context, sess *Session, in Inbound) Outbound {
	// Commands restart the dialog from any state, as does the
	// main-menu button.
	if in.Kind == KindCommand {
		sess.reset()
		return mainMenuScreen()
	}
	if in.Kind == KindSelection && in.Selection.Kind == SelMainMenu {
		sess.reset()
		return mainMenuScreen()
	}

	switch sess.State {
	case StateMainMenu:
		return e.handleMainMenu(ctx, sess, in)
	case StateCategoryList:
		return e.handleCategoryList(ctx, sess, in)
	case StateEventList:
		if sess.SelectedEvent != nil {
			return e.handleEventDetails(ctx, sess, in)
		}
		return e.handleEventList(ctx, sess, in)
	case StateAwaitingName:
		return e.handleAwaitingName(sess, in)
	case StateAwaitingEmail:
		return e.handleAwaitingEmail(ctx, sess, in)
	default:
		sess.reset()
		return mainMenuScreen()
	}
}

func (e *Engine) handleMainMenu(ctx context.Context, sess *Session, in Inbound) Outbound {
	if in.Kind != KindSelection {
		return mainMenuScreen()
	}
	switch in.Selection.Kind {
	case SelCategories:
		return e.showCategories(ctx, sess)
	case SelCompanyInfo:
		return Outbound{Text: companyInfoText, Options: backToMenuOptions()}
	case SelContact:
		return Outbound{Text: contactText, Options: backToMenuOptions()}
	default:
		return mainMenuScreen()
	}
}

func (e *Engine) handleCategoryList(ctx context.Context, sess *Session, in Inbound) Outbound {
	if in.Kind != KindSelection {
		return categoryListScreen(sess, selectCategoryText)
	}
	switch in.Selection.Kind {
	case SelCategory:
		return e.openCategory(ctx, sess, in.Selection.Category)
	case SelCategories:
		return e.showCategories(ctx, sess)
	case SelBack:
		sess.reset()
		return mainMenuScreen()
	default:
		return categoryListScreen(sess, selectCategoryText)
	}
}

func (e *Engine) handleEventList(ctx context.Context, sess *Session, in Inbound) Outbound {
	if in.Kind != KindSelection {
		return eventListScreen(sess)
	}
	switch in.Selection.Kind {
	case SelEvent:
		ev, ok := findEvent(sess.Events, in.Selection.EventID)
		if !ok {
			out := eventListScreen(sess)
			out.Text = eventExpiredText
			return out
		}
		sess.SelectedEvent = &ev
		return eventDetailsScreen(&ev)
	case SelCategories, SelBack:
		return e.showCategories(ctx, sess)
	default:
		return eventListScreen(sess)
	}
}

func (e *Engine) handleEventDetails(ctx context.Context, sess *Session, in Inbound) Outbound {
	if in.Kind != KindSelection {
		return eventDetailsScreen(sess.SelectedEvent)
	}
	switch in.Selection.Kind {
	case SelConfirm:
		sess.State = StateAwaitingName
		return Outbound{
			Text: namePromptText,
			Options: []Option{
				{Label: "🔙 Back to Event Details", Selection: Selection{Kind: SelEvent, EventID: sess.SelectedEvent.ID}},
			},
		}
	case SelBack:
		sess.SelectedEvent = nil
		return eventListScreen(sess)
	case SelEvent:
		ev, ok := findEvent(sess.Events, in.Selection.EventID)
		if !ok {
			sess.SelectedEvent = nil
			out := eventListScreen(sess)
			out.Text = eventExpiredText
			return out
		}
		sess.SelectedEvent = &ev
		return eventDetailsScreen(&ev)
	case SelCategories:
		return e.showCategories(ctx, sess)
	default:
		return eventDetailsScreen(sess.SelectedEvent)
	}
}

func (e *Engine) handleAwaitingName(sess *Session, in Inbound) Outbound {
	if in.Kind == KindSelection && in.Selection.Kind == SelEvent && sess.SelectedEvent != nil {
		// Back to event details aborts the prompt.
		sess.State = StateEventList
		return eventDetailsScreen(sess.SelectedEvent)
	}
	if in.Kind != KindText {
		return Outbound{Text: nameEmptyText}
	}
	name := strings.TrimSpace(in.Text)
	if name == "" {
		return Outbound{Text: nameEmptyText}
	}
	sess.Name = name
	sess.State = StateAwaitingEmail
	return Outbound{Text: emailPromptText(name)}
}

func (e *Engine) handleAwaitingEmail(ctx context.Context, sess *Session, in Inbound) Outbound {
	if in.Kind != KindText {
		return Outbound{Text: emailInvalidText}
	}
	email := strings.TrimSpace(in.Text)
	if email == "" || !strings.Contains(email, "@") {
		return Outbound{Text: emailInvalidText}
	}
	sess.Email = email

	msg := e.finalizer.Finalize(ctx, sess.SelectedEvent, sess.SelectedCategory, sess.Name, sess.Email)

	sess.reset()
	return Outbound{Text: msg, Options: backToMenuOptions()}
}

// showCategories fetches the category list and moves to the category
// screen. Failures and empty listings keep the user on the main menu.
func (e *Engine) showCategories(ctx context.Context, sess *Session) Outbound {
	categories, err := e.catalog.FetchCategories(ctx)
	if err != nil || len(categories) == 0 {
		if err != nil {
			logger.Warn(ctx, "conversation", "categories.unavailable",
				slog.String("err", err.Error()),
				slog.String("outcome", "degraded"),
			)
		}
		sess.reset()
		out := mainMenuScreen()
		out.Text = categoriesFailedText
		return out
	}

	sess.Categories = categories
	sess.Events = nil
	sess.SelectedCategory = ""
	sess.SelectedEvent = nil
	sess.State = StateCategoryList
	return categoryListScreen(sess, selectCategoryText)
}

// openCategory resolves a picked category against the session snapshot.
func (e *Engine) openCategory(ctx context.Context, sess *Session, category string) Outbound {
	locator, ok := sess.Categories[category]
	if !ok {
		return categoryListScreen(sess, categoryExpiredText)
	}

	sess.SelectedCategory = category
	sess.SelectedEvent = nil

	if e.skipEventList {
		sess.State = StateAwaitingName
		return Outbound{Text: categoryChosenText(category)}
	}

	events, err := e.catalog.FetchEvents(ctx, locator)
	if err != nil {
		logger.Warn(ctx, "conversation", "events.unavailable",
			slog.String("category", category),
			slog.String("err", err.Error()),
			slog.String("outcome", "degraded"),
		)
		sess.reset()
		out := mainMenuScreen()
		out.Text = eventsFailedText
		return out
	}
	if len(events) == 0 {
		sess.reset()
		out := mainMenuScreen()
		out.Text = noEventsText(category)
		return out
	}

	sess.Events = events
	sess.State = StateEventList
	return eventListScreen(sess)
}

func findEvent(events []catalog.Event, id int) (catalog.Event, bool) {
	for _, ev := range events {
		if ev.ID == id {
			return ev, true
		}
	}
	return catalog.Event{}, false
}

func mainMenuScreen() Outbound {
	return Outbound{
		Text: welcomeText,
		Options: []Option{
			{Label: "📋 Event Categories List", Selection: Selection{Kind: SelCategories}},
			{Label: "ℹ️ Company Info", Selection: Selection{Kind: SelCompanyInfo}},
			{Label: "📞 Contact Us", Selection: Selection{Kind: SelContact}},
		},
	}
}

func backToMenuOptions() []Option {
	return []Option{{Label: "🔙 Back to Main Menu", Selection: Selection{Kind: SelMainMenu}}}
}

func categoryListScreen(sess *Session, text string) Outbound {
	names := catalog.CategoryNames(sess.Categories)
	options := make([]Option, 0, len(names)+1)
	for _, name := range names {
		options = append(options, Option{
			Label:     name,
			Selection: Selection{Kind: SelCategory, Category: name},
		})
	}
	options = append(options, Option{Label: "🔙 Back to Main Menu", Selection: Selection{Kind: SelMainMenu}})
	return Outbound{Text: text, Options: options}
}

func eventListScreen(sess *Session) Outbound {
	options := make([]Option, 0, len(sess.Events)+1)
	for _, ev := range sess.Events {
		options = append(options, Option{
			Label:     ev.Name,
			Selection: Selection{Kind: SelEvent, EventID: ev.ID},
		})
	}
	options = append(options, Option{Label: "🔙 Back to Categories", Selection: Selection{Kind: SelCategories}})
	return Outbound{Text: eventsHeaderText(sess.SelectedCategory), Options: options}
}

func eventDetailsScreen(ev *catalog.Event) Outbound {
	return Outbound{
		Text: eventDetailsText(ev),
		Options: []Option{
			{Label: "Yes, book now", Selection: Selection{Kind: SelConfirm}},
			{Label: "🔙 Back to Events", Selection: Selection{Kind: SelBack}},
		},
	}
}
