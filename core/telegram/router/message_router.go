package router

import (
	"time"

	tg "github.com/eventease/eventbot/core/telegram"
	"github.com/eventease/eventbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextFlow defines the minimal interface for a conversational text consumer.
// A flow claims free text for users whose dialog currently expects input.
type TextFlow interface {
	AwaitsText(userID int64) bool
	HandleText(c tele.Context) error
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoute builds the handler that routes free text updates.
// Text goes to the flow first when the user's dialog awaits input,
// then to registered commands, then to the registry fallback.
func TextRoute(flow TextFlow, reg *tg.Registry, opts TextOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if flow != nil && c.Sender() != nil && flow.AwaitsText(c.Sender().ID) {
			return handleWithSummary(c, "dialog", start, "", "", func() error {
				return flow.HandleText(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
