package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/eventease/eventbot/conversation"
	"github.com/eventease/eventbot/core/telegram/callbacks"
	tghelpers "github.com/eventease/eventbot/core/telegram/helpers"
	"github.com/eventease/eventbot/core/telegram/keyboard"
)

// handleUpdate runs one input through the dialog engine and delivers
// the reply. Callback-driven screens edit the originating message,
// typed input gets a fresh message.
func (a *App) handleUpdate(c tele.Context, in conversation.Inbound) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	out := a.engine.Handle(ctx, sender.ID, in)

	markup := renderOptions(out.Options)
	if c.Callback() != nil {
		return tghelpers.EditOrSend(c, out.Text, markup)
	}
	if markup != nil {
		return tghelpers.SendKeyboard(c, out.Text, markup)
	}
	return tghelpers.SendText(c, out.Text)
}

// renderOptions converts dialog options into an inline keyboard,
// one button per row as the site flow expects.
func renderOptions(options []conversation.Option) *tele.ReplyMarkup {
	if len(options) == 0 {
		return nil
	}
	buttons := make([]keyboard.InlineBtn, 0, len(options))
	for _, opt := range options {
		key, payload := encodeSelection(opt.Selection)
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   opt.Label,
			Unique: key,
			Data:   payload,
		})
	}
	return keyboard.InlineButtons(buttons)
}

// commandHandler restarts the dialog for the named command.
func (a *App) commandHandler(command string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return a.handleUpdate(c, conversation.Inbound{
			Kind:    conversation.KindCommand,
			Command: command,
		})
	}
}

// callbackHandler decodes the pressed button and feeds it to the engine.
func (a *App) callbackHandler(key string) tele.HandlerFunc {
	return func(c tele.Context) error {
		payload := callbacks.CallbackPayload(c)
		sel, ok := decodeSelection(key, payload)
		if !ok {
			_ = c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
			return nil
		}
		return a.handleUpdate(c, conversation.Inbound{
			Kind:      conversation.KindSelection,
			Selection: sel,
		})
	}
}

// textFlow adapts the engine to the message router's TextFlow interface.
type textFlow struct {
	app *App
}

func (f textFlow) AwaitsText(userID int64) bool {
	return f.app.engine.AwaitsText(userID)
}

func (f textFlow) HandleText(c tele.Context) error {
	return f.app.handleUpdate(c, conversation.Inbound{
		Kind: conversation.KindText,
		Text: c.Text(),
	})
}
