package bot

import (
	"strconv"

	"github.com/eventease/eventbot/conversation"
)

// Callback keys carried in inline button data. Keys stay short because
// Telegram limits callback data to 64 bytes including the payload.
const (
	cbMenu       = "menu"
	cbCategories = "cats"
	cbInfo       = "info"
	cbContact    = "contact"
	cbCategory   = "cat"
	cbEvent      = "event"
	cbConfirm    = "confirm"
	cbBack       = "back"
)

// encodeSelection maps a dialog selection onto a callback key and payload.
func encodeSelection(sel conversation.Selection) (key, payload string) {
	switch sel.Kind {
	case conversation.SelMainMenu:
		return cbMenu, ""
	case conversation.SelCategories:
		return cbCategories, ""
	case conversation.SelCompanyInfo:
		return cbInfo, ""
	case conversation.SelContact:
		return cbContact, ""
	case conversation.SelCategory:
		return cbCategory, sel.Category
	case conversation.SelEvent:
		return cbEvent, strconv.Itoa(sel.EventID)
	case conversation.SelConfirm:
		return cbConfirm, ""
	case conversation.SelBack:
		return cbBack, ""
	default:
		return cbMenu, ""
	}
}

// decodeSelection is the inverse of encodeSelection. It reports false
// for unknown keys and malformed payloads.
func decodeSelection(key, payload string) (conversation.Selection, bool) {
	switch key {
	case cbMenu:
		return conversation.Selection{Kind: conversation.SelMainMenu}, true
	case cbCategories:
		return conversation.Selection{Kind: conversation.SelCategories}, true
	case cbInfo:
		return conversation.Selection{Kind: conversation.SelCompanyInfo}, true
	case cbContact:
		return conversation.Selection{Kind: conversation.SelContact}, true
	case cbCategory:
		if payload == "" {
			return conversation.Selection{}, false
		}
		return conversation.Selection{Kind: conversation.SelCategory, Category: payload}, true
	case cbEvent:
		id, err := strconv.Atoi(payload)
		if err != nil {
			return conversation.Selection{}, false
		}
		return conversation.Selection{Kind: conversation.SelEvent, EventID: id}, true
	case cbConfirm:
		return conversation.Selection{Kind: conversation.SelConfirm}, true
	case cbBack:
		return conversation.Selection{Kind: conversation.SelBack}, true
	default:
		return conversation.Selection{}, false
	}
}
