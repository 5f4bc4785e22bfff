package bot

import (
	"testing"

	"github.com/eventease/eventbot/conversation"
)

func TestSelectionRoundTrip(t *testing.T) {
	cases := []conversation.Selection{
		{Kind: conversation.SelMainMenu},
		{Kind: conversation.SelCategories},
		{Kind: conversation.SelCompanyInfo},
		{Kind: conversation.SelContact},
		{Kind: conversation.SelCategory, Category: "Live Music"},
		{Kind: conversation.SelEvent, EventID: 42},
		{Kind: conversation.SelConfirm},
		{Kind: conversation.SelBack},
	}

	for _, sel := range cases {
		key, payload := encodeSelection(sel)
		decoded, ok := decodeSelection(key, payload)
		if !ok {
			t.Fatalf("decode failed for %+v (key=%q payload=%q)", sel, key, payload)
		}
		if decoded != sel {
			t.Fatalf("round trip %+v -> %+v", sel, decoded)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, ok := decodeSelection("bogus", ""); ok {
		t.Fatal("decoded unknown key")
	}
	if _, ok := decodeSelection(cbEvent, "not-a-number"); ok {
		t.Fatal("decoded non-numeric event id")
	}
	if _, ok := decodeSelection(cbCategory, ""); ok {
		t.Fatal("decoded empty category")
	}
}
