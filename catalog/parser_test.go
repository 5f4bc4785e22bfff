package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestParseCategories(t *testing.T) {
	doc := docFrom(t, `
		<html><body>
			<a class="category-link" href="/category/music/">Music</a>
			<a class="category-link" href="/category/cinema/">Cinema</a>
			<a href="/other/">Not a category</a>
		</body></html>`)

	categories, err := parseCategories(doc, "http://site/")
	if err != nil {
		t.Fatalf("parseCategories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories["Music"] != "/category/music/" {
		t.Fatalf("Music href = %q", categories["Music"])
	}
	if categories["Cinema"] != "/category/cinema/" {
		t.Fatalf("Cinema href = %q", categories["Cinema"])
	}
}

func TestParseCategoriesEmptyPage(t *testing.T) {
	doc := docFrom(t, `<html><body><p>no categories here</p></body></html>`)

	categories, err := parseCategories(doc, "http://site/")
	if err != nil {
		t.Fatalf("parseCategories: %v", err)
	}
	if len(categories) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(categories))
	}
}

func TestParseCategoriesMalformedAnchor(t *testing.T) {
	doc := docFrom(t, `
		<html><body>
			<a class="category-link" href="/category/music/">Music</a>
			<a class="category-link">Broken</a>
		</body></html>`)

	_, err := parseCategories(doc, "http://site/")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

const classEventHTML = `
<div class="event" data-event-id="12">
	<h2>Jazz Night</h2>
	<span class="date">2025-06-01</span>
	<span class="time">19:30</span>
	<span class="end-date">2025-06-01</span>
	<span class="end-time">23:00</span>
	<span class="category">Music</span>
	<span class="priority">2</span>
	<span class="participants">41</span>
	<span class="venue">Blue Hall</span>
	<span class="organizer">EventEase</span>
	<p class="description">An evening of live jazz.</p>
</div>`

func TestClassMarkupParseEvent(t *testing.T) {
	doc := docFrom(t, "<html><body>"+classEventHTML+"</body></html>")

	sel := doc.Find("div.event").First()
	ev, err := classMarkup{}.parseEvent(sel)
	if err != nil {
		t.Fatalf("parseEvent: %v", err)
	}

	if ev.ID != 12 {
		t.Fatalf("ID = %d", ev.ID)
	}
	if ev.Name != "Jazz Night" {
		t.Fatalf("Name = %q", ev.Name)
	}
	if ev.StartDate != "2025-06-01 19:30" {
		t.Fatalf("StartDate = %q", ev.StartDate)
	}
	if ev.EndDate != "2025-06-01 23:00" {
		t.Fatalf("EndDate = %q", ev.EndDate)
	}
	if ev.Priority != 2 || ev.Participants != 41 {
		t.Fatalf("Priority/Participants = %d/%d", ev.Priority, ev.Participants)
	}
	if ev.Location != "Blue Hall" || ev.Organizer != "EventEase" {
		t.Fatalf("Location/Organizer = %q/%q", ev.Location, ev.Organizer)
	}
	if ev.Description != "An evening of live jazz." {
		t.Fatalf("Description = %q", ev.Description)
	}
}

func TestClassMarkupRejectsBadNumbers(t *testing.T) {
	doc := docFrom(t, `
		<html><body>
		<div class="event" data-event-id="oops">
			<h2>Broken</h2>
			<span class="priority">1</span>
			<span class="participants">2</span>
		</div>
		</body></html>`)

	if _, err := (classMarkup{}).parseEvent(doc.Find("div.event").First()); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

const idEventHTML = `
<div class="event">
	<p id="event-id">ID: 7</p>
	<p id="event-name">Name: Comedy Gala</p>
	<p id="event-category">Category: Comedy</p>
	<p id="event-start-date">Start Date: 2025-07-04 20:00</p>
	<p id="event-end-date">End Date: 2025-07-04 22:30</p>
	<p id="event-priority">Priority: 1</p>
	<p id="event-participants">Participants: 120</p>
	<p id="event-description">Description: Stand-up night.</p>
	<p id="event-location">Location: Main Stage</p>
	<p id="event-organizer">Organizer: EventEase</p>
</div>`

func TestIDMarkupParseEvent(t *testing.T) {
	doc := docFrom(t, "<html><body>"+idEventHTML+"</body></html>")

	ev, err := idMarkup{}.parseEvent(doc.Find("div.event").First())
	if err != nil {
		t.Fatalf("parseEvent: %v", err)
	}

	if ev.ID != 7 {
		t.Fatalf("ID = %d", ev.ID)
	}
	if ev.Name != "Comedy Gala" {
		t.Fatalf("Name = %q", ev.Name)
	}
	// Values keep their own colons: only the first one separates the label.
	if ev.StartDate != "2025-07-04 20:00" {
		t.Fatalf("StartDate = %q", ev.StartDate)
	}
	if ev.EndDate != "2025-07-04 22:30" {
		t.Fatalf("EndDate = %q", ev.EndDate)
	}
	if ev.Participants != 120 {
		t.Fatalf("Participants = %d", ev.Participants)
	}
}

func TestIDMarkupMissingField(t *testing.T) {
	doc := docFrom(t, `
		<html><body>
		<div class="event">
			<p id="event-id">ID: 7</p>
			<p id="event-name">Name: Incomplete</p>
		</div>
		</body></html>`)

	if _, err := (idMarkup{}).parseEvent(doc.Find("div.event").First()); err == nil {
		t.Fatal("expected error for missing fields")
	}
}

func TestParserForUnknownMarkup(t *testing.T) {
	if _, err := parserFor("xml"); err == nil {
		t.Fatal("expected error for unknown markup")
	}
	p, err := parserFor("")
	if err != nil {
		t.Fatalf("parserFor default: %v", err)
	}
	if p.name() != MarkupClass {
		t.Fatalf("default parser = %q", p.name())
	}
}
