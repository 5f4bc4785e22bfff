package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Markup convention names accepted by NewClient.
const (
	MarkupClass = "class"
	MarkupID    = "id"
)

// markupParser extracts one event from a div.event record. The two
// implementations cover the two template conventions the site has shipped:
// class-based spans and id-tagged "Label: value" paragraphs.
type markupParser interface {
	name() string
	parseEvent(sel *goquery.Selection) (Event, error)
}

func parserFor(markup string) (markupParser, error) {
	switch markup {
	case MarkupClass, "":
		return classMarkup{}, nil
	case MarkupID:
		return idMarkup{}, nil
	default:
		return nil, fmt.Errorf("catalog: unknown markup convention %q", markup)
	}
}

// parseCategories reads category anchors from the landing page.
// Any malformed anchor invalidates the whole page: a partial category
// list would silently hide events from users.
func parseCategories(doc *goquery.Document, pageURL string) (map[string]string, error) {
	categories := make(map[string]string)
	var parseErr error

	doc.Find("a.category-link").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name := strings.TrimSpace(sel.Text())
		href, ok := sel.Attr("href")
		if name == "" || !ok || strings.TrimSpace(href) == "" {
			parseErr = &ParseError{URL: pageURL, Reason: "category anchor without name or href"}
			return false
		}
		categories[name] = strings.TrimSpace(href)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return categories, nil
}

// classMarkup reads the span/class template: attributes on the record div
// and classed spans for each field.
type classMarkup struct{}

func (classMarkup) name() string { return MarkupClass }

func (classMarkup) parseEvent(sel *goquery.Selection) (Event, error) {
	rawID, ok := sel.Attr("data-event-id")
	if !ok {
		return Event{}, fmt.Errorf("missing data-event-id attribute")
	}
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil {
		return Event{}, fmt.Errorf("bad data-event-id %q", rawID)
	}

	name := strings.TrimSpace(sel.Find("h2").First().Text())
	if name == "" {
		return Event{}, fmt.Errorf("event %d: empty name", id)
	}

	text := func(selector string) string {
		return strings.TrimSpace(sel.Find(selector).First().Text())
	}

	priority, err := strconv.Atoi(text("span.priority"))
	if err != nil {
		return Event{}, fmt.Errorf("event %d: bad priority", id)
	}
	participants, err := strconv.Atoi(text("span.participants"))
	if err != nil {
		return Event{}, fmt.Errorf("event %d: bad participants", id)
	}

	return Event{
		ID:           id,
		Name:         name,
		Category:     text("span.category"),
		StartDate:    strings.TrimSpace(text("span.date") + " " + text("span.time")),
		EndDate:      strings.TrimSpace(text("span.end-date") + " " + text("span.end-time")),
		Priority:     priority,
		Participants: participants,
		Description:  text("p.description"),
		Location:     text("span.venue"),
		Organizer:    text("span.organizer"),
	}, nil
}

// idMarkup reads the id-tagged template: paragraphs like
// <p id="event-name">Name: Jazz Night</p> inside the record div.
// The value is everything after the first colon, so dates containing
// colons survive intact.
type idMarkup struct{}

func (idMarkup) name() string { return MarkupID }

func (idMarkup) parseEvent(sel *goquery.Selection) (Event, error) {
	field := func(id string) (string, error) {
		node := sel.Find("p#event-" + id).First()
		if node.Length() == 0 {
			return "", fmt.Errorf("missing p#event-%s", id)
		}
		raw := node.Text()
		parts := strings.SplitN(raw, ":", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("p#event-%s has no label separator", id)
		}
		return strings.TrimSpace(parts[1]), nil
	}

	intField := func(id string) (int, error) {
		raw, err := field(id)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("p#event-%s has non-numeric value %q", id, raw)
		}
		return n, nil
	}

	id, err := intField("id")
	if err != nil {
		return Event{}, err
	}
	name, err := field("name")
	if err != nil {
		return Event{}, err
	}
	if name == "" {
		return Event{}, fmt.Errorf("event %d: empty name", id)
	}
	category, err := field("category")
	if err != nil {
		return Event{}, err
	}
	startDate, err := field("start-date")
	if err != nil {
		return Event{}, err
	}
	endDate, err := field("end-date")
	if err != nil {
		return Event{}, err
	}
	priority, err := intField("priority")
	if err != nil {
		return Event{}, err
	}
	participants, err := intField("participants")
	if err != nil {
		return Event{}, err
	}
	description, err := field("description")
	if err != nil {
		return Event{}, err
	}
	location, err := field("location")
	if err != nil {
		return Event{}, err
	}
	organizer, err := field("organizer")
	if err != nil {
		return Event{}, err
	}

	return Event{
		ID:           id,
		Name:         name,
		Category:     category,
		StartDate:    startDate,
		EndDate:      endDate,
		Priority:     priority,
		Participants: participants,
		Description:  description,
		Location:     location,
		Organizer:    organizer,
	}, nil
}
