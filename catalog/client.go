package catalog

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/eventease/eventbot/core/logger"
)

const defaultTimeout = 10 * time.Second

// Client scrapes categories and events from the booking site.
//
// Requests are single-shot: a failed fetch surfaces to the conversation
// layer immediately so the user gets a fresh answer instead of a stale
// retry loop. The Telegram transport retries; this client does not.
type Client struct {
	base   *url.URL
	http   *http.Client
	parser markupParser
}

// NewClient builds a catalog client for the given site root.
// markup selects the template convention, MarkupClass when empty.
func NewClient(baseURL string, timeout time.Duration, markup string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	parser, err := parserFor(markup)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout, Transport: transport},
		parser: parser,
	}, nil
}

// FetchCategories scrapes the landing page and returns category names
// mapped to absolute category page URLs. A page with no category anchors
// yields an empty map, not an error.
func (c *Client) FetchCategories(ctx context.Context) (map[string]string, error) {
	pageURL := c.base.String()
	start := time.Now()

	doc, err := c.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	categories, err := parseCategories(doc, pageURL)
	if err != nil {
		logger.Error(ctx, "catalog", "categories.parse_failed",
			slog.String("url", pageURL),
			slog.String("err", err.Error()),
		)
		return nil, err
	}

	// Resolve relative hrefs against the site root.
	for name, href := range categories {
		ref, err := url.Parse(href)
		if err != nil {
			logger.Error(ctx, "catalog", "categories.parse_failed",
				slog.String("url", pageURL),
				slog.String("err", err.Error()),
			)
			return nil, &ParseError{URL: pageURL, Reason: "unparsable category href " + href}
		}
		categories[name] = c.base.ResolveReference(ref).String()
	}

	logger.Debug(ctx, "catalog", "categories.fetched",
		slog.String("url", pageURL),
		slog.Int("categories", len(categories)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return categories, nil
}

// FetchEvents scrapes a category page. Malformed event records are
// skipped with a warning; well-formed records around them survive in
// page order.
func (c *Client) FetchEvents(ctx context.Context, locator string) ([]Event, error) {
	start := time.Now()

	doc, err := c.fetch(ctx, locator)
	if err != nil {
		return nil, err
	}

	var (
		events  []Event
		skipped int
	)
	doc.Find("div.event").Each(func(i int, sel *goquery.Selection) {
		ev, err := c.parser.parseEvent(sel)
		if err != nil {
			skipped++
			logger.Warn(ctx, "catalog", "event.record_skipped",
				slog.String("url", locator),
				slog.String("markup", c.parser.name()),
				slog.Int("record", i),
				slog.String("err", err.Error()),
			)
			return
		}
		events = append(events, ev)
	})

	logger.Debug(ctx, "catalog", "events.fetched",
		slog.String("url", locator),
		slog.Int("events", len(events)),
		slog.Int("skipped", skipped),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return events, nil
}

// CategoryNames returns map keys sorted for stable keyboard ordering.
func CategoryNames(categories map[string]string) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Client) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error(ctx, "catalog", "fetch.failed",
			slog.String("url", pageURL),
			slog.String("err", err.Error()),
		)
		return nil, &TransportError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error(ctx, "catalog", "fetch.failed",
			slog.String("url", pageURL),
			slog.Int("http_code", resp.StatusCode),
		)
		return nil, &TransportError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Reason: "unreadable document: " + err.Error()}
	}
	return doc, nil
}
