// Package catalog fetches event data from the server-rendered booking site.
// The site exposes no JSON API for listings, so categories and events are
// scraped from HTML pages.
package catalog

// Event is a single bookable event scraped from a category page.
// Dates are kept as the site renders them; the bot never needs to
// interpret them, only display them back to the user.
type Event struct {
	ID           int
	Name         string
	Category     string
	StartDate    string
	EndDate      string
	Priority     int
	Participants int
	Description  string
	Location     string
	Organizer    string
}
