// Package booking finalizes confirmed bookings against the site's
// participant counter endpoint.
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eventease/eventbot/catalog"
	"github.com/eventease/eventbot/core/logger"
)

const defaultTimeout = 10 * time.Second

const degradedText = "Your booking is confirmed, but we couldn't update the participant count."

// Recorder captures completed bookings. Failures are logged, never
// surfaced to the guest.
type Recorder interface {
	Record(ctx context.Context, ev *catalog.Event, category, name, email string, degraded bool) error
}

// Finalizer completes bookings by bumping the participant counter on
// the site and composing the confirmation message.
//
// Finalize never fails: once the guest has supplied name and email the
// booking is confirmed, and counter trouble only degrades the message.
type Finalizer struct {
	base     *url.URL
	http     *http.Client
	recorder Recorder
}

// NewFinalizer builds a finalizer for the given site root.
// recorder may be nil when no ledger is configured.
func NewFinalizer(baseURL string, timeout time.Duration, recorder Recorder) (*Finalizer, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Finalizer{
		base:     base,
		http:     &http.Client{Timeout: timeout},
		recorder: recorder,
	}, nil
}

// Finalize completes the booking and returns the confirmation text.
// A nil event means a quick booking for the category alone; no counter
// update is attempted for those.
func (f *Finalizer) Finalize(ctx context.Context, ev *catalog.Event, category, name, email string) string {
	var (
		message  string
		degraded bool
	)

	if ev == nil {
		message = categoryConfirmation(category, name, email)
	} else {
		participants, err := f.incrementParticipants(ctx, ev.ID)
		if err != nil {
			logger.Warn(ctx, "booking", "participants.update_failed",
				slog.Int("event_id", ev.ID),
				slog.String("err", err.Error()),
				slog.Bool("booking_degraded", true),
				slog.String("outcome", "degraded"),
			)
			message = degradedText
			degraded = true
		} else {
			message = eventConfirmation(ev, category, name, email, participants)
		}
	}

	if f.recorder != nil {
		if err := f.recorder.Record(ctx, ev, category, name, email, degraded); err != nil {
			logger.Error(ctx, "booking", "ledger.write_failed",
				slog.String("err", err.Error()),
			)
		}
	}

	logger.Info(ctx, "booking", "booking.finalized",
		slog.String("category", category),
		slog.Bool("booking_degraded", degraded),
	)
	return message
}

// incrementParticipants calls POST increment_participants/{id}/ and
// returns the fresh counter value reported by the site.
func (f *Finalizer) incrementParticipants(ctx context.Context, eventID int) (int, error) {
	ref := &url.URL{Path: fmt.Sprintf("increment_participants/%d/", eventID)}
	endpoint := f.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Participants int `json:"participants"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return body.Participants, nil
}

func eventConfirmation(ev *catalog.Event, category, name, email string, participants int) string {
	var b strings.Builder
	if category != "" {
		fmt.Fprintf(&b, "Your booking for '%s' in the %s category is confirmed!\n\n", ev.Name, category)
	} else {
		fmt.Fprintf(&b, "Your booking for '%s' is confirmed!\n\n", ev.Name)
	}
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\n\n", name, email)
	fmt.Fprintf(&b, "You are participant number %d!\n\n", participants)
	b.WriteString("Thank you for using EventEase!")
	return b.String()
}

func categoryConfirmation(category, name, email string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your booking for the %s category is confirmed!\n\n", category)
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\n\n", name, email)
	b.WriteString("Thank you for using EventEase!")
	return b.String()
}
