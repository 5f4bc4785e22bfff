package booking

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/eventease/eventbot/catalog"
)

// Ledger persists completed bookings for bookkeeping.
// It is strictly write-behind: a failed insert never blocks or fails
// the booking itself.
type Ledger struct {
	db *sqlx.DB
}

// NewLedger wraps the shared database handle.
func NewLedger(db *sqlx.DB) *Ledger {
	return &Ledger{db: db}
}

type bookingRow struct {
	EventID   *int   `db:"event_id"`
	EventName string `db:"event_name"`
	Category  string `db:"category"`
	GuestName string `db:"guest_name"`
	Email     string `db:"email"`
	Degraded  bool   `db:"degraded"`
}

// Record inserts one booking row. ev may be nil for category-only
// bookings made in quick-booking mode.
func (l *Ledger) Record(ctx context.Context, ev *catalog.Event, category, name, email string, degraded bool) error {
	row := bookingRow{
		Category:  category,
		GuestName: name,
		Email:     email,
		Degraded:  degraded,
	}
	if ev != nil {
		id := ev.ID
		row.EventID = &id
		row.EventName = ev.Name
	}

	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO bookings (event_id, event_name, category, guest_name, email, degraded)
		VALUES (:event_id, :event_name, :category, :guest_name, :email, :degraded)`,
		row,
	)
	return err
}
