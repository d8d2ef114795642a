package holds

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyHeld means a live hold by a different holder exists for the
	// seat. First writer wins; a later request never displaces a live hold.
	ErrAlreadyHeld = errors.New("seat already held")

	// ErrAlreadyBooked means the seat is in the showing's confirmed set.
	ErrAlreadyBooked = errors.New("seat already booked")
)

// Hold is a soft, ephemeral seat claim. It exists only to keep two customers
// from colliding in the checkout flow; it is never consulted when a booking
// is confirmed and is simply lost on process restart.
type Hold struct {
	SeatID    string    `json:"seat_id"`
	HolderID  string    `json:"holder_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the hold is past its TTL at the given instant.
func (h Hold) Expired(now time.Time) bool {
	return now.After(h.ExpiresAt)
}

// Snapshot is the full seat state of a showing as of read time: the confirmed
// seats fetched fresh from storage plus all currently-unexpired holds.
type Snapshot struct {
	ShowingID      uuid.UUID `json:"showing_id"`
	Status         string    `json:"status"`
	ConfirmedSeats []string  `json:"confirmed_seats"`
	Holds          []Hold    `json:"holds"`
}

// Broadcaster pushes hold/occupancy deltas to everyone watching a showing.
// Best-effort: implementations must never block or fail the caller.
type Broadcaster interface {
	HoldsUpdated(showingID uuid.UUID, holds []Hold)
	SeatsConfirmed(showingID uuid.UUID, seats []string)
}

// NopBroadcaster discards all events. Used when no realtime transport is wired.
type NopBroadcaster struct{}

func (NopBroadcaster) HoldsUpdated(uuid.UUID, []Hold)     {}
func (NopBroadcaster) SeatsConfirmed(uuid.UUID, []string) {}
