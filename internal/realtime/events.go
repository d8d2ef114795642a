package realtime

import (
	"time"

	"cinebook/internal/holds"

	"github.com/google/uuid"
)

type EventType string

const (
	// EventHoldsUpdated carries the full live hold list of a showing.
	EventHoldsUpdated EventType = "holds.updated"

	// EventSeatsConfirmed carries the full confirmed-seat list of a showing.
	EventSeatsConfirmed EventType = "seats.confirmed"
)

// Event is one state push for a showing. Events carry the full current state,
// not deltas, so a dropped event never leaves a watcher permanently stale.
type Event struct {
	Type      EventType    `json:"type"`
	ShowingID uuid.UUID    `json:"showing_id"`
	Holds     []holds.Hold `json:"holds,omitempty"`
	Seats     []string     `json:"seats,omitempty"`
	At        time.Time    `json:"at"`
}
