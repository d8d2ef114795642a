package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BookingEventType identifies the lifecycle moment an event describes
type BookingEventType string

const (
	BookingEventConfirmed BookingEventType = "booking.confirmed"
	BookingEventCancelled BookingEventType = "booking.cancelled"
	BookingEventCompleted BookingEventType = "booking.completed"
)

// BookingEvent is the message published to Kafka for downstream consumers
// (email, analytics). Keyed by showing id so all events of one showing land
// on the same partition in order.
type BookingEvent struct {
	ID            uuid.UUID        `json:"id"`
	Type          BookingEventType `json:"type"`
	BookingID     uuid.UUID        `json:"booking_id"`
	BookingRef    string           `json:"booking_ref"`
	ShowingID     uuid.UUID        `json:"showing_id"`
	Seats         []string         `json:"seats"`
	TotalAmount   float64          `json:"total_amount"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	Reason        string           `json:"reason,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// ToJSON serializes the event for the wire
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetPartitionKey returns the Kafka partition key
func (e *BookingEvent) GetPartitionKey() string {
	return e.ShowingID.String()
}
