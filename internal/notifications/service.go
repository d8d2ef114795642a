package notifications

import (
	"context"
	"time"

	"cinebook/internal/bookings"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// Notifier turns booking records into Kafka events. Publishing is best
// effort: a broker outage never fails the booking that triggered it.
type Notifier struct {
	producer EventProducer
}

func NewNotifier(producer EventProducer) *Notifier {
	if producer == nil {
		producer = NopProducer{}
	}
	return &Notifier{producer: producer}
}

// BookingConfirmed implements bookings.Notifier
func (n *Notifier) BookingConfirmed(ctx context.Context, booking *bookings.Booking) {
	n.publish(ctx, BookingEventConfirmed, booking, "")
}

// BookingCancelled implements bookings.Notifier
func (n *Notifier) BookingCancelled(ctx context.Context, booking *bookings.Booking) {
	n.publish(ctx, BookingEventCancelled, booking, booking.CancelReason)
}

// BookingCompleted implements bookings.Notifier
func (n *Notifier) BookingCompleted(ctx context.Context, booking *bookings.Booking) {
	n.publish(ctx, BookingEventCompleted, booking, "")
}

func (n *Notifier) publish(ctx context.Context, eventType BookingEventType, booking *bookings.Booking, reason string) {
	event := &BookingEvent{
		ID:            uuid.New(),
		Type:          eventType,
		BookingID:     booking.ID,
		BookingRef:    booking.BookingRef,
		ShowingID:     booking.ShowingID,
		Seats:         []string(booking.SeatList),
		TotalAmount:   booking.TotalAmount,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		Reason:        reason,
		OccurredAt:    time.Now(),
	}

	if err := n.producer.PublishBookingEvent(ctx, event); err != nil {
		logger.GetDefault().WithError(err).Warn("Failed to publish booking event",
			"type", string(eventType),
			"booking_ref", booking.BookingRef,
		)
	}
}
