package notifications

import (
	"context"
	"errors"
	"testing"

	"cinebook/internal/bookings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	events []*BookingEvent
	err    error
}

func (p *recordingProducer) PublishBookingEvent(_ context.Context, event *BookingEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingProducer) Close() error                        { return nil }
func (p *recordingProducer) HealthCheck(_ context.Context) error { return nil }

func sampleBooking() *bookings.Booking {
	return &bookings.Booking{
		ID:            uuid.New(),
		ShowingID:     uuid.New(),
		SeatList:      pq.StringArray{"A1", "A2"},
		SeatCount:     2,
		TotalAmount:   600,
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Status:        "CONFIRMED",
		BookingRef:    "CBK-20260314-ABCDEF",
	}
}

func TestNotifierBookingConfirmed(t *testing.T) {
	producer := &recordingProducer{}
	notifier := NewNotifier(producer)
	booking := sampleBooking()

	notifier.BookingConfirmed(context.Background(), booking)

	require.Len(t, producer.events, 1)
	ev := producer.events[0]
	assert.Equal(t, BookingEventConfirmed, ev.Type)
	assert.Equal(t, booking.ID, ev.BookingID)
	assert.Equal(t, booking.BookingRef, ev.BookingRef)
	assert.Equal(t, booking.ShowingID, ev.ShowingID)
	assert.Equal(t, []string{"A1", "A2"}, ev.Seats)
	assert.Equal(t, booking.TotalAmount, ev.TotalAmount)
	assert.Empty(t, ev.Reason)
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestNotifierBookingCancelledCarriesReason(t *testing.T) {
	producer := &recordingProducer{}
	notifier := NewNotifier(producer)
	booking := sampleBooking()
	booking.Status = "CANCELLED"
	booking.CancelReason = "change of plans"

	notifier.BookingCancelled(context.Background(), booking)

	require.Len(t, producer.events, 1)
	assert.Equal(t, BookingEventCancelled, producer.events[0].Type)
	assert.Equal(t, "change of plans", producer.events[0].Reason)
}

func TestNotifierBookingCompleted(t *testing.T) {
	producer := &recordingProducer{}
	notifier := NewNotifier(producer)
	booking := sampleBooking()
	booking.Status = "COMPLETED"

	notifier.BookingCompleted(context.Background(), booking)

	require.Len(t, producer.events, 1)
	assert.Equal(t, BookingEventCompleted, producer.events[0].Type)
	assert.Empty(t, producer.events[0].Reason)
}

func TestNotifierSwallowsPublishErrors(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	notifier := NewNotifier(producer)

	// Must not panic or propagate; publishing is best effort.
	notifier.BookingConfirmed(context.Background(), sampleBooking())
	assert.Empty(t, producer.events)
}

func TestNotifierNilProducerDefaultsToNop(t *testing.T) {
	notifier := NewNotifier(nil)
	notifier.BookingConfirmed(context.Background(), sampleBooking())
	notifier.BookingCancelled(context.Background(), sampleBooking())
}

func TestBookingEventPartitionKey(t *testing.T) {
	ev := &BookingEvent{ShowingID: uuid.New()}
	assert.Equal(t, ev.ShowingID.String(), ev.GetPartitionKey())
}
