package bookings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"cinebook/internal/holds"
	"cinebook/internal/showings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*Booking
	createErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (r *fakeRepo) CreateBooking(_ context.Context, booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) GetBookingByRef(_ context.Context, ref string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.BookingRef == ref {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) UpdateBookingStatus(_ context.Context, id uuid.UUID, status Status, reason, cancelledBy string, cancelledAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = string(status)
	if reason != "" {
		b.CancelReason = reason
	}
	if cancelledBy != "" {
		b.CancelledBy = cancelledBy
	}
	b.CancelledAt = cancelledAt
	return nil
}

func (r *fakeRepo) ListBookings(_ context.Context, _ BookingListQuery) ([]Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) ListByShowing(_ context.Context, showingID uuid.UUID, statuses ...Status) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.ShowingID != showingID {
			continue
		}
		if len(statuses) == 0 {
			out = append(out, *b)
			continue
		}
		for _, s := range statuses {
			if b.Status == string(s) {
				out = append(out, *b)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) CompleteForShowing(_ context.Context, showingID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.bookings {
		if b.ShowingID == showingID && b.Status == string(StatusConfirmed) {
			b.Status = string(StatusCompleted)
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

// fakeSeatStore mimics the conditional claim of the real repository: the
// claim succeeds only when none of the requested seats is already booked,
// checked and applied under one lock.
type fakeSeatStore struct {
	mu       sync.Mutex
	showings map[uuid.UUID]*showings.Showing
	released [][]string
}

func newFakeSeatStore(list ...*showings.Showing) *fakeSeatStore {
	s := &fakeSeatStore{showings: make(map[uuid.UUID]*showings.Showing)}
	for _, sh := range list {
		s.showings[sh.ID] = sh
	}
	return s
}

func (s *fakeSeatStore) GetShowingByID(_ context.Context, id uuid.UUID) (*showings.Showing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.showings[id]
	if !ok {
		return nil, showings.ErrNotFound
	}
	copied := *sh
	copied.BookedSeats = append(pq.StringArray(nil), sh.BookedSeats...)
	return &copied, nil
}

func (s *fakeSeatStore) ClaimSeats(_ context.Context, id uuid.UUID, seats []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.showings[id]
	if !ok {
		return showings.ErrNotFound
	}
	if !showings.Status(sh.Status).IsBookable() {
		return showings.ErrShowingUnavailable
	}
	for _, seat := range seats {
		if sh.HasSeat(seat) {
			return showings.ErrSeatConflict
		}
	}
	sh.BookedSeats = append(sh.BookedSeats, seats...)
	return nil
}

func (s *fakeSeatStore) ReleaseSeats(_ context.Context, id uuid.UUID, seats []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.showings[id]
	if !ok {
		return showings.ErrNotFound
	}
	drop := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		drop[seat] = struct{}{}
	}
	kept := sh.BookedSeats[:0]
	for _, seat := range sh.BookedSeats {
		if _, gone := drop[seat]; !gone {
			kept = append(kept, seat)
		}
	}
	sh.BookedSeats = kept
	s.released = append(s.released, append([]string(nil), seats...))
	return nil
}

type recordingHoldRegistry struct {
	mu       sync.Mutex
	cleared  [][]string
	released []string
}

func (h *recordingHoldRegistry) ClearSeats(_ context.Context, _ uuid.UUID, seats []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleared = append(h.cleared, append([]string(nil), seats...))
	return nil
}

func (h *recordingHoldRegistry) ReleaseAllHoldsFor(_ context.Context, _ uuid.UUID, holderID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = append(h.released, holderID)
	return nil
}

type recordingBroadcaster struct {
	mu        sync.Mutex
	confirmed [][]string
}

func (b *recordingBroadcaster) HoldsUpdated(uuid.UUID, []holds.Hold) {}

func (b *recordingBroadcaster) SeatsConfirmed(_ uuid.UUID, seats []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmed = append(b.confirmed, append([]string(nil), seats...))
}

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []*Booking
	cancelled []*Booking
	completed []*Booking
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, b *Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, b)
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, b *Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, b)
}

func (n *recordingNotifier) BookingCompleted(_ context.Context, b *Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, b)
}

func activeShowing(booked ...string) *showings.Showing {
	return &showings.Showing{
		ID:          uuid.New(),
		Status:      string(showings.StatusActive),
		Multiplier:  1.5,
		TotalSeats:  180,
		BookedSeats: pq.StringArray(booked),
	}
}

func TestConfirmBookingSuccess(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	repo := newFakeRepo()
	seatStore := newFakeSeatStore(showing)
	registry := &recordingHoldRegistry{}
	broadcaster := &recordingBroadcaster{}
	notifier := &recordingNotifier{}
	svc := NewService(repo, seatStore, registry, broadcaster, notifier, 200)

	booking, err := svc.ConfirmBooking(ctx, ConfirmBookingRequest{
		ShowingID:     showing.ID.String(),
		Seats:         []string{"B2", "A1"},
		HolderID:      "alice-session",
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, booking)

	// Seats come back sorted and priced off the showing multiplier.
	assert.Equal(t, []string{"A1", "B2"}, []string(booking.SeatList))
	assert.Equal(t, 2, booking.SeatCount)
	assert.Equal(t, 200*1.5*2, booking.TotalAmount)
	assert.Equal(t, string(StatusConfirmed), booking.Status)
	assert.True(t, strings.HasPrefix(booking.BookingRef, "CBK-"))
	assert.True(t, strings.HasPrefix(booking.TicketCode, "TKT-"))
	assert.Contains(t, booking.TicketCode, booking.ID.String())

	stored, err := repo.GetBookingByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingRef, stored.BookingRef)

	updated, err := seatStore.GetShowingByID(ctx, showing.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasSeat("A1"))
	assert.True(t, updated.HasSeat("B2"))

	// Stale holds are cleared for the claimed seats and the whole holder.
	require.Len(t, registry.cleared, 1)
	assert.Equal(t, []string{"A1", "B2"}, registry.cleared[0])
	assert.Equal(t, []string{"alice-session"}, registry.released)

	require.Len(t, broadcaster.confirmed, 1)
	assert.ElementsMatch(t, []string{"A1", "B2"}, broadcaster.confirmed[0])

	require.Len(t, notifier.confirmed, 1)
	assert.Equal(t, booking.ID, notifier.confirmed[0].ID)
}

func TestConfirmBookingSeatConflict(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing("A1")
	repo := newFakeRepo()
	svc := NewService(repo, newFakeSeatStore(showing), nil, nil, nil, 200)

	_, err := svc.ConfirmBooking(ctx, ConfirmBookingRequest{
		ShowingID: showing.ID.String(),
		Seats:     []string{"A1", "A2"},
	})
	assert.ErrorIs(t, err, showings.ErrSeatConflict)
	assert.Equal(t, 0, repo.count())
}

func TestConfirmBookingDuplicateSeats(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	svc := NewService(newFakeRepo(), newFakeSeatStore(showing), nil, nil, nil, 200)

	_, err := svc.ConfirmBooking(ctx, ConfirmBookingRequest{
		ShowingID: showing.ID.String(),
		Seats:     []string{"A1", "A1"},
	})
	assert.ErrorIs(t, err, ErrDuplicateSeats)
}

func TestConfirmBookingUnavailableShowing(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	showing.Status = string(showings.StatusCompleted)
	svc := NewService(newFakeRepo(), newFakeSeatStore(showing), nil, nil, nil, 200)

	_, err := svc.ConfirmBooking(ctx, ConfirmBookingRequest{
		ShowingID: showing.ID.String(),
		Seats:     []string{"A1"},
	})
	assert.ErrorIs(t, err, showings.ErrShowingUnavailable)
}

func TestConfirmBookingInvalidShowingID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), newFakeSeatStore(), nil, nil, nil, 200)

	_, err := svc.ConfirmBooking(ctx, ConfirmBookingRequest{
		ShowingID: "not-a-uuid",
		Seats:     []string{"A1"},
	})
	assert.Error(t, err)
}

func TestConfirmBookingCreateFailureReleasesSeats(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	repo := newFakeRepo()
	repo.createErr = errors.New("insert failed")
	seatStore := newFakeSeatStore(showing)
	svc := NewService(repo, seatStore, nil, nil, nil, 200)

	_, err := svc.ConfirmBooking(ctx, ConfirmBookingRequest{
		ShowingID: showing.ID.String(),
		Seats:     []string{"A1", "A2"},
	})
	require.Error(t, err)

	// The claim was compensated; the seats are free again.
	updated, err := seatStore.GetShowingByID(ctx, showing.ID)
	require.NoError(t, err)
	assert.Empty(t, []string(updated.BookedSeats))
	require.Len(t, seatStore.released, 1)
	assert.Equal(t, []string{"A1", "A2"}, seatStore.released[0])
}

func TestConcurrentConfirmsOverlappingSeats(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	repo := newFakeRepo()
	seatStore := newFakeSeatStore(showing)
	svc := NewService(repo, seatStore, nil, nil, nil, 200)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ConfirmBooking(ctx, ConfirmBookingRequest{
				ShowingID: showing.ID.String(),
				Seats:     []string{"D4"},
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, showings.ErrSeatConflict)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, repo.count())
}

func TestConcurrentConfirmsDisjointSeats(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	repo := newFakeRepo()
	svc := NewService(repo, newFakeSeatStore(showing), nil, nil, nil, 200)

	seatSets := [][]string{{"A1", "A2"}, {"B1"}, {"C1", "C2", "C3"}}
	errs := make([]error, len(seatSets))
	var wg sync.WaitGroup
	for i, seats := range seatSets {
		wg.Add(1)
		go func(i int, seats []string) {
			defer wg.Done()
			_, errs[i] = svc.ConfirmBooking(ctx, ConfirmBookingRequest{
				ShowingID: showing.ID.String(),
				Seats:     seats,
			})
		}(i, seats)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, len(seatSets), repo.count())
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	repo := newFakeRepo()
	seatStore := newFakeSeatStore(showing)
	notifier := &recordingNotifier{}
	svc := NewService(repo, seatStore, nil, nil, notifier, 200)

	booking, err := svc.ConfirmBooking(ctx, ConfirmBookingRequest{
		ShowingID: showing.ID.String(),
		Seats:     []string{"A1", "A2"},
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(ctx, booking.ID, "change of plans", "customer")
	require.NoError(t, err)
	assert.Equal(t, string(StatusCancelled), cancelled.Status)
	assert.Equal(t, "change of plans", cancelled.CancelReason)
	assert.Equal(t, "customer", cancelled.CancelledBy)
	require.NotNil(t, cancelled.CancelledAt)

	// The seats went back into the pool.
	updated, err := seatStore.GetShowingByID(ctx, showing.ID)
	require.NoError(t, err)
	assert.Empty(t, []string(updated.BookedSeats))

	require.Len(t, notifier.cancelled, 1)

	// A cancelled booking cannot be cancelled again.
	_, err = svc.CancelBooking(ctx, booking.ID, "again", "customer")
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancelBookingRecordsAdminActor(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	repo := newFakeRepo()
	svc := NewService(repo, newFakeSeatStore(showing), nil, nil, nil, 200)

	booking, err := svc.ConfirmBooking(ctx, ConfirmBookingRequest{
		ShowingID: showing.ID.String(),
		Seats:     []string{"A1"},
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(ctx, booking.ID, "screening moved", "admin@cinebook.io")
	require.NoError(t, err)
	assert.Equal(t, "admin@cinebook.io", cancelled.CancelledBy)

	stored, err := repo.GetBookingByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@cinebook.io", stored.CancelledBy)
}

func TestCancelBookingStatusWriteFailureKeepsSeats(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	repo := newFakeRepo()
	seatStore := newFakeSeatStore(showing)
	svc := NewService(repo, seatStore, nil, nil, nil, 200)

	booking, err := svc.ConfirmBooking(ctx, ConfirmBookingRequest{
		ShowingID: showing.ID.String(),
		Seats:     []string{"A1"},
	})
	require.NoError(t, err)

	// The status write fails before any seat is released. The booking must
	// stay CONFIRMED with its seats still claimed, or a second customer
	// could confirm the same seat against a still-confirmed booking.
	repo.updateErr = errors.New("write failed")
	_, err = svc.CancelBooking(ctx, booking.ID, "change of plans", "customer")
	require.Error(t, err)

	stored, err := repo.GetBookingByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, string(StatusConfirmed), stored.Status)

	updated, err := seatStore.GetShowingByID(ctx, showing.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasSeat("A1"))

	// The seat is still taken, so a competing confirmation loses.
	repo.updateErr = nil
	_, err = svc.ConfirmBooking(ctx, ConfirmBookingRequest{
		ShowingID: showing.ID.String(),
		Seats:     []string{"A1"},
	})
	assert.ErrorIs(t, err, showings.ErrSeatConflict)

	// And the interrupted cancellation can simply be retried.
	cancelled, err := svc.CancelBooking(ctx, booking.ID, "change of plans", "customer")
	require.NoError(t, err)
	assert.Equal(t, string(StatusCancelled), cancelled.Status)
}

func TestCancelUnknownBooking(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), newFakeSeatStore(), nil, nil, nil, 200)

	_, err := svc.CancelBooking(ctx, uuid.New(), "", "customer")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteForShowing(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, newFakeSeatStore(showing), nil, nil, notifier, 200)

	for _, seats := range [][]string{{"A1"}, {"B1"}} {
		_, err := svc.ConfirmBooking(ctx, ConfirmBookingRequest{
			ShowingID: showing.ID.String(),
			Seats:     seats,
		})
		require.NoError(t, err)
	}

	completed, err := svc.CompleteForShowing(ctx, showing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), completed)

	// One completed event per finished booking.
	require.Len(t, notifier.completed, 2)
	for _, b := range notifier.completed {
		assert.Equal(t, string(StatusCompleted), b.Status)
	}

	// Completed bookings are terminal for the cancel path.
	list, _, err := svc.ListBookings(ctx, BookingListQuery{})
	require.NoError(t, err)
	for _, b := range list {
		assert.Equal(t, string(StatusCompleted), b.Status)
		assert.False(t, Status(b.Status).CanBeCancelled())
	}
}
