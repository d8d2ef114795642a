package holds

import (
	"context"
	"sync"
	"testing"
	"time"

	"cinebook/internal/showings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShowingReader struct {
	mu       sync.Mutex
	showings map[uuid.UUID]*showings.Showing
}

func newFakeShowingReader(list ...*showings.Showing) *fakeShowingReader {
	r := &fakeShowingReader{showings: make(map[uuid.UUID]*showings.Showing)}
	for _, s := range list {
		r.showings[s.ID] = s
	}
	return r
}

func (r *fakeShowingReader) GetShowingByID(_ context.Context, id uuid.UUID) (*showings.Showing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.showings[id]
	if !ok {
		return nil, showings.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

type recordedEvent struct {
	showingID uuid.UUID
	holds     []Hold
	seats     []string
}

type recordingBroadcaster struct {
	mu            sync.Mutex
	holdEvents    []recordedEvent
	confirmEvents []recordedEvent
}

func (b *recordingBroadcaster) HoldsUpdated(showingID uuid.UUID, live []Hold) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.holdEvents = append(b.holdEvents, recordedEvent{showingID: showingID, holds: live})
}

func (b *recordingBroadcaster) SeatsConfirmed(showingID uuid.UUID, seats []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmEvents = append(b.confirmEvents, recordedEvent{showingID: showingID, seats: seats})
}

func (b *recordingBroadcaster) holdEventCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.holdEvents)
}

func activeShowing(booked ...string) *showings.Showing {
	return &showings.Showing{
		ID:          uuid.New(),
		Status:      string(showings.StatusActive),
		BookedSeats: pq.StringArray(booked),
	}
}

func TestServicePlaceHold(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	broadcaster := &recordingBroadcaster{}
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), broadcaster, 5*time.Minute)

	require.NoError(t, svc.PlaceHold(ctx, showing.ID, "A1", "alice"))

	snap, err := svc.Snapshot(ctx, showing.ID)
	require.NoError(t, err)
	require.Len(t, snap.Holds, 1)
	assert.Equal(t, "A1", snap.Holds[0].SeatID)
	assert.Equal(t, "alice", snap.Holds[0].HolderID)

	require.Equal(t, 1, broadcaster.holdEventCount())
	assert.Equal(t, showing.ID, broadcaster.holdEvents[0].showingID)
	require.Len(t, broadcaster.holdEvents[0].holds, 1)
}

func TestServicePlaceHoldConflicts(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), nil, 5*time.Minute)

	require.NoError(t, svc.PlaceHold(ctx, showing.ID, "A1", "alice"))
	assert.ErrorIs(t, svc.PlaceHold(ctx, showing.ID, "A1", "bob"), ErrAlreadyHeld)
}

func TestServicePlaceHoldOnBookedSeat(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing("A1")
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), nil, 5*time.Minute)

	assert.ErrorIs(t, svc.PlaceHold(ctx, showing.ID, "A1", "alice"), ErrAlreadyBooked)
}

func TestServicePlaceHoldOnUnavailableShowing(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	showing.Status = string(showings.StatusInactive)
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), nil, 5*time.Minute)

	assert.ErrorIs(t, svc.PlaceHold(ctx, showing.ID, "A1", "alice"), showings.ErrShowingUnavailable)
}

func TestServicePlaceHoldUnknownShowing(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), newFakeShowingReader(), nil, 5*time.Minute)

	assert.ErrorIs(t, svc.PlaceHold(ctx, uuid.New(), "A1", "alice"), showings.ErrNotFound)
}

func TestServiceReleaseHold(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	broadcaster := &recordingBroadcaster{}
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), broadcaster, 5*time.Minute)

	require.NoError(t, svc.PlaceHold(ctx, showing.ID, "A1", "alice"))
	require.NoError(t, svc.ReleaseHold(ctx, showing.ID, "A1", "alice"))

	snap, err := svc.Snapshot(ctx, showing.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.Holds)

	// Place then release broadcasts twice; the second event carries an
	// empty hold list.
	require.Equal(t, 2, broadcaster.holdEventCount())
	assert.Empty(t, broadcaster.holdEvents[1].holds)
}

func TestServiceReleaseAbsentHoldIsQuiet(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	broadcaster := &recordingBroadcaster{}
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), broadcaster, 5*time.Minute)

	require.NoError(t, svc.ReleaseHold(ctx, showing.ID, "A1", "alice"))
	assert.Equal(t, 0, broadcaster.holdEventCount())
}

func TestServiceReleaseAllHoldsFor(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), nil, 5*time.Minute)

	require.NoError(t, svc.PlaceHold(ctx, showing.ID, "A1", "alice"))
	require.NoError(t, svc.PlaceHold(ctx, showing.ID, "A2", "alice"))
	require.NoError(t, svc.PlaceHold(ctx, showing.ID, "B1", "bob"))

	require.NoError(t, svc.ReleaseAllHoldsFor(ctx, showing.ID, "alice"))

	snap, err := svc.Snapshot(ctx, showing.ID)
	require.NoError(t, err)
	require.Len(t, snap.Holds, 1)
	assert.Equal(t, "bob", snap.Holds[0].HolderID)
}

func TestServiceSnapshot(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing("C3", "C4")
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), nil, 5*time.Minute)

	require.NoError(t, svc.PlaceHold(ctx, showing.ID, "A1", "alice"))

	snap, err := svc.Snapshot(ctx, showing.ID)
	require.NoError(t, err)
	assert.Equal(t, showing.ID, snap.ShowingID)
	assert.Equal(t, string(showings.StatusActive), snap.Status)
	assert.Equal(t, []string{"C3", "C4"}, snap.ConfirmedSeats)
	require.Len(t, snap.Holds, 1)
}

func TestServiceSnapshotEmptyHoldsNotNil(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), nil, 5*time.Minute)

	snap, err := svc.Snapshot(ctx, showing.ID)
	require.NoError(t, err)
	assert.NotNil(t, snap.Holds)
	assert.Empty(t, snap.Holds)
}

func TestServiceClearSeats(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	broadcaster := &recordingBroadcaster{}
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), broadcaster, 5*time.Minute)

	require.NoError(t, svc.PlaceHold(ctx, showing.ID, "A1", "alice"))
	require.NoError(t, svc.PlaceHold(ctx, showing.ID, "A2", "bob"))

	require.NoError(t, svc.ClearSeats(ctx, showing.ID, []string{"A1"}))

	snap, err := svc.Snapshot(ctx, showing.ID)
	require.NoError(t, err)
	require.Len(t, snap.Holds, 1)
	assert.Equal(t, "A2", snap.Holds[0].SeatID)

	// Two placements plus the clear.
	require.Equal(t, 3, broadcaster.holdEventCount())
	last := broadcaster.holdEvents[2]
	require.Len(t, last.holds, 1)
	assert.Equal(t, "A2", last.holds[0].SeatID)
}

func TestServiceClearSeatsNoMatchNoBroadcast(t *testing.T) {
	ctx := context.Background()
	showing := activeShowing()
	broadcaster := &recordingBroadcaster{}
	svc := NewService(NewMemoryStore(), newFakeShowingReader(showing), broadcaster, 5*time.Minute)

	require.NoError(t, svc.ClearSeats(ctx, showing.ID, []string{"Z9"}))
	assert.Equal(t, 0, broadcaster.holdEventCount())
}
