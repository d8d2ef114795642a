package holds

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(now time.Time) (*MemoryStore, *time.Time) {
	store := NewMemoryStore()
	current := now
	store.now = func() time.Time { return current }
	return store, &current
}

func TestMemoryStorePlaceFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(time.Now())
	showingID := uuid.New()

	require.NoError(t, store.Place(ctx, showingID, "A1", "alice", time.Minute))

	err := store.Place(ctx, showingID, "A1", "bob", time.Minute)
	assert.ErrorIs(t, err, ErrAlreadyHeld)

	// The losing request must not displace the live hold.
	live, err := store.List(ctx, showingID)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "alice", live[0].HolderID)
}

func TestMemoryStorePlaceRefreshesOwnHold(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(time.Now())
	showingID := uuid.New()

	require.NoError(t, store.Place(ctx, showingID, "A1", "alice", time.Minute))

	*clock = clock.Add(45 * time.Second)
	require.NoError(t, store.Place(ctx, showingID, "A1", "alice", time.Minute))

	// The refresh pushed expiry past the original TTL.
	*clock = clock.Add(30 * time.Second)
	live, err := store.List(ctx, showingID)
	require.NoError(t, err)
	assert.Len(t, live, 1)
}

func TestMemoryStorePlaceOverExpiredHold(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(time.Now())
	showingID := uuid.New()

	require.NoError(t, store.Place(ctx, showingID, "A1", "alice", time.Minute))

	*clock = clock.Add(2 * time.Minute)
	require.NoError(t, store.Place(ctx, showingID, "A1", "bob", time.Minute))

	live, err := store.List(ctx, showingID)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "bob", live[0].HolderID)
}

func TestMemoryStoreReleaseOwnerChecked(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(time.Now())
	showingID := uuid.New()

	require.NoError(t, store.Place(ctx, showingID, "A1", "alice", time.Minute))

	removed, err := store.Release(ctx, showingID, "A1", "bob")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = store.Release(ctx, showingID, "A1", "alice")
	require.NoError(t, err)
	assert.True(t, removed)

	// Releasing an absent hold is a no-op, not an error.
	removed, err = store.Release(ctx, showingID, "A1", "alice")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMemoryStoreReleaseAll(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(time.Now())
	showingID := uuid.New()

	require.NoError(t, store.Place(ctx, showingID, "A1", "alice", time.Minute))
	require.NoError(t, store.Place(ctx, showingID, "A2", "alice", time.Minute))
	require.NoError(t, store.Place(ctx, showingID, "B1", "bob", time.Minute))

	removed, err := store.ReleaseAll(ctx, showingID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	live, err := store.List(ctx, showingID)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "B1", live[0].SeatID)
}

func TestMemoryStoreRemoveSeatsIgnoresHolder(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(time.Now())
	showingID := uuid.New()

	require.NoError(t, store.Place(ctx, showingID, "A1", "alice", time.Minute))
	require.NoError(t, store.Place(ctx, showingID, "B1", "bob", time.Minute))

	removed, err := store.RemoveSeats(ctx, showingID, []string{"A1", "B1", "C9"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	live, err := store.List(ctx, showingID)
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestMemoryStoreListHidesExpired(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(time.Now())
	showingID := uuid.New()

	require.NoError(t, store.Place(ctx, showingID, "A1", "alice", time.Minute))
	require.NoError(t, store.Place(ctx, showingID, "A2", "bob", 5*time.Minute))

	*clock = clock.Add(2 * time.Minute)

	live, err := store.List(ctx, showingID)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "A2", live[0].SeatID)
}

func TestMemoryStorePrune(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(time.Now())
	showingID := uuid.New()

	changed, err := store.Prune(ctx, showingID)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, store.Place(ctx, showingID, "A1", "alice", time.Minute))
	require.NoError(t, store.Place(ctx, showingID, "A2", "bob", time.Hour))

	*clock = clock.Add(2 * time.Minute)

	changed, err = store.Prune(ctx, showingID)
	require.NoError(t, err)
	assert.True(t, changed)

	live, err := store.List(ctx, showingID)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "A2", live[0].SeatID)

	changed, err = store.Prune(ctx, showingID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMemoryStoreActiveShowings(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(time.Now())
	first := uuid.New()
	second := uuid.New()

	ids, err := store.ActiveShowings(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.Place(ctx, first, "A1", "alice", time.Minute))
	require.NoError(t, store.Place(ctx, second, "A1", "bob", time.Minute))

	ids, err = store.ActiveShowings(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, ids)

	// A fully pruned showing drops off the active list.
	*clock = clock.Add(2 * time.Minute)
	_, err = store.Prune(ctx, first)
	require.NoError(t, err)
	_, err = store.Prune(ctx, second)
	require.NoError(t, err)

	ids, err = store.ActiveShowings(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
