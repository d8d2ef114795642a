package holds

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store keeps the live holds for each showing. Two implementations exist: an
// in-process map for single-instance deployments and tests, and a Redis store
// for deployments where several instances must share one hold map.
//
// Stores only guarantee at most one live hold per (showing, seat) pair. They
// know nothing about confirmed seats; that check belongs to the Service.
type Store interface {
	// Place records a hold, failing with ErrAlreadyHeld when a live hold by a
	// different holder exists. Re-placing one's own hold refreshes the TTL.
	Place(ctx context.Context, showingID uuid.UUID, seatID, holderID string, ttl time.Duration) error

	// Release removes the hold if it belongs to holderID. Idempotent: an
	// absent hold is not an error. Returns whether anything was removed.
	Release(ctx context.Context, showingID uuid.UUID, seatID, holderID string) (bool, error)

	// ReleaseAll removes every hold held by holderID in the showing and
	// returns the number removed.
	ReleaseAll(ctx context.Context, showingID uuid.UUID, holderID string) (int, error)

	// RemoveSeats drops holds on the given seats regardless of holder. Used
	// when seats get confirmed and their holds become redundant.
	RemoveSeats(ctx context.Context, showingID uuid.UUID, seats []string) (int, error)

	// List returns all live (unexpired) holds for the showing.
	List(ctx context.Context, showingID uuid.UUID) ([]Hold, error)

	// Prune drops expired holds and reports whether anything changed.
	Prune(ctx context.Context, showingID uuid.UUID) (bool, error)

	// ActiveShowings returns ids of showings that currently have holds,
	// so the sweep knows where to look.
	ActiveShowings(ctx context.Context) ([]uuid.UUID, error)
}
