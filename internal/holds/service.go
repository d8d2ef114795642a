package holds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinebook/internal/showings"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// ShowingReader is the slice of the showings repository the registry needs:
// a fresh read of the confirmed-seat set. Snapshot and PlaceHold must never
// work from a cached copy.
type ShowingReader interface {
	GetShowingByID(ctx context.Context, id uuid.UUID) (*showings.Showing, error)
}

// Service is the seat hold registry. It lets clients provisionally claim
// seats for the duration of a checkout flow without touching durable storage.
// Holds are a UX courtesy: confirmation never trusts them.
type Service interface {
	PlaceHold(ctx context.Context, showingID uuid.UUID, seatID, holderID string) error
	ReleaseHold(ctx context.Context, showingID uuid.UUID, seatID, holderID string) error
	ReleaseAllHoldsFor(ctx context.Context, showingID uuid.UUID, holderID string) error

	// Snapshot returns confirmed seats as of read time plus live holds.
	Snapshot(ctx context.Context, showingID uuid.UUID) (*Snapshot, error)

	// ClearSeats drops holds on seats that just got confirmed and broadcasts
	// the shrunken hold list. Called by the booking confirmation path.
	ClearSeats(ctx context.Context, showingID uuid.UUID, seats []string) error
}

type service struct {
	store       Store
	showings    ShowingReader
	broadcaster Broadcaster
	ttl         time.Duration
}

func NewService(store Store, showingReader ShowingReader, broadcaster Broadcaster, ttl time.Duration) Service {
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	return &service{
		store:       store,
		showings:    showingReader,
		broadcaster: broadcaster,
		ttl:         ttl,
	}
}

func (s *service) PlaceHold(ctx context.Context, showingID uuid.UUID, seatID, holderID string) error {
	// Confirmed seats are read fresh on every request; holds must never be
	// granted on top of a booked seat.
	showing, err := s.showings.GetShowingByID(ctx, showingID)
	if err != nil {
		return err
	}
	if !showings.Status(showing.Status).IsBookable() {
		return showings.ErrShowingUnavailable
	}
	if showing.HasSeat(seatID) {
		return ErrAlreadyBooked
	}

	if err := s.store.Place(ctx, showingID, seatID, holderID, s.ttl); err != nil {
		if errors.Is(err, ErrAlreadyHeld) {
			return err
		}
		return fmt.Errorf("failed to place hold: %w", err)
	}

	logger.GetDefault().LogHoldPlaced(ctx, showingID.String(), seatID, holderID)
	s.broadcastHolds(ctx, showingID)
	return nil
}

func (s *service) ReleaseHold(ctx context.Context, showingID uuid.UUID, seatID, holderID string) error {
	removed, err := s.store.Release(ctx, showingID, seatID, holderID)
	if err != nil {
		return fmt.Errorf("failed to release hold: %w", err)
	}
	if removed {
		s.broadcastHolds(ctx, showingID)
	}
	return nil
}

func (s *service) ReleaseAllHoldsFor(ctx context.Context, showingID uuid.UUID, holderID string) error {
	removed, err := s.store.ReleaseAll(ctx, showingID, holderID)
	if err != nil {
		return fmt.Errorf("failed to release holds: %w", err)
	}
	if removed > 0 {
		s.broadcastHolds(ctx, showingID)
	}
	return nil
}

func (s *service) Snapshot(ctx context.Context, showingID uuid.UUID) (*Snapshot, error) {
	showing, err := s.showings.GetShowingByID(ctx, showingID)
	if err != nil {
		return nil, err
	}

	live, err := s.store.List(ctx, showingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holds: %w", err)
	}
	if live == nil {
		live = []Hold{}
	}

	return &Snapshot{
		ShowingID:      showingID,
		Status:         showing.Status,
		ConfirmedSeats: []string(showing.BookedSeats),
		Holds:          live,
	}, nil
}

func (s *service) ClearSeats(ctx context.Context, showingID uuid.UUID, seats []string) error {
	removed, err := s.store.RemoveSeats(ctx, showingID, seats)
	if err != nil {
		return fmt.Errorf("failed to clear seat holds: %w", err)
	}
	if removed > 0 {
		s.broadcastHolds(ctx, showingID)
	}
	return nil
}

func (s *service) broadcastHolds(ctx context.Context, showingID uuid.UUID) {
	live, err := s.store.List(ctx, showingID)
	if err != nil {
		// Watchers fall behind until the next change or sweep; the hold
		// itself is already in place.
		logger.GetDefault().WithError(err).Warn("failed to list holds for broadcast")
		return
	}
	s.broadcaster.HoldsUpdated(showingID, live)
}
