package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"cinebook/internal/holds"
	"cinebook/internal/showings"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotCancellable = errors.New("booking cannot be cancelled")
	ErrDuplicateSeats = errors.New("seat list contains duplicates")
)

// SeatStore is the slice of the showings repository the confirmation path
// needs. ClaimSeats is the single authority on whether seats are free; the
// hold registry is never consulted here.
type SeatStore interface {
	GetShowingByID(ctx context.Context, id uuid.UUID) (*showings.Showing, error)
	ClaimSeats(ctx context.Context, id uuid.UUID, seats []string) error
	ReleaseSeats(ctx context.Context, id uuid.UUID, seats []string) error
}

// HoldRegistry drops holds on seats that just got booked (to avoid circular dependency)
type HoldRegistry interface {
	ClearSeats(ctx context.Context, showingID uuid.UUID, seats []string) error
	ReleaseAllHoldsFor(ctx context.Context, showingID uuid.UUID, holderID string) error
}

// Notifier publishes booking lifecycle events (to avoid circular dependency)
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *Booking)
	BookingCancelled(ctx context.Context, booking *Booking)
	BookingCompleted(ctx context.Context, booking *Booking)
}

type nopNotifier struct{}

func (nopNotifier) BookingConfirmed(context.Context, *Booking) {}
func (nopNotifier) BookingCancelled(context.Context, *Booking) {}
func (nopNotifier) BookingCompleted(context.Context, *Booking) {}

// Service interface defines the contract for booking business logic
type Service interface {
	ConfirmBooking(ctx context.Context, req ConfirmBookingRequest) (*Booking, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	GetBookingByRef(ctx context.Context, ref string) (*Booking, error)
	ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, reason, actor string) (*Booking, error)

	// CompleteForShowing finalizes bookings after a showing ends. Called by
	// the status sweep.
	CompleteForShowing(ctx context.Context, showingID uuid.UUID) (int64, error)
}

type service struct {
	repo        Repository
	seats       SeatStore
	holds       HoldRegistry
	broadcaster holds.Broadcaster
	notifier    Notifier
	basePrice   float64
}

// NewService creates a new booking service instance
func NewService(repo Repository, seats SeatStore, holdRegistry HoldRegistry, broadcaster holds.Broadcaster, notifier Notifier, basePrice float64) Service {
	if broadcaster == nil {
		broadcaster = holds.NopBroadcaster{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &service{
		repo:        repo,
		seats:       seats,
		holds:       holdRegistry,
		broadcaster: broadcaster,
		notifier:    notifier,
		basePrice:   basePrice,
	}
}

// ConfirmBooking atomically claims the requested seats and writes the
// booking. Seats held by other customers do not block the claim; only a
// confirmed seat does.
func (s *service) ConfirmBooking(ctx context.Context, req ConfirmBookingRequest) (*Booking, error) {
	showingID, err := uuid.Parse(req.ShowingID)
	if err != nil {
		return nil, fmt.Errorf("invalid showing id: %w", err)
	}

	seats, err := normalizeSeats(req.Seats)
	if err != nil {
		return nil, err
	}

	// Price off the pre-claim read; the multiplier does not change while a
	// showing is bookable.
	showing, err := s.seats.GetShowingByID(ctx, showingID)
	if err != nil {
		return nil, err
	}
	totalAmount := s.basePrice * showing.Multiplier * float64(len(seats))

	if err := s.seats.ClaimSeats(ctx, showingID, seats); err != nil {
		return nil, err
	}

	bookingRef, err := generateBookingReference()
	if err != nil {
		s.compensateClaim(ctx, showingID, seats)
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	bookingID := uuid.New()
	booking := &Booking{
		ID:            bookingID,
		ShowingID:     showingID,
		SeatList:      pq.StringArray(seats),
		SeatCount:     len(seats),
		TotalAmount:   totalAmount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        string(StatusConfirmed),
		BookingRef:    bookingRef,
		TicketCode:    generateTicketCode(bookingID),
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		// Seats are already claimed; hand them back so they do not leak.
		s.compensateClaim(ctx, showingID, seats)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	logger.GetDefault().LogBookingConfirmed(ctx, booking.BookingRef, showingID.String(), len(seats), totalAmount)

	// Post-commit side effects are best effort. The booking stands even if
	// hold cleanup, broadcast or the event publish fails.
	s.afterSeatChange(ctx, showingID, seats, req.HolderID)
	s.notifier.BookingConfirmed(ctx, booking)

	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return s.repo.GetBookingByID(ctx, bookingID)
}

func (s *service) GetBookingByRef(ctx context.Context, ref string) (*Booking, error) {
	return s.repo.GetBookingByRef(ctx, ref)
}

func (s *service) ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	return s.repo.ListBookings(ctx, query)
}

// CancelBooking marks the record CANCELLED and then returns its seats to the
// pool. The record itself is never deleted.
//
// Order matters: the status flips first. Releasing seats first would open a
// window where a failed status write leaves a CONFIRMED booking whose seats
// another customer can claim.
func (s *service) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason, actor string) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !Status(booking.Status).CanBeCancelled() {
		return nil, ErrNotCancellable
	}

	now := time.Now()
	if err := s.repo.UpdateBookingStatus(ctx, bookingID, StatusCancelled, reason, actor, &now); err != nil {
		return nil, err
	}

	if err := s.seats.ReleaseSeats(ctx, booking.ShowingID, []string(booking.SeatList)); err != nil {
		// Roll the status back so the record matches the seat map. If even
		// that fails the seats stay claimed, which is safe: no seat can be
		// sold twice, the cancellation just has to be retried.
		if rbErr := s.repo.UpdateBookingStatus(ctx, bookingID, StatusConfirmed, "", "", nil); rbErr != nil {
			logger.GetDefault().WithError(rbErr).Error("Failed to roll back cancellation",
				"booking_ref", booking.BookingRef)
		}
		return nil, fmt.Errorf("failed to release seats: %w", err)
	}
	booking.Status = string(StatusCancelled)
	booking.CancelReason = reason
	booking.CancelledBy = actor
	booking.CancelledAt = &now

	logger.GetDefault().LogBookingCancelled(ctx, booking.BookingRef, booking.ShowingID.String(), reason)

	s.afterSeatChange(ctx, booking.ShowingID, nil, "")
	s.notifier.BookingCancelled(ctx, booking)

	return booking, nil
}

func (s *service) CompleteForShowing(ctx context.Context, showingID uuid.UUID) (int64, error) {
	completed, err := s.repo.CompleteForShowing(ctx, showingID)
	if err != nil || completed == 0 {
		return completed, err
	}

	// Downstream consumers get one completed event per booking. Best effort,
	// like the other lifecycle events.
	finished, listErr := s.repo.ListByShowing(ctx, showingID, StatusCompleted)
	if listErr != nil {
		logger.GetDefault().WithError(listErr).Warn("Failed to list completed bookings for events",
			"showing_id", showingID.String())
		return completed, nil
	}
	for i := range finished {
		s.notifier.BookingCompleted(ctx, &finished[i])
	}
	return completed, nil
}

// afterSeatChange clears now-stale holds and pushes the fresh confirmed-seat
// list to watchers.
func (s *service) afterSeatChange(ctx context.Context, showingID uuid.UUID, claimedSeats []string, holderID string) {
	log := logger.GetDefault()

	if len(claimedSeats) > 0 && s.holds != nil {
		if err := s.holds.ClearSeats(ctx, showingID, claimedSeats); err != nil {
			log.WithError(err).Warn("Failed to clear holds on booked seats")
		}
		if holderID != "" {
			if err := s.holds.ReleaseAllHoldsFor(ctx, showingID, holderID); err != nil {
				log.WithError(err).Warn("Failed to release customer holds")
			}
		}
	}

	showing, err := s.seats.GetShowingByID(ctx, showingID)
	if err != nil {
		log.WithError(err).Warn("Failed to reload showing for broadcast")
		return
	}
	s.broadcaster.SeatsConfirmed(showingID, []string(showing.BookedSeats))
}

func (s *service) compensateClaim(ctx context.Context, showingID uuid.UUID, seats []string) {
	if err := s.seats.ReleaseSeats(ctx, showingID, seats); err != nil {
		logger.GetDefault().WithError(err).Error("Failed to release seats after booking failure",
			"showing_id", showingID.String())
	}
}

func normalizeSeats(in []string) ([]string, error) {
	seen := make(map[string]struct{}, len(in))
	seats := make([]string, 0, len(in))
	for _, seat := range in {
		if _, dup := seen[seat]; dup {
			return nil, ErrDuplicateSeats
		}
		seen[seat] = struct{}{}
		seats = append(seats, seat)
	}
	sort.Strings(seats)
	return seats, nil
}

// generateTicketCode issues the ticket identifier printed on the customer's
// ticket. Booking id plus issue time in millis keeps it unique without
// another round trip.
func generateTicketCode(bookingID uuid.UUID) string {
	return fmt.Sprintf("TKT-%s-%d", bookingID.String(), time.Now().UnixMilli())
}

// generateBookingReference generates a unique booking reference
func generateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("CBK-%s-%s", timestamp, string(randomPart)), nil
}
