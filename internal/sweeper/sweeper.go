package sweeper

import (
	"context"
	"sync"
	"time"

	"cinebook/internal/holds"
	"cinebook/internal/shared/config"
	"cinebook/internal/showings"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// ShowingStore is the slice of the showings repository the sweeps need.
type ShowingStore interface {
	GetShowingByID(ctx context.Context, id uuid.UUID) (*showings.Showing, error)
	ListSweepable(ctx context.Context) ([]showings.Showing, error)
	SetStatusIf(ctx context.Context, id uuid.UUID, from, to showings.Status) (bool, error)
}

// BookingFinalizer completes bookings once their showing has ended.
type BookingFinalizer interface {
	CompleteForShowing(ctx context.Context, showingID uuid.UUID) (int64, error)
}

// Sweeper runs the two background jobs: a fast sweep that prunes expired
// seat holds and a slow sweep that advances showing and movie statuses.
// Each showing is swept independently; one poisoned showing cannot stall
// the rest, and a showing whose previous sweep is still running is skipped
// rather than swept twice.
type Sweeper struct {
	store       holds.Store
	showings    ShowingStore
	bookings    BookingFinalizer
	broadcaster holds.Broadcaster

	cfg config.SweepConfig
	log *logger.Logger

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}

	wg     sync.WaitGroup
	cancel context.CancelFunc

	// Movie recomputation hook, set via SetMovieRecompute.
	recomputeMovies func(ctx context.Context, today time.Time)

	now func() time.Time
}

func New(store holds.Store, showingStore ShowingStore, bookings BookingFinalizer, broadcaster holds.Broadcaster, cfg config.SweepConfig) *Sweeper {
	if broadcaster == nil {
		broadcaster = holds.NopBroadcaster{}
	}
	return &Sweeper{
		store:       store,
		showings:    showingStore,
		bookings:    bookings,
		broadcaster: broadcaster,
		cfg:         cfg,
		log:         logger.GetDefault(),
		inFlight:    make(map[uuid.UUID]struct{}),
		now:         time.Now,
	}
}

// SetMovieRecompute installs the movie status recomputation step of the
// status sweep.
func (s *Sweeper) SetMovieRecompute(fn func(ctx context.Context, today time.Time)) {
	s.recomputeMovies = fn
}

// Start launches both sweep loops. Stop must be called on shutdown.
func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(2)
	go s.runHoldSweep(ctx)
	go s.runStatusSweep(ctx)

	s.log.Info("Sweeper started",
		"hold_interval", s.cfg.HoldInterval.String(),
		"status_interval", s.cfg.StatusInterval.String(),
	)
}

// Stop cancels both loops and waits for in-flight sweeps to finish.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("Sweeper stopped")
}

func (s *Sweeper) runHoldSweep(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.HoldInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepHolds(ctx)
		}
	}
}

func (s *Sweeper) runStatusSweep(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.StatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepStatuses(ctx)
		}
	}
}

// SweepHolds prunes expired holds for every showing that has any. Each
// showing is handled in its own goroutine so a slow store call for one
// showing does not delay the others.
func (s *Sweeper) SweepHolds(ctx context.Context) {
	start := s.now()

	ids, err := s.store.ActiveShowings(ctx)
	if err != nil {
		s.log.WithError(err).Error("Hold sweep failed to list active showings")
		return
	}

	var swept sync.WaitGroup
	for _, id := range ids {
		if !s.claim(id) {
			continue
		}
		swept.Add(1)
		go func(id uuid.UUID) {
			defer swept.Done()
			defer s.release(id)
			s.sweepShowingHolds(ctx, id)
		}(id)
	}
	swept.Wait()

	s.log.LogSweepCompleted(ctx, "holds", len(ids), s.now().Sub(start))
}

func (s *Sweeper) sweepShowingHolds(ctx context.Context, showingID uuid.UUID) {
	changed, err := s.store.Prune(ctx, showingID)
	if err != nil {
		s.log.WithError(err).Error("Hold sweep failed", "showing_id", showingID.String())
		return
	}

	// Holds that survived pruning may sit on seats booked since the hold
	// was placed. Clear those too.
	showing, err := s.showings.GetShowingByID(ctx, showingID)
	if err == nil && len(showing.BookedSeats) > 0 {
		removed, rmErr := s.store.RemoveSeats(ctx, showingID, []string(showing.BookedSeats))
		if rmErr != nil {
			s.log.WithError(rmErr).Warn("Hold sweep failed to clear booked seats", "showing_id", showingID.String())
		} else if removed > 0 {
			changed = true
		}
	}

	if !changed {
		return
	}

	live, err := s.store.List(ctx, showingID)
	if err != nil {
		s.log.WithError(err).Warn("Hold sweep failed to list holds for broadcast", "showing_id", showingID.String())
		return
	}
	s.broadcaster.HoldsUpdated(showingID, live)
}

// SweepStatuses advances showing statuses by wall-clock time, finalizes
// bookings of showings that just completed, and re-derives movie statuses.
func (s *Sweeper) SweepStatuses(ctx context.Context) {
	start := s.now()
	touched := 0

	sweepable, err := s.showings.ListSweepable(ctx)
	if err != nil {
		s.log.WithError(err).Error("Status sweep failed to list showings")
		return
	}

	for i := range sweepable {
		showing := &sweepable[i]
		if !s.claim(showing.ID) {
			continue
		}
		if s.sweepShowingStatus(ctx, showing) {
			touched++
		}
		s.release(showing.ID)
	}

	if s.recomputeMovies != nil {
		s.recomputeMovies(ctx, start)
	}

	s.log.LogSweepCompleted(ctx, "statuses", touched, s.now().Sub(start))
}

func (s *Sweeper) sweepShowingStatus(ctx context.Context, showing *showings.Showing) bool {
	current := showings.Status(showing.Status)
	next := showings.NextStatus(
		current,
		showing.StartAt(),
		time.Duration(showing.DurationMinutes)*time.Minute,
		s.cfg.OngoingLeadWindow,
		s.now(),
	)
	if next == current {
		return false
	}

	// Guarded write: an admin deactivation between read and write wins.
	changed, err := s.showings.SetStatusIf(ctx, showing.ID, current, next)
	if err != nil {
		s.log.WithError(err).Error("Status sweep failed to transition showing", "showing_id", showing.ID.String())
		return false
	}
	if !changed {
		return false
	}

	s.log.LogStatusTransition(ctx, "showing", showing.ID.String(), string(current), string(next))

	if next == showings.StatusCompleted && s.bookings != nil {
		completed, err := s.bookings.CompleteForShowing(ctx, showing.ID)
		if err != nil {
			s.log.WithError(err).Error("Failed to complete bookings for finished showing", "showing_id", showing.ID.String())
		} else if completed > 0 {
			s.log.Info("Bookings completed", "showing_id", showing.ID.String(), "count", completed)
		}

		// A finished showing needs no holds.
		if live, err := s.store.List(ctx, showing.ID); err == nil && len(live) > 0 {
			seats := make([]string, 0, len(live))
			for _, h := range live {
				seats = append(seats, h.SeatID)
			}
			if _, err := s.store.RemoveSeats(ctx, showing.ID, seats); err == nil {
				s.broadcaster.HoldsUpdated(showing.ID, nil)
			}
		}
	}

	return true
}

func (s *Sweeper) claim(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *Sweeper) release(id uuid.UUID) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}
