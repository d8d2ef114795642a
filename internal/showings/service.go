package showings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovieInfo is the slice of the movie the showing service needs: the runtime
// for deriving the showing's end time.
type MovieInfo struct {
	ID              uuid.UUID
	DurationMinutes int
}

// MovieReader is implemented by the movies service (local interface to avoid
// a package cycle).
type MovieReader interface {
	GetMovieInfo(ctx context.Context, id uuid.UUID) (*MovieInfo, error)
}

type Service interface {
	CreateShowing(ctx context.Context, req CreateShowingRequest) (*Showing, error)
	GetShowing(ctx context.Context, id string) (*Showing, error)
	ListShowings(ctx context.Context, query ShowingListQuery) ([]Showing, int64, error)

	// Deactivate marks an ACTIVE showing INACTIVE. Admin-only and sticky:
	// no sweep ever moves a showing out of INACTIVE.
	Deactivate(ctx context.Context, id string) error

	// Reactivate undoes an admin deactivation.
	Reactivate(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	movies MovieReader
}

func NewService(repo Repository, movies MovieReader) Service {
	return &service{repo: repo, movies: movies}
}

func (s *service) CreateShowing(ctx context.Context, req CreateShowingRequest) (*Showing, error) {
	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID: %w", err)
	}
	theatreID, err := uuid.Parse(req.TheatreID)
	if err != nil {
		return nil, fmt.Errorf("invalid theatre ID: %w", err)
	}
	screenID, err := uuid.Parse(req.ScreenID)
	if err != nil {
		return nil, fmt.Errorf("invalid screen ID: %w", err)
	}

	showDate, err := time.Parse("2006-01-02", req.ShowDate)
	if err != nil {
		return nil, fmt.Errorf("invalid show date: %w", err)
	}

	movie, err := s.movies.GetMovieInfo(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("movie not found")
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	multiplier := req.Multiplier
	if multiplier == 0 {
		multiplier = 1.0
	}
	totalSeats := req.TotalSeats
	if totalSeats == 0 {
		totalSeats = 180
	}

	showing := &Showing{
		MovieID:         movieID,
		TheatreID:       theatreID,
		ScreenID:        screenID,
		ShowDate:        showDate,
		ShowTime:        req.ShowTime,
		DurationMinutes: movie.DurationMinutes,
		Multiplier:      multiplier,
		TotalSeats:      totalSeats,
		BookedSeats:     []string{},
		Status:          StatusActive.String(),
	}

	if err := s.repo.CreateShowing(ctx, showing); err != nil {
		return nil, fmt.Errorf("failed to create showing: %w", err)
	}

	logger.GetDefault().LogShowingCreated(ctx, showing.ID.String(), movieID.String())
	return showing, nil
}

func (s *service) GetShowing(ctx context.Context, id string) (*Showing, error) {
	showingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid showing ID: %w", err)
	}
	return s.repo.GetShowingByID(ctx, showingID)
}

func (s *service) ListShowings(ctx context.Context, query ShowingListQuery) ([]Showing, int64, error) {
	return s.repo.ListShowings(ctx, query)
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	showingID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid showing ID: %w", err)
	}

	ok, err := s.repo.SetStatusIf(ctx, showingID, StatusActive, StatusInactive)
	if err != nil {
		return fmt.Errorf("failed to deactivate showing: %w", err)
	}
	if !ok {
		return fmt.Errorf("only an active showing can be deactivated")
	}
	return nil
}

func (s *service) Reactivate(ctx context.Context, id string) error {
	showingID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid showing ID: %w", err)
	}

	ok, err := s.repo.SetStatusIf(ctx, showingID, StatusInactive, StatusActive)
	if err != nil {
		return fmt.Errorf("failed to reactivate showing: %w", err)
	}
	if !ok {
		return fmt.Errorf("only an inactive showing can be reactivated")
	}
	return nil
}
