package showings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrSeatConflict means at least one requested seat was already in the
	// confirmed set. Expected under load; it is the no-double-booking
	// invariant doing its job, not an anomaly.
	ErrSeatConflict = errors.New("seat already booked")

	// ErrShowingUnavailable means the showing does not accept bookings
	// (inactive or completed).
	ErrShowingUnavailable = errors.New("showing unavailable")

	ErrNotFound = errors.New("showing not found")
)

type Repository interface {
	CreateShowing(ctx context.Context, showing *Showing) error
	GetShowingByID(ctx context.Context, id uuid.UUID) (*Showing, error)
	ListShowings(ctx context.Context, query ShowingListQuery) ([]Showing, int64, error)

	// ClaimSeats atomically appends seats to the confirmed set, but only if
	// none of them are already present and the showing is bookable. This is
	// the single write that upholds the no-double-booking invariant: of two
	// concurrent claims sharing a seat, exactly one sees RowsAffected == 1.
	ClaimSeats(ctx context.Context, id uuid.UUID, seats []string) error

	// ReleaseSeats removes seats from the confirmed set (cancellation path).
	ReleaseSeats(ctx context.Context, id uuid.UUID, seats []string) error

	UpdateShowingStatus(ctx context.Context, id uuid.UUID, status Status) error

	// SetStatusIf transitions the status only when the current value matches,
	// so an admin toggle never clobbers a sweep write.
	SetStatusIf(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)

	// ListSweepable returns showings that can still transition by time alone.
	ListSweepable(ctx context.Context) ([]Showing, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateShowing(ctx context.Context, showing *Showing) error {
	return r.db.WithContext(ctx).Create(showing).Error
}

func (r *repository) GetShowingByID(ctx context.Context, id uuid.UUID) (*Showing, error) {
	var showing Showing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&showing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &showing, nil
}

func (r *repository) ListShowings(ctx context.Context, query ShowingListQuery) ([]Showing, int64, error) {
	var result []Showing
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Showing{})
	if query.MovieID != "" {
		baseQuery = baseQuery.Where("movie_id = ?", query.MovieID)
	}
	if query.Date != "" {
		baseQuery = baseQuery.Where("show_date = ?", query.Date)
	}
	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("show_date ASC, show_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&result).Error

	return result, totalCount, err
}

func (r *repository) ClaimSeats(ctx context.Context, id uuid.UUID, seats []string) error {
	if len(seats) == 0 {
		return fmt.Errorf("no seats specified")
	}

	// Conditional atomic append: succeeds only when the requested seats are
	// disjoint from the current confirmed set. The row-level lock taken by
	// UPDATE serializes concurrent claims on the same showing.
	res := r.db.WithContext(ctx).Exec(`
		UPDATE showings
		SET booked_seats = booked_seats || ?::text[], updated_at = NOW()
		WHERE id = ?
		  AND status IN ('ACTIVE', 'ONGOING')
		  AND NOT (booked_seats && ?::text[])`,
		pq.StringArray(seats), id, pq.StringArray(seats))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// The claim lost; re-read to tell the caller why.
	showing, err := r.GetShowingByID(ctx, id)
	if err != nil {
		return err
	}
	if !Status(showing.Status).IsBookable() {
		return ErrShowingUnavailable
	}
	return ErrSeatConflict
}

func (r *repository) ReleaseSeats(ctx context.Context, id uuid.UUID, seats []string) error {
	if len(seats) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Exec(`
		UPDATE showings
		SET booked_seats = COALESCE(
			(SELECT array_agg(s) FROM unnest(booked_seats) AS s WHERE s <> ALL(?::text[])),
			'{}'
		), updated_at = NOW()
		WHERE id = ?`,
		pq.StringArray(seats), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateShowingStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return r.db.WithContext(ctx).
		Model(&Showing{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *repository) SetStatusIf(ctx context.Context, id uuid.UUID, from, to Status) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Showing{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListSweepable(ctx context.Context) ([]Showing, error) {
	var result []Showing
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{StatusActive.String(), StatusOngoing.String()}).
		Find(&result).Error
	return result, err
}
