package movies

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateMovie(ctx context.Context, movie *Movie) error
	GetMovieByID(ctx context.Context, id uuid.UUID) (*Movie, error)
	ListMovies(ctx context.Context, query MovieListQuery) ([]Movie, int64, error)
	UpdateMovieStatus(ctx context.Context, id uuid.UUID, status Status) error

	// GetShowDates returns the show dates of all the movie's showings,
	// for status derivation.
	GetShowDates(ctx context.Context, movieID uuid.UUID) ([]time.Time, error)

	// ListMovieIDsWithShowings returns ids of movies that have at least one
	// showing, for the status sweep.
	ListMovieIDs(ctx context.Context) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMovie(ctx context.Context, movie *Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *repository) GetMovieByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	var movie Movie
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *repository) ListMovies(ctx context.Context, query MovieListQuery) ([]Movie, int64, error) {
	var result []Movie
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Movie{})
	if query.Search != "" {
		baseQuery = baseQuery.Where("title ILIKE ?", "%"+query.Search+"%")
	}
	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("release_date DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&result).Error

	return result, totalCount, err
}

func (r *repository) UpdateMovieStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return r.db.WithContext(ctx).
		Model(&Movie{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *repository) GetShowDates(ctx context.Context, movieID uuid.UUID) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Table("showings").
		Where("movie_id = ?", movieID).
		Pluck("show_date", &dates).Error
	return dates, err
}

func (r *repository) ListMovieIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&Movie{}).
		Pluck("id", &ids).Error
	return ids, err
}
