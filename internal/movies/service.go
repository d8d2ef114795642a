package movies

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("movie not found")

type Service interface {
	CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error)
	GetMovie(ctx context.Context, id string) (*Movie, error)
	ListMovies(ctx context.Context, query MovieListQuery) ([]Movie, int64, error)

	// RecomputeStatus re-derives the movie's status from its showing dates
	// and persists it if it changed. Returns the resulting status.
	RecomputeStatus(ctx context.Context, movieID uuid.UUID, today time.Time) (Status, error)

	// SetCacheService enables read caching. The service works without one.
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return cache.ErrCacheMiss
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		logger.GetDefault().WithError(err).Warn("Failed to cache movie data", "key", key)
	}
}

func (s *service) invalidateMovieCaches(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.CACHE_PATTERN_MOVIES); err != nil {
		logger.GetDefault().WithError(err).Warn("Failed to invalidate movie caches")
	}
}

func (s *service) CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error) {
	releaseDate, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid release date: %w", err)
	}

	status := StatusComingSoon
	if req.Status != "" {
		status = Status(req.Status)
	}

	movie := &Movie{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Languages:       req.Languages,
		ReleaseDate:     releaseDate,
		Status:          status.String(),
		PosterURL:       req.PosterURL,
	}

	if err := s.repo.CreateMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	logger.GetDefault().LogMovieCreated(ctx, movie.ID.String(), movie.Title)
	s.invalidateMovieCaches(ctx)

	return movie, nil
}

func (s *service) GetMovie(ctx context.Context, id string) (*Movie, error) {
	movieID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID: %w", err)
	}

	cacheKey := constants.BuildMovieDetailKey(movieID.String())
	var cached Movie
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	movie, err := s.repo.GetMovieByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	s.setCache(ctx, cacheKey, movie, constants.TTL_MOVIE_DETAIL)
	return movie, nil
}

type cachedMovieList struct {
	Movies []Movie `json:"movies"`
	Total  int64   `json:"total"`
}

func (s *service) ListMovies(ctx context.Context, query MovieListQuery) ([]Movie, int64, error) {
	cacheKey := constants.BuildMovieListKey(query.Page, query.Limit, query.Search)
	var cached cachedMovieList
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return cached.Movies, cached.Total, nil
	}

	result, total, err := s.repo.ListMovies(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	s.setCache(ctx, cacheKey, cachedMovieList{Movies: result, Total: total}, constants.TTL_MOVIE_LIST)
	return result, total, nil
}

func (s *service) RecomputeStatus(ctx context.Context, movieID uuid.UUID, today time.Time) (Status, error) {
	movie, err := s.repo.GetMovieByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get movie: %w", err)
	}

	dates, err := s.repo.GetShowDates(ctx, movieID)
	if err != nil {
		return "", fmt.Errorf("failed to get show dates: %w", err)
	}

	next := DeriveStatus(dates, today)
	if next.String() == movie.Status {
		return next, nil
	}

	if err := s.repo.UpdateMovieStatus(ctx, movieID, next); err != nil {
		return "", fmt.Errorf("failed to update movie status: %w", err)
	}

	logger.GetDefault().LogStatusTransition(ctx, "movie", movieID.String(), movie.Status, next.String())
	s.invalidateMovieCaches(ctx)

	return next, nil
}
