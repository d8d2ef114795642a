package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTL values, centralized in one place.
// Pattern: cinebook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // movie details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // movie listings
	TTL_DYNAMIC_SHORT      = 5 * time.Minute  // showing listings
	TTL_REALTIME_SHORT     = 30 * time.Second // live seat counts
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "cinebook"
)

// ================== MOVIES MODULE ==================

const (
	CACHE_KEY_MOVIES_LIST  = CACHE_PREFIX + ":movies:list"         // + :page:X:limit:Y:search:Z
	CACHE_KEY_MOVIE_DETAIL = CACHE_PREFIX + ":movies:detail:uuid:" // + movie-id
	CACHE_PATTERN_MOVIES   = CACHE_PREFIX + ":movies:*"
)

const (
	TTL_MOVIE_LIST   = TTL_SEMI_STATIC_SHORT
	TTL_MOVIE_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// BuildMovieListKey builds the cache key for a movie list query
func BuildMovieListKey(page, limit int, search string) string {
	return fmt.Sprintf("%s:page:%d:limit:%d:search:%s", CACHE_KEY_MOVIES_LIST, page, limit, search)
}

// BuildMovieDetailKey builds the cache key for a single movie
func BuildMovieDetailKey(movieID string) string {
	return CACHE_KEY_MOVIE_DETAIL + movieID
}

// ================== SHOWINGS MODULE ==================

const (
	CACHE_KEY_SHOWINGS_LIST = CACHE_PREFIX + ":showings:list" // + :movie:X:date:Y:page:Z
	CACHE_PATTERN_SHOWINGS  = CACHE_PREFIX + ":showings:*"
)

const (
	TTL_SHOWING_LIST = TTL_DYNAMIC_SHORT
)

// BuildShowingListKey builds the cache key for a showing list query
func BuildShowingListKey(movieID, date string, page, limit int) string {
	return fmt.Sprintf("%s:movie:%s:date:%s:page:%d:limit:%d", CACHE_KEY_SHOWINGS_LIST, movieID, date, page, limit)
}
