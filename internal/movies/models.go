package movies

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Movie defines the movie entity. Status is derived from the movie's showing
// dates by the status sweep; it is only ever written directly at creation time.
type Movie struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title           string         `gorm:"type:varchar(255);not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	DurationMinutes int            `gorm:"not null" json:"duration_minutes"`
	Languages       pq.StringArray `gorm:"type:text[]" json:"languages"`
	ReleaseDate     time.Time      `gorm:"type:date" json:"release_date"`
	Status          string         `gorm:"type:varchar(20);check:status IN ('COMING_SOON', 'TICKET_AVAILABLE', 'NOW_SHOWING', 'ENDED', 'TRENDING');default:'COMING_SOON'" json:"status"`
	PosterURL       string         `gorm:"type:varchar(512)" json:"poster_url,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName sets the table name for Movie
func (Movie) TableName() string {
	return "movies"
}

// CreateMovieRequest represents the movie creation payload
type CreateMovieRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"duration_minutes" binding:"required,gt=0"`
	Languages       []string `json:"languages"`
	ReleaseDate     string   `json:"release_date" binding:"required,datetime=2006-01-02"`
	Status          string   `json:"status" binding:"omitempty,oneof=COMING_SOON TRENDING"`
	PosterURL       string   `json:"poster_url"`
}

// MovieListQuery represents list filters for movies
type MovieListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
	Status string `form:"status"`
}
