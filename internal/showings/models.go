package showings

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Showing defines one scheduled screening of a movie on a specific screen.
// BookedSeats is the authoritative confirmed-seat set: it only grows through a
// successful booking confirmation and only shrinks through a cancellation.
type Showing struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MovieID         uuid.UUID      `gorm:"type:uuid;index;not null" json:"movie_id"`
	TheatreID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"theatre_id"`
	ScreenID        uuid.UUID      `gorm:"type:uuid;not null" json:"screen_id"`
	ShowDate        time.Time      `gorm:"type:date;index;not null" json:"show_date"`
	ShowTime        string         `gorm:"type:varchar(5);not null" json:"show_time"` // "15:04"
	DurationMinutes int            `gorm:"not null" json:"duration_minutes"`
	Multiplier      float64        `gorm:"not null;default:1.0" json:"multiplier"`
	TotalSeats      int            `gorm:"not null;default:180" json:"total_seats"`
	BookedSeats     pq.StringArray `gorm:"type:text[]" json:"booked_seats"`
	Status          string         `gorm:"type:varchar(20);check:status IN ('ACTIVE', 'ONGOING', 'COMPLETED', 'INACTIVE');default:'ACTIVE'" json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName sets the table name for Showing
func (Showing) TableName() string {
	return "showings"
}

// StartAt combines the show date and time into the showing's start instant.
func (s *Showing) StartAt() time.Time {
	t, err := time.Parse("15:04", s.ShowTime)
	if err != nil {
		return s.ShowDate
	}
	return time.Date(
		s.ShowDate.Year(), s.ShowDate.Month(), s.ShowDate.Day(),
		t.Hour(), t.Minute(), 0, 0, s.ShowDate.Location(),
	)
}

// EndAt is the start instant plus the movie's runtime.
func (s *Showing) EndAt() time.Time {
	return s.StartAt().Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// HasSeat reports whether seatID is in the confirmed set.
func (s *Showing) HasSeat(seatID string) bool {
	for _, seat := range s.BookedSeats {
		if seat == seatID {
			return true
		}
	}
	return false
}

// CreateShowingRequest represents the showing creation payload
type CreateShowingRequest struct {
	MovieID    string  `json:"movie_id" binding:"required,uuid"`
	TheatreID  string  `json:"theatre_id" binding:"required,uuid"`
	ScreenID   string  `json:"screen_id" binding:"required,uuid"`
	ShowDate   string  `json:"show_date" binding:"required,datetime=2006-01-02"`
	ShowTime   string  `json:"show_time" binding:"required,datetime=15:04"`
	Multiplier float64 `json:"multiplier" binding:"omitempty,gt=0"`
	TotalSeats int     `json:"total_seats" binding:"omitempty,gt=0"`
}

// ShowingListQuery represents list filters for showings
type ShowingListQuery struct {
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
	MovieID string `form:"movie_id"`
	Date    string `form:"date"`
	Status  string `form:"status"`
}
