package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds indexes the booking hot path relies on
func MigrateConstraints(db *gorm.DB) error {
	// GIN index for the seat overlap check on confirmation
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_showings_booked_seats
		ON showings USING GIN (booked_seats);
	`).Error
	if err != nil {
		return err
	}

	// Index for the status sweep scan
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_showings_status_show_date
		ON showings (status, show_date);
	`).Error
	if err != nil {
		return err
	}

	// Index for showing listings by movie and date
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_showings_movie_date
		ON showings (movie_id, show_date);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
