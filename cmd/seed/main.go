package main

import (
	"fmt"
	"log"
	"time"

	"cinebook/internal/movies"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/showings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting CineBook database seeder...")

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	if err := seeder.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println("Seeding completed successfully")
}

func (s *Seeder) Run() error {
	seeded, err := s.seedMovies()
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	if err := s.seedShowings(seeded); err != nil {
		return fmt.Errorf("failed to seed showings: %w", err)
	}

	return nil
}

func (s *Seeder) seedMovies() ([]movies.Movie, error) {
	today := time.Now().Truncate(24 * time.Hour)

	catalog := []movies.Movie{
		{
			Title:           "Midnight Express Line",
			Description:     "A night-shift metro driver uncovers a smuggling ring running through her line.",
			DurationMinutes: 128,
			Languages:       pq.StringArray{"English", "Hindi"},
			ReleaseDate:     today.AddDate(0, 0, -14),
			Status:          movies.StatusNowShowing.String(),
			PosterURL:       "https://cdn.cinebook.dev/posters/midnight-express-line.jpg",
		},
		{
			Title:           "The Paper Lighthouse",
			Description:     "Two estranged siblings restore their grandfather's lighthouse and find his unsent letters.",
			DurationMinutes: 104,
			Languages:       pq.StringArray{"English"},
			ReleaseDate:     today.AddDate(0, 0, -3),
			Status:          movies.StatusTicketAvailable.String(),
			PosterURL:       "https://cdn.cinebook.dev/posters/the-paper-lighthouse.jpg",
		},
		{
			Title:           "Orbit of Glass",
			Description:     "A salvage crew races a corporate fleet to a derelict station before its orbit decays.",
			DurationMinutes: 142,
			Languages:       pq.StringArray{"English", "Tamil", "Telugu"},
			ReleaseDate:     today.AddDate(0, 0, 21),
			Status:          movies.StatusComingSoon.String(),
			PosterURL:       "https://cdn.cinebook.dev/posters/orbit-of-glass.jpg",
		},
	}

	for i := range catalog {
		if err := s.db.GetPostgreSQL().
			Where("title = ?", catalog[i].Title).
			FirstOrCreate(&catalog[i]).Error; err != nil {
			return nil, err
		}
		fmt.Printf("  movie: %s (%s)\n", catalog[i].Title, catalog[i].ID)
	}

	return catalog, nil
}

func (s *Seeder) seedShowings(catalog []movies.Movie) error {
	today := time.Now().Truncate(24 * time.Hour)
	theatreID := uuid.MustParse("5f6d7a84-1111-4a5b-9c3d-000000000001")
	screens := []uuid.UUID{
		uuid.MustParse("5f6d7a84-2222-4a5b-9c3d-000000000001"),
		uuid.MustParse("5f6d7a84-2222-4a5b-9c3d-000000000002"),
	}
	times := []string{"13:30", "18:00", "21:15"}

	count := 0
	for _, movie := range catalog {
		// Skip showings for movies not yet released
		if movie.ReleaseDate.After(today.AddDate(0, 0, 7)) {
			continue
		}

		for dayOffset := 0; dayOffset < 3; dayOffset++ {
			showDate := today.AddDate(0, 0, dayOffset)
			for i, showTime := range times {
				showing := showings.Showing{
					MovieID:         movie.ID,
					TheatreID:       theatreID,
					ScreenID:        screens[i%len(screens)],
					ShowDate:        showDate,
					ShowTime:        showTime,
					DurationMinutes: movie.DurationMinutes,
					Multiplier:      1.0 + 0.25*float64(i),
					TotalSeats:      180,
					BookedSeats:     pq.StringArray{},
					Status:          showings.StatusActive.String(),
				}

				err := s.db.GetPostgreSQL().
					Where("movie_id = ? AND show_date = ? AND show_time = ?",
						movie.ID, showDate, showTime).
					FirstOrCreate(&showing).Error
				if err != nil {
					return err
				}
				count++
			}
		}
	}

	fmt.Printf("  showings: %d\n", count)
	return nil
}
