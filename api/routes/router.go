// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"cinebook/internal/bookings"
	"cinebook/internal/holds"
	"cinebook/internal/movies"
	"cinebook/internal/notifications"
	"cinebook/internal/realtime"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/showings"
	"cinebook/pkg/cache"

	_ "cinebook/docs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	db          *database.DB
	holdStore   holds.Store
	hub         *realtime.Hub
	broadcaster holds.Broadcaster
	producer    notifications.EventProducer

	MovieRepo movies.Repository

	// Built during SetupRoutes, shared with the sweeper in main.
	MovieService   movies.Service
	ShowingRepo    showings.Repository
	HoldService    holds.Service
	BookingService bookings.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, holdStore holds.Store, hub *realtime.Hub, broadcaster holds.Broadcaster, producer notifications.EventProducer) *Router {
	return &Router{
		config:      cfg,
		db:          db,
		holdStore:   holdStore,
		hub:         hub,
		broadcaster: broadcaster,
		producer:    producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API documentation
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupMovieRoutes(api)
		r.setupShowingRoutes(api)
		r.setupRealtimeRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinebook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinebook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupMovieRoutes configures movie catalog routes
func (r *Router) setupMovieRoutes(rg *gin.RouterGroup) {
	movieRepo := movies.NewRepository(r.db.GetPostgreSQL())
	movieService := movies.NewService(movieRepo)
	r.MovieRepo = movieRepo

	if r.db.Redis != nil {
		movieService.SetCacheService(cache.NewService(r.db.GetRedisClient()))
	}

	r.MovieService = movieService

	movieController := movies.NewController(movieService)
	movies.SetupMovieRoutes(rg, movieController)
}

// setupShowingRoutes configures showing management routes
func (r *Router) setupShowingRoutes(rg *gin.RouterGroup) {
	showingRepo := showings.NewRepository(r.db.GetPostgreSQL())
	showingService := showings.NewService(showingRepo, &movieReaderAdapter{repo: r.MovieRepo})

	r.ShowingRepo = showingRepo

	showingController := showings.NewController(showingService)
	showings.SetupShowingRoutes(rg, showingController)
}

// setupRealtimeRoutes configures seat holds and the live channel
func (r *Router) setupRealtimeRoutes(rg *gin.RouterGroup) {
	holdService := holds.NewService(r.holdStore, r.ShowingRepo, r.broadcaster, r.config.Holds.TTL)

	r.HoldService = holdService

	realtimeController := realtime.NewController(r.hub, holdService)
	realtime.SetupRealtimeRoutes(rg, realtimeController)
}

// setupBookingRoutes configures booking confirmation and cancellation routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	notifier := notifications.NewNotifier(r.producer)
	bookingService := bookings.NewService(bookingRepo, r.ShowingRepo, r.HoldService, r.broadcaster, notifier, r.config.Pricing.BaseSeatPrice)

	r.BookingService = bookingService

	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, bookingController)
}

// movieReaderAdapter narrows the movie repository to what the showing
// service needs.
type movieReaderAdapter struct {
	repo movies.Repository
}

func (a *movieReaderAdapter) GetMovieInfo(ctx context.Context, id uuid.UUID) (*showings.MovieInfo, error) {
	movie, err := a.repo.GetMovieByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &showings.MovieInfo{
		ID:              movie.ID,
		DurationMinutes: movie.DurationMinutes,
	}, nil
}
