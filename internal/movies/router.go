package movies

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupMovieRoutes configures movie routes
func SetupMovieRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes
	public := rg.Group("/movies")
	{
		public.GET("", controller.ListMovies)    // GET /api/v1/movies
		public.GET("/:id", controller.GetMovie)  // GET /api/v1/movies/:id
	}

	// Admin routes
	admin := rg.Group("/admin/movies")
	admin.Use(middleware.JWTAuth(), middleware.RequireRole("ADMIN"))
	{
		admin.POST("", controller.CreateMovie) // POST /api/v1/admin/movies
	}
}
