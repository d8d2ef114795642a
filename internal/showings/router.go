package showings

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupShowingRoutes configures showing routes
func SetupShowingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes
	public := rg.Group("/showings")
	{
		public.GET("", controller.ListShowings)   // GET /api/v1/showings
		public.GET("/:id", controller.GetShowing) // GET /api/v1/showings/:id
	}

	// Admin routes
	admin := rg.Group("/admin/showings")
	admin.Use(middleware.JWTAuth(), middleware.RequireRole("ADMIN"))
	{
		admin.POST("", controller.CreateShowing)                      // POST /api/v1/admin/showings
		admin.POST("/:id/deactivate", controller.DeactivateShowing)   // POST /api/v1/admin/showings/:id/deactivate
		admin.POST("/:id/reactivate", controller.ReactivateShowing)   // POST /api/v1/admin/showings/:id/reactivate
	}
}
