package realtime

import (
	"github.com/gin-gonic/gin"
)

// SetupRealtimeRoutes configures live seat state routes
func SetupRealtimeRoutes(rg *gin.RouterGroup, controller *Controller) {
	showings := rg.Group("/showings/:id")
	{
		showings.GET("/live", controller.Live)       // GET /api/v1/showings/:id/live
		showings.GET("/seatmap", controller.Seatmap) // GET /api/v1/showings/:id/seatmap

		seats := showings.Group("/seats")
		{
			seats.POST("/select", controller.SelectSeat)     // POST /api/v1/showings/:id/seats/select
			seats.POST("/deselect", controller.DeselectSeat) // POST /api/v1/showings/:id/seats/deselect
			seats.POST("/reset", controller.ResetSeats)      // POST /api/v1/showings/:id/seats/reset
		}
	}
}
