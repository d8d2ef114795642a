package bookings

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Customer routes
	bookings := rg.Group("/bookings")
	{
		bookings.POST("/confirm", controller.ConfirmBooking)   // POST /api/v1/bookings/confirm
		bookings.GET("/:id", controller.GetBooking)            // GET /api/v1/bookings/:id
		// Cancel records who cancelled, so pick up the identity when a
		// token is presented.
		bookings.POST("/:id/cancel", middleware.OptionalAuth(), controller.CancelBooking)
	}

	// Admin routes
	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuth(), middleware.RequireRole("ADMIN"))
	{
		admin.GET("", controller.ListBookings) // GET /api/v1/admin/bookings
	}
}
