package bookings

import (
	"errors"
	"net/http"

	"cinebook/internal/shared/utils/response"
	"cinebook/internal/showings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ConfirmBooking handles POST /api/v1/bookings/confirm
// @Summary Confirm a booking
// @Description Atomically claims the requested seats and writes the booking.
// @Description Holds by other customers do not block the claim; a seat
// @Description already booked does.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body ConfirmBookingRequest true "Booking payload"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /bookings/confirm [post]
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	var req ConfirmBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.ConfirmBooking(ctx.Request.Context(), req)
	switch {
	case err == nil:
		response.RespondJSON(ctx, "success", http.StatusCreated, "Booking confirmed successfully", booking.ToResponse(), nil)
	case errors.Is(err, ErrDuplicateSeats):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Seat list contains duplicates", nil, err.Error())
	case errors.Is(err, showings.ErrSeatConflict):
		response.RespondJSON(ctx, "error", http.StatusConflict, "One or more seats are already booked", nil, err.Error())
	case errors.Is(err, showings.ErrShowingUnavailable):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Showing is not open for booking", nil, err.Error())
	case errors.Is(err, showings.ErrNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Showing not found", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to confirm booking", nil, err.Error())
	}
}

// GetBooking handles GET /api/v1/bookings/:id
// @Summary Get a booking by id or reference
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID or booking reference"
// @Success 200 {object} response.StandardApiResponse
// @Router /bookings/{id} [get]
func (c *Controller) GetBooking(ctx *gin.Context) {
	ref := ctx.Param("id")

	var booking *Booking
	var err error
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		booking, err = c.service.GetBooking(ctx.Request.Context(), id)
	} else {
		booking, err = c.service.GetBookingByRef(ctx.Request.Context(), ref)
	}

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking.ToResponse(), nil)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
// @Summary Cancel a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /bookings/{id}/cancel [post]
func (c *Controller) CancelBooking(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking id", nil, err.Error())
		return
	}

	var req CancelBookingRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), id, req.Reason, cancelActor(ctx))
	switch {
	case err == nil:
		response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking.ToResponse(), nil)
	case errors.Is(err, ErrNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
	case errors.Is(err, ErrNotCancellable):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Booking cannot be cancelled", nil, err.Error())
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to cancel booking", nil, err.Error())
	}
}

// ListBookings handles GET /api/v1/admin/bookings
// @Summary List bookings
// @Tags bookings
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param status query string false "Status filter"
// @Param showing_id query string false "Showing filter"
// @Param email query string false "Customer email filter"
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/bookings [get]
func (c *Controller) ListBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	bookings, total, err := c.service.ListBookings(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	items := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, bookings[i].ToResponse())
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings": items,
		"pagination": gin.H{
			"total":       total,
			"page":        query.Page,
			"limit":       query.Limit,
			"total_pages": CalculateTotalPages(total, query.Limit),
		},
	}, nil)
}

// cancelActor resolves who is cancelling: the authenticated identity when a
// token was presented, otherwise the customer themselves.
func cancelActor(ctx *gin.Context) string {
	if email, ok := ctx.Get("user_email"); ok {
		if s, ok := email.(string); ok && s != "" {
			return s
		}
	}
	return "customer"
}
