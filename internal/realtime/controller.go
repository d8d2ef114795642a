package realtime

import (
	"errors"
	"io"
	"net/http"
	"time"

	"cinebook/internal/holds"
	"cinebook/internal/shared/utils/response"
	"cinebook/internal/showings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const heartbeatInterval = 25 * time.Second

// Broadcaster is where seat actions publish their events. In a single
// instance deployment this is the Hub itself; with Redis configured it is
// the RedisBridge.
type Broadcaster interface {
	holds.Broadcaster
}

type Controller struct {
	hub     *Hub
	service holds.Service
}

func NewController(hub *Hub, service holds.Service) *Controller {
	return &Controller{hub: hub, service: service}
}

type seatActionRequest struct {
	SeatID   string `json:"seat_id" binding:"required,seatid"`
	HolderID string `json:"holder_id" binding:"required,min=1,max=64"`
}

type resetRequest struct {
	HolderID string `json:"holder_id" binding:"required,min=1,max=64"`
}

// Live handles GET /api/v1/showings/:id/live
// @Summary Stream live seat state for a showing
// @Description Server-sent events. Emits a holds snapshot and a confirmed
// @Description seats snapshot immediately on connect, then pushes full-state
// @Description updates as seats are held, released, swept or booked.
// @Tags realtime
// @Produce text/event-stream
// @Param id path string true "Showing ID"
// @Router /showings/{id}/live [get]
func (c *Controller) Live(ctx *gin.Context) {
	showingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showing id", nil, err.Error())
		return
	}

	// Subscribe before reading the snapshot so no update published between
	// the two is lost. A duplicate push is harmless, a gap is not.
	events, cancel := c.hub.Subscribe(showingID)
	defer cancel()

	snap, err := c.service.Snapshot(ctx.Request.Context(), showingID)
	if err != nil {
		if errors.Is(err, showings.ErrNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Showing not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load seat state", nil, err.Error())
		return
	}

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.Header().Set("X-Accel-Buffering", "no")

	ctx.SSEvent(string(EventHoldsUpdated), Event{
		Type:      EventHoldsUpdated,
		ShowingID: showingID,
		Holds:     snap.Holds,
		At:        time.Now(),
	})
	ctx.SSEvent(string(EventSeatsConfirmed), Event{
		Type:      EventSeatsConfirmed,
		ShowingID: showingID,
		Seats:     snap.ConfirmedSeats,
		At:        time.Now(),
	})
	ctx.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Request.Context().Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			ctx.SSEvent(string(ev.Type), ev)
			return true
		case <-heartbeat.C:
			ctx.SSEvent("heartbeat", gin.H{"at": time.Now()})
			return true
		}
	})
}

// Seatmap handles GET /api/v1/showings/:id/seatmap
// @Summary Get the current seat state of a showing
// @Tags realtime
// @Produce json
// @Param id path string true "Showing ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /showings/{id}/seatmap [get]
func (c *Controller) Seatmap(ctx *gin.Context) {
	showingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showing id", nil, err.Error())
		return
	}

	snap, err := c.service.Snapshot(ctx.Request.Context(), showingID)
	if err != nil {
		if errors.Is(err, showings.ErrNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Showing not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load seat state", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat state retrieved successfully", snap, nil)
}

// SelectSeat handles POST /api/v1/showings/:id/seats/select
// @Summary Place a soft hold on a seat
// @Tags realtime
// @Accept json
// @Produce json
// @Param id path string true "Showing ID"
// @Param request body seatActionRequest true "Seat and holder"
// @Success 200 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /showings/{id}/seats/select [post]
func (c *Controller) SelectSeat(ctx *gin.Context) {
	showingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showing id", nil, err.Error())
		return
	}

	var req seatActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	err = c.service.PlaceHold(ctx.Request.Context(), showingID, req.SeatID, req.HolderID)
	switch {
	case err == nil:
		response.RespondJSON(ctx, "success", http.StatusOK, "Seat held", gin.H{
			"seat_id":   req.SeatID,
			"holder_id": req.HolderID,
		}, nil)
	case errors.Is(err, holds.ErrAlreadyHeld):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Seat is held by another customer", nil, err.Error())
	case errors.Is(err, holds.ErrAlreadyBooked):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Seat is already booked", nil, err.Error())
	case errors.Is(err, showings.ErrShowingUnavailable):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Showing is not open for booking", nil, err.Error())
	case errors.Is(err, showings.ErrNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Showing not found", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to hold seat", nil, err.Error())
	}
}

// DeselectSeat handles POST /api/v1/showings/:id/seats/deselect
// @Summary Release a held seat
// @Tags realtime
// @Accept json
// @Produce json
// @Param id path string true "Showing ID"
// @Param request body seatActionRequest true "Seat and holder"
// @Success 200 {object} response.StandardApiResponse
// @Router /showings/{id}/seats/deselect [post]
func (c *Controller) DeselectSeat(ctx *gin.Context) {
	showingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showing id", nil, err.Error())
		return
	}

	var req seatActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	// Releasing a seat the holder does not own is a no-op, not an error.
	if err := c.service.ReleaseHold(ctx.Request.Context(), showingID, req.SeatID, req.HolderID); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to release seat", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat released", nil, nil)
}

// ResetSeats handles POST /api/v1/showings/:id/seats/reset
// @Summary Release every seat held by one customer
// @Tags realtime
// @Accept json
// @Produce json
// @Param id path string true "Showing ID"
// @Param request body resetRequest true "Holder"
// @Success 200 {object} response.StandardApiResponse
// @Router /showings/{id}/seats/reset [post]
func (c *Controller) ResetSeats(ctx *gin.Context) {
	showingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showing id", nil, err.Error())
		return
	}

	var req resetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.service.ReleaseAllHoldsFor(ctx.Request.Context(), showingID, req.HolderID); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to release seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats released", nil, nil)
}
