package showings

import (
	"errors"
	"math"
	"net/http"

	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateShowing handles POST /api/v1/admin/showings
// @Summary Schedule a showing
// @Tags showings
// @Accept json
// @Produce json
// @Param request body CreateShowingRequest true "Showing payload"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/showings [post]
func (c *Controller) CreateShowing(ctx *gin.Context) {
	var req CreateShowingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	showing, err := c.service.CreateShowing(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create showing", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Showing created successfully", showing, nil)
}

// GetShowing handles GET /api/v1/showings/:id
// @Summary Get a showing by id
// @Tags showings
// @Produce json
// @Param id path string true "Showing ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /showings/{id} [get]
func (c *Controller) GetShowing(ctx *gin.Context) {
	showing, err := c.service.GetShowing(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Showing not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to get showing", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showing retrieved successfully", showing, nil)
}

// ListShowings handles GET /api/v1/showings
// @Summary List showings
// @Tags showings
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param movie_id query string false "Movie filter"
// @Param date query string false "Show date filter (YYYY-MM-DD)"
// @Success 200 {object} response.StandardApiResponse
// @Router /showings [get]
func (c *Controller) ListShowings(ctx *gin.Context) {
	var query ShowingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, total, err := c.service.ListShowings(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list showings", nil, err.Error())
		return
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showings retrieved successfully", gin.H{
		"showings": result,
		"pagination": gin.H{
			"total":       total,
			"page":        query.Page,
			"limit":       query.Limit,
			"total_pages": int(math.Ceil(float64(total) / float64(query.Limit))),
		},
	}, nil)
}

// DeactivateShowing handles POST /api/v1/admin/showings/:id/deactivate
// @Summary Deactivate a showing
// @Tags showings
// @Produce json
// @Param id path string true "Showing ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/showings/{id}/deactivate [post]
func (c *Controller) DeactivateShowing(ctx *gin.Context) {
	if err := c.service.Deactivate(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to deactivate showing", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Showing deactivated", nil, nil)
}

// ReactivateShowing handles POST /api/v1/admin/showings/:id/reactivate
// @Summary Reactivate a showing
// @Tags showings
// @Produce json
// @Param id path string true "Showing ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /admin/showings/{id}/reactivate [post]
func (c *Controller) ReactivateShowing(ctx *gin.Context) {
	if err := c.service.Reactivate(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to reactivate showing", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Showing reactivated", nil, nil)
}
