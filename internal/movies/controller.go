package movies

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

// CreateMovie handles POST /api/v1/admin/movies
// @Summary Create a movie
// @Tags movies
// @Accept json
// @Produce json
// @Param request body CreateMovieRequest true "Movie payload"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/movies [post]
func (c *Controller) CreateMovie(ctx *gin.Context) {
	var req CreateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	movie, err := c.service.CreateMovie(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create movie", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Movie created successfully", movie, nil)
}

// GetMovie handles GET /api/v1/movies/:id
// @Summary Get a movie by id
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /movies/{id} [get]
func (c *Controller) GetMovie(ctx *gin.Context) {
	movie, err := c.service.GetMovie(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to get movie", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie retrieved successfully", movie, nil)
}

// ListMovies handles GET /api/v1/movies
// @Summary List movies
// @Tags movies
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param search query string false "Title search"
// @Success 200 {object} response.StandardApiResponse
// @Router /movies [get]
func (c *Controller) ListMovies(ctx *gin.Context) {
	var query MovieListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, total, err := c.service.ListMovies(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list movies", nil, err.Error())
		return
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movies retrieved successfully", gin.H{
		"movies": result,
		"pagination": gin.H{
			"total":       total,
			"page":        query.Page,
			"limit":       query.Limit,
			"total_pages": int(math.Ceil(float64(total) / float64(query.Limit))),
		},
	}, nil)
}
