package http

import (
	"net/http"
	"strconv"

	"golang-finance-insight/internal/api/dto"
	"golang-finance-insight/internal/api/service"
	"golang-finance-insight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// UserHandler serves recommendations and product joins for a user.
type UserHandler struct {
	recommendationService service.RecommendationService
	joinService           service.ProductJoinService
	logger                *logger.Logger
}

func NewUserHandler(recommendationService service.RecommendationService, joinService service.ProductJoinService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		recommendationService: recommendationService,
		joinService:           joinService,
		logger:                logger,
	}
}

// RegisterRoutes registers the user routes to the Echo group.
func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id/recommendations", h.GetRecommendations)
	g.POST("/:id/joined-products", h.JoinProduct)
}

// GetRecommendations godoc
// @Summary Recommend financial products
// @Description Ranks deposit and saving products for the user's profile, excluding products already joined
// @Tags users
// @Produce  json
// @Param   id     path     int true  "User ID"
// @Param   top_n  query    int false "Number of products (default 5)"
// @Success 200 {object} dto.RecommendationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/{id}/recommendations [get]
func (h *UserHandler) GetRecommendations(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	topN := 0
	if raw := c.QueryParam("top_n"); raw != "" {
		topN, err = strconv.Atoi(raw)
		if err != nil || topN < 1 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid top_n"})
		}
	}

	resp, err := h.recommendationService.Recommend(c.Request().Context(), uint(id), topN)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// JoinProduct godoc
// @Summary Join a product
// @Description Records a subscription to a product option
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id    path    int                      true  "User ID"
// @Param   join  body    dto.JoinProductRequest   true  "Option to join"
// @Success 201 {object} dto.JoinProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/{id}/joined-products [post]
func (h *UserHandler) JoinProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	var req dto.JoinProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, err := h.joinService.Join(c.Request().Context(), uint(id), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}
