package http

import (
	"net/http"

	"golang-finance-insight/internal/scheduler/dto"
	"golang-finance-insight/internal/scheduler/service"
	"golang-finance-insight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RefreshHandler exposes manual control over the stale analysis refresh.
type RefreshHandler struct {
	schedulerService service.SchedulerService
	logger           *logger.Logger
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(schedulerService service.SchedulerService, logger *logger.Logger) *RefreshHandler {
	return &RefreshHandler{schedulerService: schedulerService, logger: logger}
}

// RegisterRoutes registers the refresh routes to the Echo group.
func (h *RefreshHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.RefreshNow)
	g.GET("/stale", h.ListStale)
}

// RefreshNow godoc
// @Summary Refresh stale analyses now
// @Description Queues one batch of done analyses older than the refresh window
// @Tags refresh
// @Produce  json
// @Success 200 {object} dto.RefreshResponse
// @Router /refresh [post]
func (h *RefreshHandler) RefreshNow(c echo.Context) error {
	queued := h.schedulerService.RefreshStale(c.Request().Context())
	return c.JSON(http.StatusOK, dto.RefreshResponse{Queued: queued})
}

// ListStale godoc
// @Summary List stale analyses
// @Description Lists the analyses the next refresh would queue
// @Tags refresh
// @Produce  json
// @Success 200 {array} dto.StaleAnalysisResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /refresh/stale [get]
func (h *RefreshHandler) ListStale(c echo.Context) error {
	stale, err := h.schedulerService.ListStale(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list stale analyses", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list stale analyses"})
	}
	return c.JSON(http.StatusOK, stale)
}
