package http

import (
	"net/http"
	"strconv"

	"golang-finance-insight/internal/api/dto"
	"golang-finance-insight/internal/api/service"
	"golang-finance-insight/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SubjectHandler handles HTTP requests for watched companies.
type SubjectHandler struct {
	subjectService service.SubjectService
	sync           bool
	logger         *logger.Logger
}

// NewSubjectHandler creates a new SubjectHandler. sync selects 200 instead of 202 for triggered runs.
func NewSubjectHandler(subjectService service.SubjectService, sync bool, logger *logger.Logger) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService, sync: sync, logger: logger}
}

// RegisterRoutes registers the subject routes to the Echo group.
func (h *SubjectHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.WatchSubject)
	g.GET("", h.ListSubjects)
	g.DELETE("/:id", h.DeleteSubject)
	g.POST("/:id/analyze", h.TriggerAnalysis)
	g.GET("/:id/result", h.GetResult)
}

// WatchSubject godoc
// @Summary Watch a company
// @Description Add a company to the user's watch list. Watching an already watched company returns it unchanged.
// @Tags subjects
// @Accept  json
// @Produce  json
// @Param   subject  body    dto.WatchSubjectRequest   true    "Company to watch"
// @Success 201 {object} dto.SubjectResponse
// @Success 200 {object} dto.SubjectResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /subjects [post]
func (h *SubjectHandler) WatchSubject(c echo.Context) error {
	var req dto.WatchSubjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	resp, created, err := h.subjectService.Watch(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, err)
	}
	if created {
		return c.JSON(http.StatusCreated, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListSubjects godoc
// @Summary List watched companies
// @Tags subjects
// @Produce  json
// @Param   user_id  query    int true    "User ID"
// @Success 200 {array} dto.SubjectResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /subjects [get]
func (h *SubjectHandler) ListSubjects(c echo.Context) error {
	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 32)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	subjects, err := h.subjectService.List(c.Request().Context(), uint(userID))
	if err != nil {
		h.logger.Error("Failed to list subjects", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, subjects)
}

// DeleteSubject godoc
// @Summary Stop watching a company
// @Description Deletes the subject with its analysis and comments
// @Tags subjects
// @Param   id  path    int true    "Subject ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) DeleteSubject(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid subject ID"})
	}

	if err := h.subjectService.Delete(c.Request().Context(), uint(id)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// TriggerAnalysis godoc
// @Summary Run sentiment analysis
// @Description Starts a run for the subject. Returns 202 when queued, 200 when run inline, 409 when a run is in progress.
// @Tags subjects
// @Produce  json
// @Param   id  path    int true    "Subject ID"
// @Success 202 {object} dto.TriggerResponse
// @Success 200 {object} dto.TriggerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /subjects/{id}/analyze [post]
func (h *SubjectHandler) TriggerAnalysis(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid subject ID"})
	}

	resp, err := h.subjectService.Trigger(c.Request().Context(), uint(id))
	if err != nil {
		return writeError(c, err)
	}
	if h.sync {
		return c.JSON(http.StatusOK, resp)
	}
	return c.JSON(http.StatusAccepted, resp)
}

// GetResult godoc
// @Summary Get the latest analysis result
// @Tags subjects
// @Produce  json
// @Param   id  path    int true    "Subject ID"
// @Success 200 {object} dto.AnalysisResultResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /subjects/{id}/result [get]
func (h *SubjectHandler) GetResult(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid subject ID"})
	}

	resp, err := h.subjectService.Result(c.Request().Context(), uint(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
