package http

import (
	"errors"
	"net/http"

	"golang-finance-insight/internal/api/dto"
	"golang-finance-insight/internal/api/service"

	"github.com/labstack/echo/v4"
)

// writeError maps service errors onto status codes. Unknown errors become 500 without details.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrSubjectNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrOptionNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAnalysisRunning):
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
