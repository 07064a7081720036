package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/gala-seating/internal/logger"
	"github.com/iliyamo/gala-seating/internal/repository"
	"github.com/iliyamo/gala-seating/internal/seating"
)

// seatingError maps service errors onto status codes.  A CommitError keeps
// its message so the operator sees how many rows did not land.
func seatingError(c echo.Context, err error) error {
	var ce *seating.CommitError
	switch {
	case errors.As(err, &ce):
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":     ce.Error(),
			"requested": ce.Requested,
			"updated":   ce.Updated,
			"failed":    ce.Failed,
		})
	case errors.Is(err, seating.ErrInvalidSettings):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, seating.ErrTableOutOfRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, seating.ErrWaitlisted), errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "registration is waitlisted"})
	case errors.Is(err, repository.ErrRegistrationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
	}
	logger.FromContext(c.Request().Context(), nil).Error("seating request failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
