package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/swingeats/swingeats/internal/service"
)

// fail logs err under event and converts it to the HTTP error the client
// sees.
func fail(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", http.StatusBadRequest, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "reason", "not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		l.Warn(event, "status", http.StatusConflict, "reason", "invalid transition", "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTransientStore):
		l.Error(event, "status", http.StatusServiceUnavailable, "reason", "store unavailable", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable, retry later")
	default:
		l.Error(event, "status", http.StatusInternalServerError, "reason", "unexpected", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func parseID(c echo.Context) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || n == 0 {
		return 0, errors.New("id is not a positive integer")
	}
	return uint(n), nil
}
