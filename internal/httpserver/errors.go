package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocery_shop/internal/service"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrShopClosed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and turns it into the HTTP error shown to the client.
// Client errors carry the service message verbatim.
func fail(l *slog.Logger, event string, err error) error {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", "internal error", "error", err)
		return echo.NewHTTPError(code, "internal server error")
	}
	l.Warn(event, "status", code, "error", err)
	return echo.NewHTTPError(code, err.Error())
}

func bind(c echo.Context, l *slog.Logger, event string, req any) error {
	if err := c.Bind(req); err != nil {
		l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		l.Warn(event, "status", 400, "reason", "validation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
