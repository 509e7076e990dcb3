package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"renalert/internal/storage"
)

func (h *Handler) ListAlerts(c echo.Context) error {
	alerts, err := h.store.ListAlerts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch alerts")
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *Handler) ListUnreadAlerts(c echo.Context) error {
	alerts, err := h.store.ListUnreadAlerts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch alerts")
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *Handler) MarkAlertRead(c echo.Context) error {
	err := h.store.MarkAlertRead(c.Request().Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "alert not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update alert")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "alert marked as read"})
}
