package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"renalert/internal/models"
)

func (h *Handler) ListGlobalThresholds(c echo.Context) error {
	thresholds, err := h.store.ListGlobalThresholds(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch thresholds")
	}
	return c.JSON(http.StatusOK, thresholds)
}

func (h *Handler) ListPatientThresholds(c echo.Context) error {
	thresholds, err := h.store.ListPatientThresholds(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch patient thresholds")
	}
	return c.JSON(http.StatusOK, thresholds)
}

// UpsertThreshold creates or updates the threshold row for the given
// (type, scope) key.
func (h *Handler) UpsertThreshold(c echo.Context) error {
	ctx := c.Request().Context()

	var t models.AlertThreshold
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if t.PatientID != nil && *t.PatientID == "" {
		t.PatientID = nil
	}
	t.IsGlobal = t.PatientID == nil

	if err := t.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t.ID = uuid.New().String()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := h.store.UpsertThreshold(ctx, &t); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save threshold")
	}

	// Return the current row: on conflict the existing row keeps its id.
	var (
		current *models.AlertThreshold
		err     error
	)
	if t.IsGlobal {
		current, err = h.store.GlobalThreshold(ctx, t.Type)
	} else {
		current, err = h.store.PatientThreshold(ctx, *t.PatientID, t.Type)
	}
	if err != nil || current == nil {
		return c.JSON(http.StatusOK, t)
	}
	return c.JSON(http.StatusOK, current)
}

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.store.GetStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch statistics")
	}
	return c.JSON(http.StatusOK, stats)
}
