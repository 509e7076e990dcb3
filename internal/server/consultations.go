package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"renalert/internal/models"
	"renalert/internal/storage"
)

func (h *Handler) ListConsultations(c echo.Context) error {
	consultations, err := h.store.ListConsultations(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch consultations")
	}
	return c.JSON(http.StatusOK, consultations)
}

func (h *Handler) RecentConsultations(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	consultations, err := h.store.RecentConsultations(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch recent consultations")
	}
	return c.JSON(http.StatusOK, consultations)
}

// CreateConsultation persists the consultation and then runs one alert
// evaluation pass. The pass is best-effort: it logs and swallows its own
// failures, so consultation creation succeeds even when alert generation
// does not.
func (h *Handler) CreateConsultation(c echo.Context) error {
	ctx := c.Request().Context()

	var consultation models.Consultation
	if err := c.Bind(&consultation); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	consultation.ID = uuid.New().String()
	now := time.Now().UTC()
	if consultation.Date.IsZero() {
		consultation.Date = now
	}
	consultation.CreatedAt = now

	if err := consultation.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.store.CreateConsultation(ctx, &consultation); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create consultation")
	}

	h.engine.OnConsultationCreated(ctx, &consultation)

	return c.JSON(http.StatusCreated, consultation)
}

// UpdateConsultation edits a consultation. Past alerts are not
// re-evaluated on edit.
func (h *Handler) UpdateConsultation(c echo.Context) error {
	ctx := c.Request().Context()

	existing, err := h.store.GetConsultation(ctx, c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "consultation not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch consultation")
	}

	consultation := *existing
	if err := c.Bind(&consultation); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	consultation.ID = existing.ID
	consultation.PatientID = existing.PatientID
	consultation.CreatedAt = existing.CreatedAt

	if err := consultation.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.store.UpdateConsultation(ctx, &consultation); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update consultation")
	}
	return c.JSON(http.StatusOK, consultation)
}

func (h *Handler) DeleteConsultation(c echo.Context) error {
	err := h.store.DeleteConsultation(c.Request().Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "consultation not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete consultation")
	}
	return c.NoContent(http.StatusNoContent)
}
