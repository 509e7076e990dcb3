package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"renalert/internal/engine"
	"renalert/internal/storage"
)

// Handler carries the REST endpoints' dependencies.
type Handler struct {
	store  storage.Store
	engine *engine.Engine
}

// NewHandler creates the handler.
func NewHandler(store storage.Store, eng *engine.Engine) *Handler {
	return &Handler{store: store, engine: eng}
}

// RegisterRoutes attaches all routes to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)

	api.GET("/consultations", h.ListConsultations)
	api.GET("/consultations/recent", h.RecentConsultations)
	api.POST("/consultations", h.CreateConsultation)
	api.PUT("/consultations/:id", h.UpdateConsultation)
	api.DELETE("/consultations/:id", h.DeleteConsultation)

	api.GET("/alerts", h.ListAlerts)
	api.GET("/alerts/unread", h.ListUnreadAlerts)
	api.PUT("/alerts/:id/read", h.MarkAlertRead)

	api.GET("/thresholds", h.ListGlobalThresholds)
	api.GET("/thresholds/:patientId", h.ListPatientThresholds)
	api.POST("/thresholds", h.UpsertThreshold)

	api.GET("/stats", h.GetStats)
}
