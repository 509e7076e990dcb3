package server

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"renalert/internal/logger"
	"renalert/internal/metrics"
)

// RequestLogger logs every request with structured fields and records
// the HTTP metrics. Endpoints are labelled by route pattern, not raw
// path, to keep metric cardinality bounded.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := uuid.New().String()
			c.Response().Header().Set("X-Request-ID", requestID)

			log := logger.Logger.With().
				Str("request_id", requestID).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_addr", c.RealIP()).
				Logger()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			duration := time.Since(start)

			log.Info().
				Int("status", status).
				Int64("response_size", c.Response().Size).
				Dur("duration_ms", duration).
				Msg("request completed")

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = req.URL.Path
			}
			metrics.HTTPRequestsTotal.WithLabelValues(
				req.Method, endpoint, fmt.Sprintf("%d", status),
			).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(
				req.Method, endpoint, fmt.Sprintf("%d", status),
			).Observe(duration.Seconds())

			return nil
		}
	}
}

// Recovery converts handler panics into 500 responses.
func Recovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					metrics.PanicsRecovered.WithLabelValues("http").Inc()
					log := logger.WithComponent("http")
					log.Error().
						Interface("panic", r).
						Str("path", c.Request().URL.Path).
						Str("stack", string(debug.Stack())).
						Msg("handler panicked")
					err = echo.NewHTTPError(500, "internal server error")
				}
			}()
			return next(c)
		}
	}
}
