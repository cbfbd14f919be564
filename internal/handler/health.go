package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/taskmanagement/internal/middleware"
	"github.com/deppfellow/taskmanagement/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const defaultHealthCheckTimeout = 5 * time.Second

// HealthHandler reports liveness and the reachability of the configured
// dependencies.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth answers 200 when every enabled check passes, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]checkResult),
	}

	observability := h.server.Config.Observability
	timeout := observability.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = defaultHealthCheckTimeout
	}

	if observability.HealthCheckEnabled("database") {
		response.Checks["database"] = h.runCheck(c.Request().Context(), &logger, "database", timeout, func(ctx context.Context) error {
			return h.server.DB.Pool.Ping(ctx)
		})
	}

	if observability.HealthCheckEnabled("redis") && h.server.Redis != nil {
		response.Checks["redis"] = h.runCheck(c.Request().Context(), &logger, "redis", timeout, func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	for _, check := range response.Checks {
		if check.Status != "healthy" {
			response.Status = "unhealthy"
		}
	}

	if response.Status != "healthy" {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError("overall", map[string]interface{}{
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) runCheck(parent context.Context, logger *zerolog.Logger, name string, timeout time.Duration, ping func(ctx context.Context) error) checkResult {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("dependency health check failed")

		h.recordHealthCheckError(name, map[string]interface{}{
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return checkResult{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return checkResult{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}

func (h *HealthHandler) recordHealthCheckError(checkType string, attrs map[string]interface{}) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	attrs["check_type"] = checkType
	attrs["operation"] = "health_check"
	app.RecordCustomEvent("HealthCheckError", attrs)
}
