package router

import (
	"github.com/deppfellow/taskmanagement/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes wires the endpoints that sit outside the API:
// health, docs and the static files the docs page loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.Static("/static", "static")
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
