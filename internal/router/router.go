// Package router builds the Echo instance: the global middleware chain,
// the system routes and the versioned API.
package router

import (
	"github.com/deppfellow/taskmanagement/internal/handler"
	"github.com/deppfellow/taskmanagement/internal/middleware"
	"github.com/deppfellow/taskmanagement/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1", middlewares.RateLimit.Limit())
	registerTaskRoutes(v1, h, middlewares.Auth)

	return router
}
