package router

import (
	"net/http"

	"github.com/deppfellow/taskmanagement/internal/handler"
	"github.com/deppfellow/taskmanagement/internal/middleware"
	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/labstack/echo/v4"
)

func registerTaskRoutes(g *echo.Group, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	tasks := g.Group("/tasks", auth.RequireAuth)

	tasks.GET("", handler.Handle(h.Task.Handler, h.Task.GetTasks, http.StatusOK, &model.GetTasksQuery{}))
	tasks.POST("", handler.Handle(h.Task.Handler, h.Task.CreateTask, http.StatusCreated, &model.CreateTaskRequest{}))
	tasks.GET("/:id", handler.Handle(h.Task.Handler, h.Task.GetTaskByID, http.StatusOK, &model.GetTaskRequest{}))
	tasks.PATCH("/:id/status", handler.Handle(h.Task.Handler, h.Task.UpdateTaskStatus, http.StatusOK, &model.UpdateTaskStatusRequest{}))
	tasks.DELETE("/:id", handler.HandleNoContent(h.Task.Handler, h.Task.DeleteTask, http.StatusNoContent, &model.DeleteTaskRequest{}))
}
