package handler

import (
	"github.com/deppfellow/taskmanagement/internal/middleware"
	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/deppfellow/taskmanagement/internal/server"
	"github.com/deppfellow/taskmanagement/internal/service"
	"github.com/labstack/echo/v4"
)

// TaskHandler serves the task endpoints. Every endpoint acts on behalf of
// the authenticated user only.
type TaskHandler struct {
	Handler
	taskService *service.TaskService
	userService *service.UserService
}

func NewTaskHandler(s *server.Server, taskService *service.TaskService, userService *service.UserService) *TaskHandler {
	return &TaskHandler{
		Handler:     NewHandler(s),
		taskService: taskService,
		userService: userService,
	}
}

func (h *TaskHandler) currentUser(c echo.Context) (model.User, error) {
	return h.userService.Resolve(c.Request().Context(), middleware.GetUserID(c))
}

func (h *TaskHandler) GetTasks(c echo.Context, req *model.GetTasksQuery) ([]model.Task, error) {
	user, err := h.currentUser(c)
	if err != nil {
		return nil, err
	}

	return h.taskService.GetTasks(c.Request().Context(), user, req.Filter())
}

func (h *TaskHandler) CreateTask(c echo.Context, req *model.CreateTaskRequest) (model.PublicTask, error) {
	user, err := h.currentUser(c)
	if err != nil {
		return model.PublicTask{}, err
	}

	return h.taskService.CreateTask(c.Request().Context(), user, req.Payload())
}

func (h *TaskHandler) GetTaskByID(c echo.Context, req *model.GetTaskRequest) (model.Task, error) {
	user, err := h.currentUser(c)
	if err != nil {
		return model.Task{}, err
	}

	return h.taskService.GetTaskByID(c.Request().Context(), user, req.TaskID())
}

func (h *TaskHandler) UpdateTaskStatus(c echo.Context, req *model.UpdateTaskStatusRequest) (model.Task, error) {
	user, err := h.currentUser(c)
	if err != nil {
		return model.Task{}, err
	}

	return h.taskService.UpdateTaskStatus(c.Request().Context(), user, req.TaskID(), model.TaskStatus(req.Status))
}

func (h *TaskHandler) DeleteTask(c echo.Context, req *model.DeleteTaskRequest) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	return h.taskService.DeleteTask(c.Request().Context(), user, req.TaskID())
}
