package handler

import (
	"github.com/deppfellow/taskmanagement/internal/server"
	"github.com/deppfellow/taskmanagement/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Task    *TaskHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Task:    NewTaskHandler(s, services.Task, services.User),
	}
}
