// Package service holds the task and user logic between the HTTP handlers
// and the repositories. Handlers pass in validated requests; services turn
// the authenticated subject into a local user and call the stores.
package service

import (
	"github.com/deppfellow/taskmanagement/internal/lib/job"
	"github.com/deppfellow/taskmanagement/internal/repository"
	"github.com/deppfellow/taskmanagement/internal/server"
)

type Services struct {
	Auth *AuthService
	Job  *job.JobService
	Task *TaskService
	User *UserService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s)

	return &Services{
		Job:  s.Job,
		Auth: authService,
		Task: NewTaskService(repos.Task),
		User: NewUserService(repos.User, authService, s.Job, s.Logger),
	}, nil
}
