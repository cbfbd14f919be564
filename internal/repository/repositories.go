package repository

import (
	"github.com/deppfellow/taskmanagement/internal/server"
)

// Repositories groups every repository so services receive a single
// dependency.
type Repositories struct {
	Task *TaskRepository
	User *UserRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Task: NewTaskRepository(s.DB.Pool, s.Logger),
		User: NewUserRepository(s.DB.Pool, s.Logger),
	}
}
