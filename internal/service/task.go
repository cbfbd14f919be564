package service

import (
	"context"

	"github.com/deppfellow/taskmanagement/internal/errs"
	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/google/uuid"
)

// TaskStore is implemented by repository.TaskRepository.
type TaskStore interface {
	GetTasks(ctx context.Context, user model.User, filter model.TaskFilter) ([]model.Task, error)
	CreateTask(ctx context.Context, user model.User, payload model.CreateTaskPayload) (model.PublicTask, error)
	GetTaskByID(ctx context.Context, user model.User, taskID uuid.UUID) (model.Task, error)
	UpdateTaskStatus(ctx context.Context, user model.User, taskID uuid.UUID, status model.TaskStatus) (model.Task, error)
	DeleteTask(ctx context.Context, user model.User, taskID uuid.UUID) error
}

type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

func (s *TaskService) GetTasks(ctx context.Context, user model.User, filter model.TaskFilter) ([]model.Task, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, invalidStatusError(*filter.Status)
	}

	return s.store.GetTasks(ctx, user, filter)
}

func (s *TaskService) CreateTask(ctx context.Context, user model.User, payload model.CreateTaskPayload) (model.PublicTask, error) {
	return s.store.CreateTask(ctx, user, payload)
}

func (s *TaskService) GetTaskByID(ctx context.Context, user model.User, taskID uuid.UUID) (model.Task, error) {
	return s.store.GetTaskByID(ctx, user, taskID)
}

func (s *TaskService) UpdateTaskStatus(ctx context.Context, user model.User, taskID uuid.UUID, status model.TaskStatus) (model.Task, error) {
	if !status.IsValid() {
		return model.Task{}, invalidStatusError(status)
	}

	return s.store.UpdateTaskStatus(ctx, user, taskID, status)
}

func (s *TaskService) DeleteTask(ctx context.Context, user model.User, taskID uuid.UUID) error {
	return s.store.DeleteTask(ctx, user, taskID)
}

func invalidStatusError(status model.TaskStatus) error {
	return errs.NewBadRequestError("Invalid task status", true, nil, []errs.FieldError{
		{Field: "status", Error: "must be one of: OPEN IN_PROGRESS DONE"},
	}, nil)
}
