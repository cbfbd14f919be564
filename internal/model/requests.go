package model

import "github.com/google/uuid"

// GetTasksQuery binds GET /tasks?status=&search=.
type GetTasksQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
	Search string `query:"search" validate:"max=255"`
}

func (q *GetTasksQuery) Validate() error {
	return validate.Struct(q)
}

func (q *GetTasksQuery) Filter() TaskFilter {
	filter := TaskFilter{Search: q.Search}
	if q.Status != "" {
		status := TaskStatus(q.Status)
		filter.Status = &status
	}
	return filter
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
}

func (r *CreateTaskRequest) Validate() error {
	return validate.Struct(r)
}

func (r *CreateTaskRequest) Payload() CreateTaskPayload {
	return CreateTaskPayload{
		Title:       r.Title,
		Description: r.Description,
	}
}

type GetTaskRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *GetTaskRequest) Validate() error {
	return validate.Struct(r)
}

// TaskID is only meaningful after Validate succeeded.
func (r *GetTaskRequest) TaskID() uuid.UUID {
	return uuid.MustParse(r.ID)
}

type UpdateTaskStatusRequest struct {
	ID     string `param:"id" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS DONE"`
}

func (r *UpdateTaskStatusRequest) Validate() error {
	return validate.Struct(r)
}

func (r *UpdateTaskStatusRequest) TaskID() uuid.UUID {
	return uuid.MustParse(r.ID)
}

type DeleteTaskRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *DeleteTaskRequest) Validate() error {
	return validate.Struct(r)
}

func (r *DeleteTaskRequest) TaskID() uuid.UUID {
	return uuid.MustParse(r.ID)
}
