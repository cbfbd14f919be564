package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// TaskStatuses lists every valid status in lifecycle order.
var TaskStatuses = []TaskStatus{TaskStatusOpen, TaskStatusInProgress, TaskStatusDone}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus returns an error for anything outside the closed set.
// Matching is exact, so "open" is rejected.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid task status %q", s)
	}
	return status, nil
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      TaskStatus `db:"status" json:"status"`
	UserID      uuid.UUID  `db:"user_id" json:"userId"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// PublicTask is a task with its owner reference stripped.
type PublicTask struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t Task) Public() PublicTask {
	return PublicTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TaskFilter narrows a task listing. The zero value matches every task of
// the caller.
type TaskFilter struct {
	Status *TaskStatus `json:"status,omitempty"`
	Search string      `json:"search,omitempty"`
}

// CreateTaskPayload is the caller-supplied part of a new task.
type CreateTaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
