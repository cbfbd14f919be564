package repository

import (
	"context"

	"github.com/deppfellow/taskmanagement/internal/errs"
	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// TaskNotFoundCode is reported when a task is missing or owned by someone else.
const TaskNotFoundCode = "TASK_NOT_FOUND"

// TaskRepository reads and writes tasks. Every statement is scoped to the
// owning user; a task of another user is indistinguishable from a missing one.
//
// Storage failures are logged with the caller and the request input, then
// replaced by the opaque internal error. The driver error never reaches the
// caller.
type TaskRepository struct {
	db     DBTX
	logger *zerolog.Logger
}

func NewTaskRepository(db DBTX, logger *zerolog.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// GetTasks lists the tasks of user matching filter. No match yields an
// empty slice.
func (r *TaskRepository) GetTasks(ctx context.Context, user model.User, filter model.TaskFilter) ([]model.Task, error) {
	query, args := buildListQuery(user.ID, filter)

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, r.storageFailure(ctx, err, user, "filter", filter, "failed to get tasks")
	}

	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Task])
	if err != nil {
		return nil, r.storageFailure(ctx, err, user, "filter", filter, "failed to get tasks")
	}

	return tasks, nil
}

// CreateTask stores a new OPEN task owned by user.
func (r *TaskRepository) CreateTask(ctx context.Context, user model.User, payload model.CreateTaskPayload) (model.PublicTask, error) {
	query := `
		INSERT INTO tasks (title, description, status, user_id)
		VALUES (@title, @description, @status, @user_id)
		RETURNING ` + taskColumns

	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{
		"title":       payload.Title,
		"description": payload.Description,
		"status":      string(model.TaskStatusOpen),
		"user_id":     user.ID,
	})
	if err != nil {
		return model.PublicTask{}, r.storageFailure(ctx, err, user, "payload", payload, "failed to save task")
	}

	task, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Task])
	if err != nil {
		return model.PublicTask{}, r.storageFailure(ctx, err, user, "payload", payload, "failed to save task")
	}

	return task.Public(), nil
}

func (r *TaskRepository) GetTaskByID(ctx context.Context, user model.User, taskID uuid.UUID) (model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = @id AND user_id = @user_id`

	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{
		"id":      taskID,
		"user_id": user.ID,
	})
	if err != nil {
		return model.Task{}, r.storageFailure(ctx, err, user, "task_id", taskID, "failed to get task")
	}

	task, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Task])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, errTaskNotFound()
		}
		return model.Task{}, r.storageFailure(ctx, err, user, "task_id", taskID, "failed to get task")
	}

	return task, nil
}

func (r *TaskRepository) UpdateTaskStatus(ctx context.Context, user model.User, taskID uuid.UUID, status model.TaskStatus) (model.Task, error) {
	query := `
		UPDATE tasks
		SET status = @status, updated_at = now()
		WHERE id = @id AND user_id = @user_id
		RETURNING ` + taskColumns

	input := map[string]any{"task_id": taskID, "status": status}

	rows, err := r.db.Query(ctx, query, pgx.NamedArgs{
		"status":  string(status),
		"id":      taskID,
		"user_id": user.ID,
	})
	if err != nil {
		return model.Task{}, r.storageFailure(ctx, err, user, "input", input, "failed to update task status")
	}

	task, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Task])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, errTaskNotFound()
		}
		return model.Task{}, r.storageFailure(ctx, err, user, "input", input, "failed to update task status")
	}

	return task, nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, user model.User, taskID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = @id AND user_id = @user_id`, pgx.NamedArgs{
		"id":      taskID,
		"user_id": user.ID,
	})
	if err != nil {
		return r.storageFailure(ctx, err, user, "task_id", taskID, "failed to delete task")
	}

	if tag.RowsAffected() == 0 {
		return errTaskNotFound()
	}

	return nil
}

func errTaskNotFound() error {
	code := TaskNotFoundCode
	return errs.NewNotFoundError("Task not found", true, &code)
}

// storageFailure logs err with the caller and the input that triggered it and
// returns the opaque internal error.
func (r *TaskRepository) storageFailure(ctx context.Context, err error, user model.User, inputKey string, input any, msg string) error {
	requestLogger(ctx, r.logger).Error().
		Stack().
		Err(errors.WithStack(err)).
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Interface(inputKey, input).
		Msg(msg)

	return errs.NewInternalServerError()
}
