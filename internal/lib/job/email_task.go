package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TaskWelcome is the Asynq task type of the welcome e-mail.
const TaskWelcome = "email:welcome"

type WelcomeEmailPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

// NewWelcomeEmailTask retries three times on the default queue.
func NewWelcomeEmailTask(to, name string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:   to,
		Name: name,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueWelcomeEmail schedules the welcome e-mail of a new user.
func (j *JobService) EnqueueWelcomeEmail(ctx context.Context, to, name string) error {
	if j == nil || j.Client == nil {
		return fmt.Errorf("job service is not initialized")
	}

	task, err := NewWelcomeEmailTask(to, name)
	if err != nil {
		return fmt.Errorf("failed to build welcome email task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue welcome email task: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("enqueued welcome email")

	return nil
}
