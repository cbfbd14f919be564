package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeTaskStore struct {
	calls      []string
	lastFilter model.TaskFilter
	err        error
}

func (f *fakeTaskStore) GetTasks(ctx context.Context, user model.User, filter model.TaskFilter) ([]model.Task, error) {
	f.calls = append(f.calls, "GetTasks")
	f.lastFilter = filter
	return []model.Task{}, f.err
}

func (f *fakeTaskStore) CreateTask(ctx context.Context, user model.User, payload model.CreateTaskPayload) (model.PublicTask, error) {
	f.calls = append(f.calls, "CreateTask")
	return model.PublicTask{ID: uuid.New(), Title: payload.Title, Description: payload.Description, Status: model.TaskStatusOpen}, f.err
}

func (f *fakeTaskStore) GetTaskByID(ctx context.Context, user model.User, taskID uuid.UUID) (model.Task, error) {
	f.calls = append(f.calls, "GetTaskByID")
	return model.Task{ID: taskID, UserID: user.ID}, f.err
}

func (f *fakeTaskStore) UpdateTaskStatus(ctx context.Context, user model.User, taskID uuid.UUID, status model.TaskStatus) (model.Task, error) {
	f.calls = append(f.calls, "UpdateTaskStatus")
	return model.Task{ID: taskID, UserID: user.ID, Status: status}, f.err
}

func (f *fakeTaskStore) DeleteTask(ctx context.Context, user model.User, taskID uuid.UUID) error {
	f.calls = append(f.calls, "DeleteTask")
	return f.err
}

type fakeUserStore struct {
	users     map[string]model.User
	upserts   int
	getErr    error
	upsertErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (f *fakeUserStore) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	if f.getErr != nil {
		return model.User{}, f.getErr
	}
	user, ok := f.users[externalID]
	if !ok {
		return model.User{}, fmt.Errorf("table:users: %w", pgx.ErrNoRows)
	}
	return user, nil
}

func (f *fakeUserStore) Upsert(ctx context.Context, identity model.Identity) (model.User, bool, error) {
	f.upserts++
	if f.upsertErr != nil {
		return model.User{}, false, f.upsertErr
	}
	_, existed := f.users[identity.ExternalID]
	user := model.User{
		ID:         uuid.New(),
		ExternalID: identity.ExternalID,
		Username:   identity.Username,
		Email:      identity.Email,
	}
	f.users[identity.ExternalID] = user
	return user, !existed, nil
}

type fakeIdentityProvider struct {
	identity model.Identity
	err      error
	lookups  int
}

func (f *fakeIdentityProvider) Lookup(ctx context.Context, externalID string) (model.Identity, error) {
	f.lookups++
	if f.err != nil {
		return model.Identity{}, f.err
	}
	identity := f.identity
	identity.ExternalID = externalID
	return identity, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) EnqueueWelcomeEmail(ctx context.Context, to, name string) error {
	f.sent = append(f.sent, to)
	return f.err
}
