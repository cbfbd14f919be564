package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/taskmanagement/internal/errs"
	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_RejectsUnknownStatusBeforeStorage(t *testing.T) {
	store := &fakeTaskStore{}
	svc := NewTaskService(store)
	bogus := model.TaskStatus("ARCHIVED")

	_, err := svc.GetTasks(context.Background(), model.User{}, model.TaskFilter{Status: &bogus})
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	_, err = svc.UpdateTaskStatus(context.Background(), model.User{}, uuid.New(), bogus)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	assert.Empty(t, store.calls)
}

func TestTaskService_Delegates(t *testing.T) {
	store := &fakeTaskStore{}
	svc := NewTaskService(store)
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Username: "alice"}
	done := model.TaskStatusDone

	_, err := svc.GetTasks(ctx, user, model.TaskFilter{Status: &done, Search: "milk"})
	require.NoError(t, err)
	assert.Equal(t, "milk", store.lastFilter.Search)

	created, err := svc.CreateTask(ctx, user, model.CreateTaskPayload{Title: "Buy milk", Description: "2 liters"})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusOpen, created.Status)

	_, err = svc.GetTaskByID(ctx, user, uuid.New())
	require.NoError(t, err)

	updated, err := svc.UpdateTaskStatus(ctx, user, uuid.New(), model.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, updated.Status)

	require.NoError(t, svc.DeleteTask(ctx, user, uuid.New()))

	assert.Equal(t, []string{"GetTasks", "CreateTask", "GetTaskByID", "UpdateTaskStatus", "DeleteTask"}, store.calls)
}

func TestTaskService_PropagatesStoreErrors(t *testing.T) {
	store := &fakeTaskStore{err: errs.NewInternalServerError()}
	svc := NewTaskService(store)

	_, err := svc.GetTasks(context.Background(), model.User{}, model.TaskFilter{})
	assert.True(t, errs.IsInternal(err))
}
