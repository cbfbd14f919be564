package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/taskmanagement/internal/config"
	"github.com/deppfellow/taskmanagement/internal/errs"
	"github.com/deppfellow/taskmanagement/internal/middleware"
	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/deppfellow/taskmanagement/internal/server"
	"github.com/deppfellow/taskmanagement/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

// memoryTaskStore keeps tasks in memory with the same owner scoping as the
// PostgreSQL repository.
type memoryTaskStore struct {
	mu    sync.Mutex
	tasks []model.Task
	err   error
}

func (s *memoryTaskStore) GetTasks(ctx context.Context, user model.User, filter model.TaskFilter) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	out := []model.Task{}
	for _, task := range s.tasks {
		if task.UserID != user.ID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(task.Title), needle) && !strings.Contains(strings.ToLower(task.Description), needle) {
				continue
			}
		}
		out = append(out, task)
	}
	return out, nil
}

func (s *memoryTaskStore) CreateTask(ctx context.Context, user model.User, payload model.CreateTaskPayload) (model.PublicTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.PublicTask{}, s.err
	}

	task := model.Task{
		ID:          uuid.New(),
		Title:       payload.Title,
		Description: payload.Description,
		Status:      model.TaskStatusOpen,
		UserID:      user.ID,
	}
	s.tasks = append(s.tasks, task)
	return task.Public(), nil
}

func (s *memoryTaskStore) find(user model.User, taskID uuid.UUID) (int, error) {
	for i, task := range s.tasks {
		if task.ID == taskID && task.UserID == user.ID {
			return i, nil
		}
	}
	return -1, errs.NewNotFoundError("Task not found", true, nil)
}

func (s *memoryTaskStore) GetTaskByID(ctx context.Context, user model.User, taskID uuid.UUID) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.find(user, taskID)
	if err != nil {
		return model.Task{}, err
	}
	return s.tasks[i], nil
}

func (s *memoryTaskStore) UpdateTaskStatus(ctx context.Context, user model.User, taskID uuid.UUID, status model.TaskStatus) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.find(user, taskID)
	if err != nil {
		return model.Task{}, err
	}
	s.tasks[i].Status = status
	return s.tasks[i], nil
}

func (s *memoryTaskStore) DeleteTask(ctx context.Context, user model.User, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.find(user, taskID)
	if err != nil {
		return err
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// knownUsers resolves every subject to a stable user.
type knownUsers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func (k *knownUsers) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	user, ok := k.users[externalID]
	if !ok {
		user = model.User{ID: uuid.New(), ExternalID: externalID, Username: externalID}
		k.users[externalID] = user
	}
	return user, nil
}

func (k *knownUsers) Upsert(ctx context.Context, identity model.Identity) (model.User, bool, error) {
	return model.User{}, false, errors.New("not used")
}

func newTestRouter(t *testing.T) (*echo.Echo, *memoryTaskStore) {
	t.Helper()

	logger := zerolog.Nop()
	srv := &server.Server{Config: &config.Config{}, Logger: &logger}

	store := &memoryTaskStore{}
	users := service.NewUserService(&knownUsers{users: map[string]model.User{}}, nil, nil, &logger)
	h := NewTaskHandler(srv, service.NewTaskService(store), users)

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(srv).GlobalErrorHandler

	tasks := e.Group("/api/v1/tasks", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if subject := c.Request().Header.Get(testUserHeader); subject != "" {
				c.Set(middleware.UserIDKey, subject)
			}
			return next(c)
		}
	})
	tasks.GET("", Handle(h.Handler, h.GetTasks, http.StatusOK, &model.GetTasksQuery{}))
	tasks.POST("", Handle(h.Handler, h.CreateTask, http.StatusCreated, &model.CreateTaskRequest{}))
	tasks.GET("/:id", Handle(h.Handler, h.GetTaskByID, http.StatusOK, &model.GetTaskRequest{}))
	tasks.PATCH("/:id/status", Handle(h.Handler, h.UpdateTaskStatus, http.StatusOK, &model.UpdateTaskStatusRequest{}))
	tasks.DELETE("/:id", HandleNoContent(h.Handler, h.DeleteTask, http.StatusNoContent, &model.DeleteTaskRequest{}))

	return e, store
}

func do(e *echo.Echo, method, target, user, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != "" {
		req.Header.Set(testUserHeader, user)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createTask(t *testing.T, e *echo.Echo, user, title, description string) model.PublicTask {
	t.Helper()
	body, err := json.Marshal(map[string]string{"title": title, "description": description})
	require.NoError(t, err)

	rec := do(e, http.MethodPost, "/api/v1/tasks", user, string(body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.PublicTask](t, rec)
}

func TestTaskHandler_RequiresUser(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/api/v1/tasks", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decode[errs.HTTPError](t, rec).Code)
}

func TestTaskHandler_CreateReturnsOpenTaskWithoutOwner(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodPost, "/api/v1/tasks", "alice", `{"title":"Buy milk","description":"2 liters","status":"DONE"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var fields map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.Equal(t, "OPEN", fields["status"])
	assert.Equal(t, "Buy milk", fields["title"])
	assert.Equal(t, "2 liters", fields["description"])
	assert.NotContains(t, fields, "userId")
	assert.NotContains(t, fields, "user")
}

func TestTaskHandler_CreateValidation(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodPost, "/api/v1/tasks", "alice", `{"description":"2 liters"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	httpErr := decode[errs.HTTPError](t, rec)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "title", httpErr.Errors[0].Field)
	assert.Equal(t, "is required", httpErr.Errors[0].Error)

	rec = do(e, http.MethodPost, "/api/v1/tasks", "alice", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_ListIsScopedAndFiltered(t *testing.T) {
	e, _ := newTestRouter(t)

	milk := createTask(t, e, "alice", "Buy milk", "2 liters")
	createTask(t, e, "alice", "Walk dog", "around the block")
	createTask(t, e, "bob", "Buy milk", "bob's milk")

	rec := do(e, http.MethodGet, "/api/v1/tasks", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Task](t, rec), 2)

	rec = do(e, http.MethodGet, "/api/v1/tasks?search=MILK", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decode[[]model.Task](t, rec)
	require.Len(t, tasks, 1)
	assert.Equal(t, milk.ID, tasks[0].ID)

	rec = do(e, http.MethodGet, "/api/v1/tasks?status=DONE", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestTaskHandler_RequestsDoNotShareState(t *testing.T) {
	e, _ := newTestRouter(t)

	createTask(t, e, "alice", "Buy milk", "2 liters")
	createTask(t, e, "alice", "Walk dog", "around the block")

	rec := do(e, http.MethodGet, "/api/v1/tasks?search=milk", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Task](t, rec), 1)

	rec = do(e, http.MethodGet, "/api/v1/tasks", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Task](t, rec), 2)
}

func TestTaskHandler_InvalidStatusFilter(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/api/v1/tasks?status=open", "alice", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	httpErr := decode[errs.HTTPError](t, rec)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "status", httpErr.Errors[0].Field)
}

func TestTaskHandler_StorageFailureIsOpaque(t *testing.T) {
	e, store := newTestRouter(t)
	store.err = errs.NewInternalServerError()

	rec := do(e, http.MethodGet, "/api/v1/tasks", "alice", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	httpErr := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", httpErr.Code)
	assert.Equal(t, "Internal Server Error", httpErr.Message)
}

func TestTaskHandler_GetUpdateDelete(t *testing.T) {
	e, _ := newTestRouter(t)
	task := createTask(t, e, "alice", "Buy milk", "2 liters")
	path := "/api/v1/tasks/" + task.ID.String()

	rec := do(e, http.MethodGet, path, "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, task.ID, decode[model.Task](t, rec).ID)

	rec = do(e, http.MethodGet, path, "bob", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodPatch, path+"/status", "alice", `{"status":"IN_PROGRESS"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.TaskStatusInProgress, decode[model.Task](t, rec).Status)

	rec = do(e, http.MethodPatch, path+"/status", "alice", `{"status":"ARCHIVED"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodDelete, path, "bob", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodDelete, path, "alice", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(e, http.MethodGet, path, "alice", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandler_RejectsMalformedID(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/api/v1/tasks/42", "alice", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	httpErr := decode[errs.HTTPError](t, rec)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "id", httpErr.Errors[0].Field)
	assert.Equal(t, "must be a valid UUID", httpErr.Errors[0].Error)
}
