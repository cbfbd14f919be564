package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/taskmanagement/internal/config"
	"github.com/deppfellow/taskmanagement/internal/errs"
	"github.com/deppfellow/taskmanagement/internal/server"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(logger zerolog.Logger, rateLimit float64) *server.Server {
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{RateLimit: rateLimit},
		},
		Logger: &logger,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var httpErr errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr), rec.Body.String())
	return httpErr
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec = serve(e, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", rec.Body.String())
}

func TestContextEnhancer_PropagatesLogger(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(zerolog.New(&buf), 0)

	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	e.GET("/tasks", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from context")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	rec := serve(e, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "from context", line["message"])
	assert.Equal(t, "req-abc", line["request_id"])
	assert.Equal(t, "/tasks", line["path"])
}

func TestGetLogger_DefaultsToNop(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	logger := GetLogger(c)

	require.NotNil(t, logger)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(zerolog.Nop(), 1)
	e := newTestEcho(s)
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	request := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		return serve(e, req)
	}

	assert.Equal(t, http.StatusOK, request().Code)
	assert.Equal(t, http.StatusOK, request().Code)

	rec := request()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, rec).Code)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "192.0.2.11:4000"
	assert.Equal(t, http.StatusOK, serve(e, other).Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	s := newTestServer(zerolog.Nop(), 0)
	e := newTestEcho(s)
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for range 10 {
		assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "http error passes through",
			err:         errs.NewNotFoundError("Task not found", true, nil),
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "Task not found",
		},
		{
			name:        "plain error is opaque",
			err:         errors.New(`dial tcp 10.0.0.5:5432: connection refused`),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_SERVER_ERROR",
			wantMessage: "Internal Server Error",
		},
		{
			name: "unique violation becomes bad request",
			err: &pgconn.PgError{
				Code:           "23505",
				TableName:      "users",
				ConstraintName: "users_external_id_key",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "echo error keeps its status",
			err:         echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			wantStatus:  http.StatusMethodNotAllowed,
			wantCode:    "METHOD_NOT_ALLOWED",
			wantMessage: "Method Not Allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(zerolog.Nop(), 0)
			e := newTestEcho(s)
			e.GET("/", func(c echo.Context) error {
				return tt.err
			})

			rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			httpErr := decodeError(t, rec)
			assert.Equal(t, tt.wantStatus, httpErr.Status)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, httpErr.Code)
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, httpErr.Message)
			}
		})
	}
}

func TestGlobalErrorHandler_UnknownRoute(t *testing.T) {
	e := newTestEcho(newTestServer(zerolog.Nop(), 0))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Message)
}
