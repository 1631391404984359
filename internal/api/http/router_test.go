package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/repository"
	"github.com/spec-kit/employee-service/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		Page           int     `json:"page"`
		Limit          int     `json:"limit"`
		TotalEmployees int     `json:"totalEmployees"`
		TotalPages     int     `json:"totalPages"`
		HasNextPage    bool    `json:"hasNextPage"`
		HasPrevPage    bool    `json:"hasPrevPage"`
		NextPage       *string `json:"nextPage"`
		PrevPage       *string `json:"prevPage"`
	} `json:"meta"`
}

type employeeJSON struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Company  string  `json:"company"`
	JoinDate string  `json:"joinDate"`
	Salary   float64 `json:"salary"`
}

type testServer struct {
	app     *fiber.App
	metrics *observability.Metrics
}

type serverOption func(*RouteConfig, *service.EmployeeDependencies)

func withRepo(repo repository.EmployeeRepository) serverOption {
	return func(_ *RouteConfig, deps *service.EmployeeDependencies) { deps.EmployeeRepo = repo }
}

func withRateLimit(max int) serverOption {
	return func(rc *RouteConfig, _ *service.EmployeeDependencies) { rc.RateLimit = RateLimiter(max, time.Minute) }
}

func withAuth(t *testing.T, password string) serverOption {
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	authService := service.NewAuthService(config.AuthConfig{
		Enabled:               true,
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		AdminEmail:            "admin@example.com",
		AdminPasswordHash:     hash,
	})
	return func(rc *RouteConfig, _ *service.EmployeeDependencies) {
		rc.Auth = handlers.NewAuthHandler(authService)
		rc.AuthMiddleware = auth.NewAuthMiddleware(authService.TokenManager(), "admin@example.com")
	}
}

func withChecks(logger *zap.Logger, checks ...handlers.DependencyCheck) serverOption {
	return func(rc *RouteConfig, _ *service.EmployeeDependencies) {
		rc.Health = handlers.NewHealthHandler("employee-service", "test", logger, checks...)
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	deps := service.EmployeeDependencies{
		EmployeeRepo: repository.NewMemoryEmployeeRepository(),
		Dispatcher:   events.NewInMemoryDispatcher(),
		Logger:       logger,
	}
	rc := RouteConfig{
		Health:  handlers.NewHealthHandler("employee-service", "test", logger),
		Metrics: handlers.NewMetricsHandler(metrics),
	}
	for _, opt := range opts {
		opt(&rc, &deps)
	}
	rc.Employees = handlers.NewEmployeesHandler(service.NewEmployeeService(deps), "")

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	RegisterMiddlewares(app, logger, metrics, config.HTTPConfig{AllowOrigins: "*"}, 5*time.Second)
	RegisterRoutes(app, rc)
	return &testServer{app: app, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, target string, body any, headers ...string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decodeEmployee(t *testing.T, env envelope) employeeJSON {
	t.Helper()
	var e employeeJSON
	require.NoError(t, json.Unmarshal(env.Data, &e))
	return e
}

func (s *testServer) seed(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		status, _ := s.do(t, nethttp.MethodPost, "/employees", map[string]any{
			"name":     fmt.Sprintf("Employee %02d", i),
			"email":    fmt.Sprintf("e%d@example.com", i),
			"role":     "Engineer",
			"joinDate": "2023-01-01",
			"salary":   1000 * i,
		})
		require.Equal(t, nethttp.StatusCreated, status)
	}
}

func TestListEmployeesPaging(t *testing.T) {
	srv := newTestServer(t)
	srv.seed(t, 10)

	status, env := srv.do(t, nethttp.MethodGet, "/employees?page=2&limit=4", nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, 10, env.Meta.TotalEmployees)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.True(t, env.Meta.HasNextPage)
	assert.True(t, env.Meta.HasPrevPage)
	require.NotNil(t, env.Meta.NextPage)
	assert.Equal(t, "http://example.com/employees?page=3&limit=4", *env.Meta.NextPage)
	assert.Equal(t, "http://example.com/employees?page=1&limit=4", *env.Meta.PrevPage)

	var rows []employeeJSON
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 4)
	for _, row := range rows {
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, row.JoinDate)
	}

	status, env = srv.do(t, nethttp.MethodGet, "/employees?page=5&limit=4", nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.Nil(t, env.Meta.NextPage)
}

func TestListEmployeesDefaultsAndFilters(t *testing.T) {
	srv := newTestServer(t)
	srv.seed(t, 12)

	status, env := srv.do(t, nethttp.MethodGet, "/employees?page=&limit=", nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, 1, env.Meta.Page)
	assert.Equal(t, 10, env.Meta.Limit)

	status, env = srv.do(t, nethttp.MethodGet, "/employees?name=employee%2011&role=ENGINEER&company=", nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, 1, env.Meta.TotalEmployees)
}

func TestListEmployeesRejectsBadPaging(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{"/employees?page=abc", "/employees?limit=0", "/employees?page=-1"} {
		status, env := srv.do(t, nethttp.MethodGet, target, nil)
		assert.Equal(t, nethttp.StatusBadRequest, status, target)
		assert.False(t, env.Success)
		assert.Equal(t, "Page and limit must be positive integers", env.Error)
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, nethttp.MethodPost, "/employees", map[string]any{
		"name":     "Amit Sharma",
		"email":    "amit@example.com",
		"role":     "Software Engineer",
		"company":  "TCS",
		"joinDate": "2022-03-15T10:00:00Z",
		"salary":   "80000",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	assert.Equal(t, "Employee created successfully", env.Message)
	created := decodeEmployee(t, env)

	status, env = srv.do(t, nethttp.MethodGet, fmt.Sprintf("/employees/%d", created.ID), nil)
	require.Equal(t, nethttp.StatusOK, status)
	got := decodeEmployee(t, env)
	assert.Equal(t, "Amit Sharma", got.Name)
	assert.Equal(t, "TCS", got.Company)
	assert.Equal(t, "2022-03-15", got.JoinDate)
	assert.Equal(t, float64(80000), got.Salary)
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, nethttp.MethodPost, "/employees", map[string]any{"name": "A"})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields: email, role, joinDate", env.Error)

	status, env = srv.do(t, nethttp.MethodPost, "/employees", map[string]any{
		"name": "A", "email": "a@x.com", "role": "R", "joinDate": "2024-01-01", "salary": "many",
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", env.Error)
}

func TestErrorKindsAreDistinct(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, nethttp.MethodGet, "/employees/abc", nil)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "Valid employee ID is required", env.Error)

	status, env = srv.do(t, nethttp.MethodGet, "/employees/999", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "Employee not found", env.Error)

	failing := newTestServer(t, withRepo(brokenRepo{}))
	status, env = failing.do(t, nethttp.MethodGet, "/employees", nil)
	assert.Equal(t, nethttp.StatusInternalServerError, status)
	assert.Equal(t, "Failed to fetch employees", env.Error)
	assert.NotContains(t, env.Error, "connection refused")

	status, env = srv.do(t, nethttp.MethodGet, "/nowhere", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestUpdatePreservesOmittedFields(t *testing.T) {
	srv := newTestServer(t)
	status, env := srv.do(t, nethttp.MethodPost, "/employees", map[string]any{
		"name": "Sneha", "email": "sneha@example.com", "role": "QA", "company": "HCL",
		"joinDate": "2020-11-05", "salary": 60000,
	})
	require.Equal(t, nethttp.StatusCreated, status)
	id := decodeEmployee(t, env).ID

	status, env = srv.do(t, nethttp.MethodPut, fmt.Sprintf("/employees/%d", id), map[string]any{
		"name": "Sneha P", "email": "sneha@example.com", "role": "QA Lead",
	})
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "Employee updated successfully", env.Message)
	updated := decodeEmployee(t, env)
	assert.Equal(t, "QA Lead", updated.Role)
	assert.Equal(t, "HCL", updated.Company)
	assert.Equal(t, "2020-11-05", updated.JoinDate)
	assert.Equal(t, float64(60000), updated.Salary)

	status, env = srv.do(t, nethttp.MethodPut, fmt.Sprintf("/employees/%d", id), map[string]any{"name": "X"})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields: email, role", env.Error)

	status, _ = srv.do(t, nethttp.MethodPut, "/employees/12345", map[string]any{"name": "X", "email": "x@x.com", "role": "R"})
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestDeleteEmployee(t *testing.T) {
	srv := newTestServer(t)
	srv.seed(t, 1)

	status, env := srv.do(t, nethttp.MethodDelete, "/employees/1", nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "Employee deleted successfully", env.Message)
	assert.Equal(t, "Employee 01", decodeEmployee(t, env).Name)

	status, _ = srv.do(t, nethttp.MethodGet, "/employees/1", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	status, _ = srv.do(t, nethttp.MethodDelete, "/employees/1", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestAdminAuthGuardsEmployees(t *testing.T) {
	srv := newTestServer(t, withAuth(t, "hunter2"))

	status, env := srv.do(t, nethttp.MethodGet, "/employees", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = srv.do(t, nethttp.MethodPost, "/auth/login", map[string]string{"email": "admin@example.com", "password": "nope"})
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, env = srv.do(t, nethttp.MethodPost, "/auth/login", map[string]string{"email": "admin@example.com", "password": "hunter2"})
	require.Equal(t, nethttp.StatusOK, status)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	status, _ = srv.do(t, nethttp.MethodGet, "/employees", nil, "Authorization", "Bearer "+login.Token)
	assert.Equal(t, nethttp.StatusOK, status)
}

func TestLoginRouteAbsentWhenAuthDisabled(t *testing.T) {
	srv := newTestServer(t)
	status, _ := srv.do(t, nethttp.MethodPost, "/auth/login", map[string]string{"email": "a", "password": "b"})
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, withRateLimit(1))

	status, _ := srv.do(t, nethttp.MethodGet, "/employees", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	status, env := srv.do(t, nethttp.MethodGet, "/employees", nil)
	assert.Equal(t, nethttp.StatusTooManyRequests, status)
	assert.False(t, env.Success)
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t, withChecks(zap.NewNop(), handlers.DependencyCheck{Name: "postgres", Pinger: pingerFunc(func(context.Context) error {
		return errors.New("down")
	})}))

	status, env := srv.do(t, nethttp.MethodGet, "/health/live", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.True(t, env.Success)

	status, env = srv.do(t, nethttp.MethodGet, "/health/ready", nil)
	assert.Equal(t, nethttp.StatusServiceUnavailable, status)
	assert.False(t, env.Success)

	resp, err := srv.app.Test(httptest.NewRequest(nethttp.MethodGet, "/api/docs", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "3.0.3", doc["openapi"])

	srv.do(t, nethttp.MethodGet, "/employees/abc", nil)
	status, env = srv.do(t, nethttp.MethodGet, "/metrics", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Contains(t, string(env.Data), "VALIDATION_FAILED")
}

func TestReadinessHidesDependencyErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	srv := newTestServer(t, withChecks(zap.New(core),
		handlers.DependencyCheck{Name: "postgres", Pinger: pingerFunc(func(context.Context) error {
			return errors.New("dial tcp 10.0.0.5:5432: connection refused")
		})},
		handlers.DependencyCheck{Name: "redis", Pinger: pingerFunc(func(context.Context) error { return nil })},
	))

	resp, err := srv.app.Test(httptest.NewRequest(nethttp.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "10.0.0.5")

	var body struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "unavailable", body.Dependencies["postgres"])
	assert.Equal(t, "ok", body.Dependencies["redis"])

	entries := logs.FilterMessage("dependency unavailable").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "postgres", entries[0].ContextMap()["dependency"])
	assert.Contains(t, entries[0].ContextMap()["error"], "connection refused")
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type brokenRepo struct {
	repository.EmployeeRepository
}

func (brokenRepo) List(context.Context, repository.EmployeeFilter) ([]domain.Employee, int, error) {
	return nil, 0, errors.New("connection refused")
}
