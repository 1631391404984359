package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/service"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

// EmployeesHandler manages the employee CRUD endpoints.
type EmployeesHandler struct {
	service *service.EmployeeService
	baseURL string
}

// NewEmployeesHandler constructs handler. An empty baseURL makes page links
// use the request's own base URL.
func NewEmployeesHandler(employeeService *service.EmployeeService, baseURL string) *EmployeesHandler {
	return &EmployeesHandler{service: employeeService, baseURL: baseURL}
}

// ListEmployees GET /employees.
func (h *EmployeesHandler) ListEmployees(c *fiber.Ctx) error {
	page, err := parsePagingQuery(c, "page", service.DefaultPage)
	if err != nil {
		return err
	}
	limit, err := parsePagingQuery(c, "limit", service.DefaultLimit)
	if err != nil {
		return err
	}
	query := service.EmployeeListQuery{
		Page:    page,
		Limit:   limit,
		Name:    c.Query("name"),
		Role:    c.Query("role"),
		Company: c.Query("company"),
	}

	result, err := h.service.ListEmployees(requestContext(c), query)
	if err != nil {
		return err
	}

	baseURL := h.baseURL
	if baseURL == "" {
		baseURL = c.BaseURL()
	}
	return c.JSON(dto.NewEmployeeListResponse(result, query, baseURL))
}

// CreateEmployee POST /employees.
func (h *EmployeesHandler) CreateEmployee(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}

	employee, err := h.service.CreateEmployee(requestContext(c), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OKWithMessage("Employee created successfully", dto.NewEmployeeResponse(employee)))
}

// GetEmployee GET /employees/:id.
func (h *EmployeesHandler) GetEmployee(c *fiber.Ctx) error {
	id, err := employeeID(c)
	if err != nil {
		return err
	}
	employee, err := h.service.GetEmployee(requestContext(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewEmployeeResponse(employee)))
}

// UpdateEmployee PUT /employees/:id.
func (h *EmployeesHandler) UpdateEmployee(c *fiber.Ctx) error {
	id, err := employeeID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}

	employee, err := h.service.UpdateEmployee(requestContext(c), id, req.Input())
	if err != nil {
		return err
	}
	return c.JSON(dto.OKWithMessage("Employee updated successfully", dto.NewEmployeeResponse(employee)))
}

// DeleteEmployee DELETE /employees/:id.
func (h *EmployeesHandler) DeleteEmployee(c *fiber.Ctx) error {
	id, err := employeeID(c)
	if err != nil {
		return err
	}
	employee, err := h.service.DeleteEmployee(requestContext(c), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKWithMessage("Employee deleted successfully", dto.NewEmployeeResponse(employee)))
}

func employeeID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("Valid employee ID is required", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

// parsePagingQuery returns fallback for an absent or empty value. Anything
// else must be an integer; range checks happen in the service.
func parsePagingQuery(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("Page and limit must be positive integers", map[string]any{key: raw})
	}
	return v, nil
}

// requestContext carries the request deadline and the authenticated caller
// into the service layer.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Admin != nil {
		ctx = events.WithActor(ctx, events.Actor{Type: principal.SubjectType, Subject: principal.Admin.Email})
	}
	return ctx
}
