package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util/errorutil"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	employeeResource = "Employee"
)

// EmployeeCache is the read-through cache consulted for single lookups.
type EmployeeCache interface {
	Get(ctx context.Context, id int64) (*domain.Employee, error)
	Set(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id int64) error
}

// EmployeeDependencies bundles collaborators for the employee service.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Cache        EmployeeCache
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// EmployeeService coordinates employee workflows.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	cache      EmployeeCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	validate   *validator.Validate
}

// EmployeeListQuery describes one page request.
type EmployeeListQuery struct {
	Page    int
	Limit   int
	Name    string
	Role    string
	Company string
}

// EmployeePage is one page of employees plus paging metadata.
type EmployeePage struct {
	Employees  []domain.Employee
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// EmployeeCreateInput describes employee creation payload.
type EmployeeCreateInput struct {
	Name     string
	Email    string
	Role     string
	Company  string
	JoinDate string
	Salary   *float64
}

// EmployeeUpdateInput describes an update. Nil optional fields are left as
// stored.
type EmployeeUpdateInput struct {
	Name     string
	Email    string
	Role     string
	Company  *string
	JoinDate *string
	Salary   *float64
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:  deps.EmployeeRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		validate:   validator.New(),
	}
}

// ListEmployees returns the requested page, newest first.
func (s *EmployeeService) ListEmployees(ctx context.Context, query EmployeeListQuery) (*EmployeePage, error) {
	if query.Page <= 0 || query.Limit <= 0 {
		return nil, apperrors.NewValidationError("Page and limit must be positive integers", map[string]any{
			"page":  query.Page,
			"limit": query.Limit,
		})
	}

	filter := repository.EmployeeFilter{
		Name:    query.Name,
		Role:    query.Role,
		Company: query.Company,
		Limit:   query.Limit,
		Offset:  pageOffset(query.Page, query.Limit),
	}
	rows, total, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to fetch employees", err)
	}

	totalPages := total / query.Limit
	if total%query.Limit != 0 {
		totalPages++
	}
	return &EmployeePage{
		Employees:  rows,
		Page:       query.Page,
		Limit:      query.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    query.Page < totalPages,
		HasPrev:    query.Page > 1,
	}, nil
}

// pageOffset returns the row offset of page, saturating at math.MaxInt so
// pages far past the end still select zero rows.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// GetEmployee fetches one employee, consulting the cache first.
func (s *EmployeeService) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("employee cache read failed", zap.Int64("employee_id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, employeeResource, "Failed to fetch employee")
	}
	s.storeInCache(ctx, employee)
	return employee, nil
}

// CreateEmployee validates and persists a new employee.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeCreateInput) (*domain.Employee, error) {
	values := map[string]string{
		"name":     input.Name,
		"email":    input.Email,
		"role":     input.Role,
		"joinDate": input.JoinDate,
	}
	if missing := apperrors.MissingFields(values, "name", "email", "role", "joinDate"); len(missing) > 0 {
		return nil, apperrors.NewMissingFields(missing)
	}

	employee := &domain.Employee{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Role:    strings.TrimSpace(input.Role),
		Company: strings.TrimSpace(input.Company),
	}
	if err := s.validateEmail(employee.Email); err != nil {
		return nil, err
	}
	joinDate, err := parseJoinDate(input.JoinDate)
	if err != nil {
		return nil, err
	}
	employee.JoinDate = joinDate
	if input.Salary != nil {
		if err := s.validateSalary(*input.Salary); err != nil {
			return nil, err
		}
		employee.Salary = *input.Salary
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, apperrors.NewInternalError("Failed to create employee", err)
	}

	s.publishEvent(ctx, events.NewEvent(ctx, events.EventEmployeeCreated, employee.ID, events.EmployeeCreatedPayload{
		Name:    employee.Name,
		Email:   employee.Email,
		Role:    employee.Role,
		Company: employee.Company,
	}))
	return employee, nil
}

// UpdateEmployee writes name, email and role plus whichever optional fields
// are present.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int64, input EmployeeUpdateInput) (*domain.Employee, error) {
	values := map[string]string{
		"name":  input.Name,
		"email": input.Email,
		"role":  input.Role,
	}
	if missing := apperrors.MissingFields(values, "name", "email", "role"); len(missing) > 0 {
		return nil, apperrors.NewMissingFields(missing)
	}

	patch := repository.EmployeePatch{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.TrimSpace(input.Email),
		Role:  strings.TrimSpace(input.Role),
	}
	if err := s.validateEmail(patch.Email); err != nil {
		return nil, err
	}
	fields := []string{"name", "email", "role"}

	if input.Company != nil {
		company := strings.TrimSpace(*input.Company)
		patch.Company = &company
		fields = append(fields, "company")
	}
	if input.JoinDate != nil {
		joinDate, err := parseJoinDate(*input.JoinDate)
		if err != nil {
			return nil, err
		}
		patch.JoinDate = &joinDate
		fields = append(fields, "joinDate")
	}
	if input.Salary != nil {
		if err := s.validateSalary(*input.Salary); err != nil {
			return nil, err
		}
		salary := *input.Salary
		patch.Salary = &salary
		fields = append(fields, "salary")
	}

	employee, err := s.employees.Update(ctx, id, patch)
	if err != nil {
		return nil, apperrors.MapError(err, employeeResource, "Failed to update employee")
	}

	s.storeInCache(ctx, employee)
	s.publishEvent(ctx, events.NewEvent(ctx, events.EventEmployeeUpdated, employee.ID, events.EmployeeUpdatedPayload{
		Fields: fields,
	}))
	return employee, nil
}

// DeleteEmployee removes the employee and returns the deleted row.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := s.employees.Delete(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, employeeResource, "Failed to delete employee")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.logger.Warn("employee cache evict failed", zap.Int64("employee_id", id), zap.Error(err))
		}
	}
	s.publishEvent(ctx, events.NewEvent(ctx, events.EventEmployeeDeleted, employee.ID, events.EmployeeDeletedPayload{
		Name:  employee.Name,
		Email: employee.Email,
	}))
	return employee, nil
}

func (s *EmployeeService) validateEmail(email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return apperrors.NewValidationError("Invalid email format", map[string]any{"field": "email"})
	}
	return nil
}

func (s *EmployeeService) validateSalary(salary float64) error {
	if err := s.validate.Var(salary, "gte=0"); err != nil {
		return apperrors.NewValidationError("Salary must be a non-negative number", map[string]any{"field": "salary"})
	}
	return nil
}

func parseJoinDate(value string) (time.Time, error) {
	joinDate, err := domain.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("Invalid joinDate, expected YYYY-MM-DD", map[string]any{"field": "joinDate"})
	}
	return joinDate, nil
}

func (s *EmployeeService) storeInCache(ctx context.Context, employee *domain.Employee) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, employee); err != nil {
		s.logger.Warn("employee cache write failed", zap.Int64("employee_id", employee.ID), zap.Error(err))
	}
}

func (s *EmployeeService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
