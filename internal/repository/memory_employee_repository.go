package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/employee-service/internal/domain"
)

type memoryEmployeeRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]domain.Employee
	now    func() time.Time
}

// NewMemoryEmployeeRepository keeps employees in process memory. It mirrors
// the Postgres filter and ordering rules and reports missing rows with
// pgx.ErrNoRows.
func NewMemoryEmployeeRepository() EmployeeRepository {
	return &memoryEmployeeRepository{
		rows: make(map[int64]domain.Employee),
		now:  time.Now,
	}
}

func (r *memoryEmployeeRepository) Create(_ context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now().UTC()
	employee.ID = r.nextID
	employee.CreatedAt = now
	employee.UpdatedAt = now
	r.rows[employee.ID] = *employee
	return nil
}

func (r *memoryEmployeeRepository) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employee, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &employee, nil
}

func (r *memoryEmployeeRepository) List(_ context.Context, filter EmployeeFilter) ([]domain.Employee, int, error) {
	r.mu.RLock()
	matched := make([]domain.Employee, 0, len(r.rows))
	for _, employee := range r.rows {
		if filter.Matches(employee.Name, employee.Role, employee.Company) {
			matched = append(matched, employee)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	limit, offset := filter.window()
	total := len(matched)
	if offset >= total {
		return []domain.Employee{}, total, nil
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (r *memoryEmployeeRepository) Update(_ context.Context, id int64, patch EmployeePatch) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employee, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	employee.Name = patch.Name
	employee.Email = patch.Email
	employee.Role = patch.Role
	if patch.Company != nil {
		employee.Company = *patch.Company
	}
	if patch.JoinDate != nil {
		employee.JoinDate = *patch.JoinDate
	}
	if patch.Salary != nil {
		employee.Salary = *patch.Salary
	}
	employee.UpdatedAt = r.now().UTC()
	r.rows[id] = employee
	return &employee, nil
}

func (r *memoryEmployeeRepository) Delete(_ context.Context, id int64) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employee, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	delete(r.rows, id)
	return &employee, nil
}
