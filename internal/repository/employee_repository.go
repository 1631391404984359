package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/employee-service/internal/domain"
)

// DB is the subset of pgxpool.Pool the repositories rely on.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// EmployeePatch lists the columns an update writes. Nil pointers leave the
// stored value untouched.
type EmployeePatch struct {
	Name     string
	Email    string
	Role     string
	Company  *string
	JoinDate *time.Time
	Salary   *float64
}

// EmployeeRepository encapsulates employee persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, int, error)
	Update(ctx context.Context, id int64, patch EmployeePatch) (*domain.Employee, error)
	Delete(ctx context.Context, id int64) (*domain.Employee, error)
}

const employeeColumns = `id, name, email, role, company, join_date, salary, created_at, updated_at`

type employeeRepository struct {
	db DB
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(db DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (name, email, role, company, join_date, salary)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		employee.Name,
		employee.Email,
		employee.Role,
		employee.Company,
		employee.JoinDate,
		employee.Salary,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	return scanEmployee(r.db.QueryRow(ctx, query, id))
}

// List reads one page and the total match count from the same snapshot.
func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, int, error) {
	where, args := filter.whereClause()
	limit, offset := filter.window()

	countQuery := `SELECT COUNT(*) FROM employees` + where
	pageQuery := fmt.Sprintf(`SELECT %s FROM employees%s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		employeeColumns, where, limit, offset)

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, err
	}
	result, total, err := readPage(ctx, tx, countQuery, pageQuery, args)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func readPage(ctx context.Context, tx pgx.Tx, countQuery, pageQuery string, args []any) ([]domain.Employee, int, error) {
	var total int
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := tx.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	result, err := scanEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *employeeRepository) Update(ctx context.Context, id int64, patch EmployeePatch) (*domain.Employee, error) {
	args := []any{patch.Name, patch.Email, patch.Role}
	sets := []string{"name=$1", "email=$2", "role=$3"}

	if patch.Company != nil {
		args = append(args, *patch.Company)
		sets = append(sets, fmt.Sprintf("company=$%d", len(args)))
	}
	if patch.JoinDate != nil {
		args = append(args, *patch.JoinDate)
		sets = append(sets, fmt.Sprintf("join_date=$%d", len(args)))
	}
	if patch.Salary != nil {
		args = append(args, *patch.Salary)
		sets = append(sets, fmt.Sprintf("salary=$%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE employees SET %s, updated_at=NOW() WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), employeeColumns)
	return scanEmployee(r.db.QueryRow(ctx, query, args...))
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `DELETE FROM employees WHERE id=$1 RETURNING ` + employeeColumns
	return scanEmployee(r.db.QueryRow(ctx, query, id))
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var employee domain.Employee
	if err := row.Scan(
		&employee.ID,
		&employee.Name,
		&employee.Email,
		&employee.Role,
		&employee.Company,
		&employee.JoinDate,
		&employee.Salary,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func scanEmployees(rows pgx.Rows) ([]domain.Employee, error) {
	result := []domain.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *employee)
	}
	return result, rows.Err()
}
