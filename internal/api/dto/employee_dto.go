package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/service"
)

// Amount accepts a JSON number or a numeric string.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("salary %q is not a number", s)
		}
		*a = Amount(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.New("salary must be a number")
	}
	*a = Amount(v)
	return nil
}

func (a *Amount) float() *float64 {
	if a == nil {
		return nil
	}
	v := float64(*a)
	return &v
}

// CreateEmployeeRequest payload.
type CreateEmployeeRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Company  string  `json:"company"`
	JoinDate string  `json:"joinDate"`
	Salary   *Amount `json:"salary"`
}

// Input converts the payload for the service.
func (r CreateEmployeeRequest) Input() service.EmployeeCreateInput {
	return service.EmployeeCreateInput{
		Name:     r.Name,
		Email:    r.Email,
		Role:     r.Role,
		Company:  r.Company,
		JoinDate: r.JoinDate,
		Salary:   r.Salary.float(),
	}
}

// UpdateEmployeeRequest payload. Absent or null optional fields are kept.
type UpdateEmployeeRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Company  *string `json:"company"`
	JoinDate *string `json:"joinDate"`
	Salary   *Amount `json:"salary"`
}

// Input converts the payload for the service. An empty joinDate counts as
// absent.
func (r UpdateEmployeeRequest) Input() service.EmployeeUpdateInput {
	joinDate := r.JoinDate
	if joinDate != nil && strings.TrimSpace(*joinDate) == "" {
		joinDate = nil
	}
	return service.EmployeeUpdateInput{
		Name:     r.Name,
		Email:    r.Email,
		Role:     r.Role,
		Company:  r.Company,
		JoinDate: joinDate,
		Salary:   r.Salary.float(),
	}
}

// EmployeeResponse is the wire form of an employee.
type EmployeeResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	JoinDate  string    `json:"joinDate"`
	Salary    float64   `json:"salary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewEmployeeResponse maps a domain employee.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Role:      e.Role,
		Company:   e.Company,
		JoinDate:  e.JoinDateString(),
		Salary:    e.Salary,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// NewEmployeeResponses maps a slice, never returning nil.
func NewEmployeeResponses(employees []domain.Employee) []EmployeeResponse {
	items := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, NewEmployeeResponse(&employees[i]))
	}
	return items
}

// PageMeta describes the position of a page in the result set.
type PageMeta struct {
	Page           int     `json:"page"`
	Limit          int     `json:"limit"`
	TotalEmployees int     `json:"totalEmployees"`
	TotalPages     int     `json:"totalPages"`
	HasNextPage    bool    `json:"hasNextPage"`
	HasPrevPage    bool    `json:"hasPrevPage"`
	NextPage       *string `json:"nextPage"`
	PrevPage       *string `json:"prevPage"`
}

// EmployeeListResponse is the body of GET /employees.
type EmployeeListResponse struct {
	Success bool               `json:"success"`
	Meta    PageMeta           `json:"meta"`
	Data    []EmployeeResponse `json:"data"`
}

// NewEmployeeListResponse builds the list body. Page links point at
// baseURL/employees and repeat the non-empty filters of query.
func NewEmployeeListResponse(page *service.EmployeePage, query service.EmployeeListQuery, baseURL string) EmployeeListResponse {
	meta := PageMeta{
		Page:           page.Page,
		Limit:          page.Limit,
		TotalEmployees: page.Total,
		TotalPages:     page.TotalPages,
		HasNextPage:    page.HasNext,
		HasPrevPage:    page.HasPrev,
	}
	if page.HasNext {
		link := pageLink(baseURL, page.Page+1, query)
		meta.NextPage = &link
	}
	if page.HasPrev {
		link := pageLink(baseURL, page.Page-1, query)
		meta.PrevPage = &link
	}
	return EmployeeListResponse{
		Success: true,
		Meta:    meta,
		Data:    NewEmployeeResponses(page.Employees),
	}
}

func pageLink(baseURL string, page int, query service.EmployeeListQuery) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	b.WriteString("/employees?page=")
	b.WriteString(strconv.Itoa(page))
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(query.Limit))
	for _, f := range [...]struct{ key, value string }{
		{"name", query.Name},
		{"role", query.Role},
		{"company", query.Company},
	} {
		if f.value == "" {
			continue
		}
		b.WriteString("&" + f.key + "=")
		b.WriteString(url.QueryEscape(f.value))
	}
	return b.String()
}
