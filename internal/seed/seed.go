package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/repository"
)

// Employees is the sample data set loaded by cmd/seed.
var Employees = []domain.Employee{
	{Name: "Amit Sharma", Email: "amit.sharma@gmail.com", Role: "Software Engineer", Company: "TCS", JoinDate: date(2022, time.March, 15), Salary: 80000},
	{Name: "Priya Reddy", Email: "priya.reddy@wipro.com", Role: "Frontend Developer", Company: "Wipro", JoinDate: date(2021, time.July, 10), Salary: 75000},
	{Name: "Ravi Kumar", Email: "ravi.kumar@infosys.com", Role: "Backend Developer", Company: "Infosys", JoinDate: date(2020, time.May, 22), Salary: 72000},
	{Name: "Sneha Patel", Email: "sneha.patel@accenture.com", Role: "DevOps", Company: "Accenture", JoinDate: date(2021, time.September, 5), Salary: 78000},
	{Name: "Nikhil Joshi", Email: "nikhil.joshi@cognizant.com", Role: "UI/UX Designer", Company: "Cognizant", JoinDate: date(2022, time.January, 12), Salary: 70000},
	{Name: "Anjali Verma", Email: "anjali.verma@hcl.com", Role: "Business Analyst", Company: "HCL", JoinDate: date(2023, time.June, 18), Salary: 65000},
	{Name: "Rajesh Singh", Email: "rajesh.singh@techmahindra.com", Role: "Project Manager", Company: "Tech Mahindra", JoinDate: date(2019, time.November, 25), Salary: 90000},
	{Name: "Madhuri Deshmukh", Email: "madhuri.deshmukh@tcs.com", Role: "HR Manager", Company: "TCS", JoinDate: date(2020, time.February, 10), Salary: 85000},
	{Name: "Vikram Soni", Email: "vikram.soni@wipro.com", Role: "Product Manager", Company: "Wipro", JoinDate: date(2021, time.December, 3), Salary: 95000},
	{Name: "Simran Kaur", Email: "simran.kaur@infosys.com", Role: "Frontend Developer", Company: "Infosys", JoinDate: date(2022, time.August, 19), Salary: 77000},
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Load inserts every sample employee and returns how many were written.
func Load(ctx context.Context, repo repository.EmployeeRepository) (int, error) {
	for i := range Employees {
		employee := Employees[i]
		if err := repo.Create(ctx, &employee); err != nil {
			return i, fmt.Errorf("seed %s: %w", employee.Email, err)
		}
	}
	return len(Employees), nil
}
