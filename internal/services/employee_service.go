package services

import (
	"context"

	"github.com/isdelr/employee-records/internal/models"
	"github.com/isdelr/employee-records/internal/repositories/employees"
)

// EmployeeServiceProvider defines the interface for employee services.
type EmployeeServiceProvider interface {
	GetAllEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployeeByID(ctx context.Context, id string) (models.Employee, error)
	CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	UpdateEmployee(ctx context.Context, id string, employee models.Employee) (models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// EmployeeService provides business logic for employee records.
type EmployeeService struct {
	repo employees.Repository
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(repo employees.Repository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

// GetAllEmployees retrieves every employee record.
func (s *EmployeeService) GetAllEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.repo.List(ctx)
}

// GetEmployeeByID retrieves a single employee by their ID.
func (s *EmployeeService) GetEmployeeByID(ctx context.Context, id string) (models.Employee, error) {
	return s.repo.Get(ctx, id)
}

// CreateEmployee validates and stores a new employee.
func (s *EmployeeService) CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	if err := employee.Validate(); err != nil {
		return models.Employee{}, err
	}
	return s.repo.Create(ctx, employee)
}

// UpdateEmployee validates and replaces an existing employee's fields.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, employee models.Employee) (models.Employee, error) {
	if err := employee.Validate(); err != nil {
		return models.Employee{}, err
	}
	return s.repo.Update(ctx, id, employee)
}

// DeleteEmployee removes an employee record.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
