package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/employee-records/internal/common"
	"github.com/isdelr/employee-records/internal/models"
	"github.com/isdelr/employee-records/internal/services"
	"github.com/isdelr/employee-records/internal/views"
	"github.com/rs/zerolog/log"
)

// EmployeeHandler handles HTTP requests related to employee records.
type EmployeeHandler struct {
	service  services.EmployeeServiceProvider
	renderer views.Renderer
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(service services.EmployeeServiceProvider, renderer views.Renderer) *EmployeeHandler {
	return &EmployeeHandler{service: service, renderer: renderer}
}

// GetAll renders the employee table.
func (h *EmployeeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.GetAllEmployees(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve employees")
		http.Error(w, "Error retrieving employees.", http.StatusInternalServerError)
		return
	}

	p := page(r, "Employees")
	p.Employees = employees
	render(w, h.renderer, "view", p)
}

// CreateForm renders the new-employee form.
func (h *EmployeeHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	render(w, h.renderer, "create", page(r, "New Employee"))
}

// Create handles the request to create a new employee.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	employee, err := parseEmployee(w, r)
	if err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateEmployee(r.Context(), employee)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			http.Error(w, validationMessage(err), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("Failed to create employee")
		http.Error(w, "Error creating new employee.", http.StatusInternalServerError)
		return
	}

	log.Info().Str("employee_id", created.ID).Msg("Employee created")
	http.Redirect(w, r, "/", http.StatusFound)
}

// EditForm renders the update form for a single employee.
func (h *EmployeeHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	employee, err := h.service.GetEmployeeByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			log.Warn().Str("employee_id", id).Msg("Employee not found for update")
			http.Error(w, "Employee not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("employee_id", id).Msg("Failed to get employee by ID")
		http.Error(w, "Error fetching employee for update", http.StatusInternalServerError)
		return
	}

	p := page(r, "Update Employee")
	p.Employee = &employee
	render(w, h.renderer, "update", p)
}

// Update handles the request to update an existing employee.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	employee, err := parseEmployee(w, r)
	if err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	if _, err := h.service.UpdateEmployee(r.Context(), id, employee); err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			http.Error(w, validationMessage(err), http.StatusBadRequest)
		case errors.Is(err, common.ErrNotFound):
			http.Error(w, "Employee not found", http.StatusNotFound)
		default:
			log.Error().Err(err).Str("employee_id", id).Msg("Failed to update employee")
			http.Error(w, "Error updating employee.", http.StatusInternalServerError)
		}
		return
	}

	log.Info().Str("employee_id", id).Msg("Employee updated")
	http.Redirect(w, r, "/", http.StatusFound)
}

// Delete handles the request to delete an employee.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			http.Error(w, "Employee not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("employee_id", id).Msg("Failed to delete employee")
		http.Error(w, "Error deleting employee.", http.StatusInternalServerError)
		return
	}

	log.Info().Str("employee_id", id).Msg("Employee deleted")
	render(w, h.renderer, "deleted", page(r, "Employee Deleted"))
}

// parseEmployee reads an employee from a form or JSON body. Malformed dates
// and salaries are reported as validation errors.
func parseEmployee(w http.ResponseWriter, r *http.Request) (models.Employee, error) {
	var firstName, lastName, department, startDate, jobTitle, salary string
	err := decodePayload(w, r, map[string]*string{
		"firstName":  &firstName,
		"lastName":   &lastName,
		"department": &department,
		"startDate":  &startDate,
		"jobTitle":   &jobTitle,
		"salary":     &salary,
	})
	if err != nil {
		return models.Employee{}, fmt.Errorf("%w: invalid request body", common.ErrValidation)
	}

	employee := models.Employee{
		FirstName:  firstName,
		LastName:   lastName,
		Department: department,
		JobTitle:   jobTitle,
	}

	if s := strings.TrimSpace(startDate); s != "" {
		employee.StartDate, err = time.Parse(models.DateLayout, s)
		if err != nil {
			return models.Employee{}, fmt.Errorf("%w: start date must be YYYY-MM-DD", common.ErrValidation)
		}
	}
	if s := strings.TrimSpace(salary); s != "" {
		employee.Salary, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Employee{}, fmt.Errorf("%w: salary must be a number", common.ErrValidation)
		}
	}
	return employee, nil
}
