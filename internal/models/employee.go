package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/isdelr/employee-records/internal/common"
)

// DateLayout is the wire and form format of an employee's start date.
const DateLayout = "2006-01-02"

// Departments an employee may belong to.
const (
	DepartmentAnalytics   = "Analytics"
	DepartmentEngineering = "Engineering"
	DepartmentMarketing   = "Marketing"
)

// Departments lists the accepted department names in display order.
var Departments = []string{DepartmentAnalytics, DepartmentEngineering, DepartmentMarketing}

// Employee represents a single employee record.
type Employee struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Department string    `json:"department"`
	StartDate  time.Time `json:"startDate"`
	JobTitle   string    `json:"jobTitle"`
	Salary     float64   `json:"salary"`
}

// FormattedStartDate returns the start date as YYYY-MM-DD for date inputs.
func (e Employee) FormattedStartDate() string {
	if e.StartDate.IsZero() {
		return ""
	}
	return e.StartDate.Format(DateLayout)
}

// Validate checks that every field is present and the department is known.
// Returned errors wrap common.ErrValidation.
func (e *Employee) Validate() error {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.Department = strings.TrimSpace(e.Department)
	e.JobTitle = strings.TrimSpace(e.JobTitle)

	switch {
	case e.FirstName == "":
		return fmt.Errorf("%w: first name is required", common.ErrValidation)
	case e.LastName == "":
		return fmt.Errorf("%w: last name is required", common.ErrValidation)
	case e.Department == "":
		return fmt.Errorf("%w: department is required", common.ErrValidation)
	case !IsDepartment(e.Department):
		return fmt.Errorf("%w: unknown department %q", common.ErrValidation, e.Department)
	case e.StartDate.IsZero():
		return fmt.Errorf("%w: start date is required", common.ErrValidation)
	case e.JobTitle == "":
		return fmt.Errorf("%w: job title is required", common.ErrValidation)
	case math.IsNaN(e.Salary) || math.IsInf(e.Salary, 0):
		return fmt.Errorf("%w: salary must be a number", common.ErrValidation)
	case e.Salary < 0:
		return fmt.Errorf("%w: salary must not be negative", common.ErrValidation)
	}
	return nil
}

// IsDepartment reports whether name is one of Departments.
func IsDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}
