package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/employee-records/internal/common"
	"github.com/isdelr/employee-records/internal/models"
)

// SQLiteRepository stores employees in the employees table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLiteRepository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectEmployee = `
	SELECT id, first_name, last_name, department, start_date, job_title, salary
	FROM employees`

// scanEmployee is a helper to scan an employee from a row or rows object.
func scanEmployee(scanner interface{ Scan(...interface{}) error }) (models.Employee, error) {
	var e models.Employee
	var startDate string
	err := scanner.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Department, &startDate, &e.JobTitle, &e.Salary)
	if err != nil {
		return e, err
	}
	if e.StartDate, err = time.Parse(models.DateLayout, startDate); err != nil {
		return e, fmt.Errorf("invalid start date %q for employee %s: %w", startDate, e.ID, err)
	}
	return e, nil
}

// List returns every employee in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Employee, error) {
	rows, err := r.db.QueryContext(ctx, selectEmployee+" ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return employees, nil
}

// Get returns the employee with id or common.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (models.Employee, error) {
	e, err := scanEmployee(r.db.QueryRowContext(ctx, selectEmployee+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Employee{}, common.ErrNotFound
		}
		return models.Employee{}, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// Create inserts e with a fresh ID and returns the stored record.
func (r *SQLiteRepository) Create(ctx context.Context, e models.Employee) (models.Employee, error) {
	e.ID = uuid.New().String()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (id, first_name, last_name, department, start_date, job_title, salary)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.FirstName, e.LastName, e.Department, e.StartDate.Format(models.DateLayout), e.JobTitle, e.Salary,
	)
	if err != nil {
		return models.Employee{}, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// Update replaces the fields of employee id. Unknown ids yield common.ErrNotFound.
func (r *SQLiteRepository) Update(ctx context.Context, id string, e models.Employee) (models.Employee, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET first_name = ?, last_name = ?, department = ?, start_date = ?, job_title = ?, salary = ?
		WHERE id = ?`,
		e.FirstName, e.LastName, e.Department, e.StartDate.Format(models.DateLayout), e.JobTitle, e.Salary, id,
	)
	if err != nil {
		return models.Employee{}, fmt.Errorf("db error: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return models.Employee{}, err
	}
	e.ID = id
	return e, nil
}

// Delete removes employee id. Unknown ids yield common.ErrNotFound.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
