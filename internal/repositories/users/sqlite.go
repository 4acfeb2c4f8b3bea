package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/employee-records/internal/common"
	"github.com/isdelr/employee-records/internal/database"
	"github.com/isdelr/employee-records/internal/models"
)

// SQLiteRepository stores users in the users table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLiteRepository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectUser = "SELECT id, username, email, password_hash, created_at FROM users"

// FindByUsername returns the user with username or common.ErrNotFound.
func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, selectUser+" WHERE username = ?", username)
}

// FindByEmail returns the user with email or common.ErrNotFound.
func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, selectUser+" WHERE email = ?", email)
}

// FindByID returns the user with id or common.ErrNotFound.
func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, selectUser+" WHERE id = ?", id)
}

func (r *SQLiteRepository) findOne(ctx context.Context, query string, arg string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, common.ErrNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Create inserts user with a fresh ID. A taken username or email yields
// common.ErrDuplicateUsername or common.ErrDuplicateEmail.
func (r *SQLiteRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if column, ok := database.IsUniqueViolation(err); ok {
			return models.User{}, duplicateError(column)
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func duplicateError(field string) error {
	if strings.Contains(field, "username") {
		return common.ErrDuplicateUsername
	}
	return common.ErrDuplicateEmail
}
