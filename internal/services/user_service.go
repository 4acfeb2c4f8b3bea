package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/employee-records/internal/auth"
	"github.com/isdelr/employee-records/internal/common"
	"github.com/isdelr/employee-records/internal/models"
	"github.com/isdelr/employee-records/internal/repositories/users"
)

// bcrypt ignores everything past 72 bytes and newer versions reject it.
const maxPasswordBytes = 72

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// UserService provides registration and credential checks over the credential store.
type UserService struct {
	repo users.Repository
}

// NewUserService creates a new UserService.
func NewUserService(repo users.Repository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user, hashing their password. The email check runs
// before the insert without a transaction; a concurrent registration that
// slips through is caught by the store's unique constraint and reported the
// same way.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: username, email and password are required", common.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return models.User{}, fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, maxPasswordBytes)
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return models.User{}, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrNotFound):
		return models.User{}, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.repo.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. It returns auth.ErrUserNotFound
// or auth.ErrInvalidCredential when they do not match.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.User{}, auth.ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, auth.ErrInvalidCredential
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UserExists returns common.ErrNotFound when no user has id. It satisfies
// auth.UserLookup.
func (s *UserService) UserExists(ctx context.Context, id string) error {
	_, err := s.repo.FindByID(ctx, id)
	return err
}
