// Package users is the credential store: it persists accounts and enforces
// that usernames and emails are unique.
package users

import (
	"context"

	"github.com/isdelr/employee-records/internal/models"
)

// Repository is implemented by every user store backend.
//
// Lookups return common.ErrNotFound when no user matches. Create assigns the
// ID and CreatedAt and returns common.ErrDuplicateEmail or
// common.ErrDuplicateUsername when a uniqueness constraint fires.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
}
