package employees

import (
	"context"

	"github.com/isdelr/employee-records/internal/models"
)

// Repository is implemented by every employee store backend. Get, Update and
// Delete return common.ErrNotFound for an unknown ID.
type Repository interface {
	List(ctx context.Context) ([]models.Employee, error)
	Get(ctx context.Context, id string) (models.Employee, error)
	Create(ctx context.Context, employee models.Employee) (models.Employee, error)
	Update(ctx context.Context, id string, employee models.Employee) (models.Employee, error)
	Delete(ctx context.Context, id string) error
}
