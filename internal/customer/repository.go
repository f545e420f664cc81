package customer

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type Repository interface {
	// FindByEmail expects a lower-cased email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}
