package category

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByRemoteID(ctx context.Context, remoteID int64) (*model.Category, error)
	// ListLinked returns every category that carries a remote id.
	ListLinked(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	UpdateParent(ctx context.Context, id string, parentID *string) error
}
