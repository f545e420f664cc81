package order

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type Repository interface {
	ExistsByNumber(ctx context.Context, orderNumber string) (bool, error)
	// CreateWithItems inserts the order and its items atomically.
	CreateWithItems(ctx context.Context, order *model.Order) error

	FindZoneByName(ctx context.Context, name string) (*model.DeliveryZone, error)
	CreateZone(ctx context.Context, zone *model.DeliveryZone) error

	// ListProductRefs returns every local product, oldest first.
	ListProductRefs(ctx context.Context) ([]model.ProductRef, error)
}
