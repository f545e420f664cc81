package inventory

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type Repository interface {
	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.InventoryMovement) error
}
