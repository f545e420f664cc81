package order

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

// SentinelZoneName hosts imported orders that carry no mapped delivery zone.
const SentinelZoneName = "Imported Orders"

type UseCase interface {
	SyncOrders(ctx context.Context) (*model.SyncReport, error)
}
