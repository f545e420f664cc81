package inventory

import (
	"context"
)

type UseCase interface {
	// RecordRemoteStock logs a movement when a sync changed a product's stock.
	// Equal quantities are a no-op.
	RecordRemoteStock(ctx context.Context, productID string, remoteID int64, before, after int) error
}
