package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type UseCase interface {
	// SyncProducts drains the remote product collection and upserts it.
	// mode is model.ModeImport or model.ModeResync.
	SyncProducts(ctx context.Context, mode string) (*model.SyncReport, error)
}
