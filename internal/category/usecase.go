package category

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type UseCase interface {
	// SyncCategories pulls the remote taxonomy and reconciles it in two passes.
	SyncCategories(ctx context.Context) (*model.SyncReport, error)
}
