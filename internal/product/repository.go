package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByRemoteID(ctx context.Context, remoteID int64) (*model.Product, error)
	// FindUnlinkedByName matches case-insensitively among products that have
	// no remote id yet. Oldest wins when several share a name.
	FindUnlinkedByName(ctx context.Context, name string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error

	// ReconcileCategories makes the stored relation set equal to desired in a
	// single transaction, touching only the rows that differ.
	ReconcileCategories(ctx context.Context, productID string, desired []model.ProductCategory) (RelationDiff, error)
}

// Indexer pushes synced products to the search backend.
type Indexer interface {
	IndexProduct(ctx context.Context, p *model.Product) error
}
