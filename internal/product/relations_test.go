package product

import (
	"testing"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/stretchr/testify/assert"
)

func rel(cat string, primary bool) model.ProductCategory {
	return model.ProductCategory{ProductID: "p", CategoryID: cat, IsPrimary: primary}
}

func TestDiffRelations(t *testing.T) {
	tests := []struct {
		name       string
		existing   []model.ProductCategory
		desired    []model.ProductCategory
		wantDelete []string
		wantUpsert []model.ProductCategory
	}{
		{
			name:       "fresh product",
			desired:    []model.ProductCategory{rel("x", true), rel("y", false)},
			wantUpsert: []model.ProductCategory{rel("y", false), rel("x", true)},
		},
		{
			name:     "unchanged",
			existing: []model.ProductCategory{rel("x", true), rel("y", false)},
			desired:  []model.ProductCategory{rel("x", true), rel("y", false)},
		},
		{
			name:       "removed category",
			existing:   []model.ProductCategory{rel("x", true), rel("y", false)},
			desired:    []model.ProductCategory{rel("x", true)},
			wantDelete: []string{"y"},
		},
		{
			name:       "primary moves",
			existing:   []model.ProductCategory{rel("x", true), rel("y", false)},
			desired:    []model.ProductCategory{rel("y", true), rel("x", false)},
			wantUpsert: []model.ProductCategory{rel("x", false), rel("y", true)},
		},
		{
			name:       "all removed",
			existing:   []model.ProductCategory{rel("x", true)},
			wantDelete: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := DiffRelations(tt.existing, tt.desired)
			assert.Equal(t, tt.wantDelete, diff.Delete)
			assert.Equal(t, tt.wantUpsert, diff.Upsert)
			assert.Equal(t, len(tt.wantDelete) == 0 && len(tt.wantUpsert) == 0, diff.Empty())
		})
	}
}
