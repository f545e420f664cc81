package product

import "github.com/fekuna/omnipos-catalog-sync/internal/model"

// RelationDiff is the minimal change set between stored and desired
// product/category relations.
type RelationDiff struct {
	Delete []string                // category ids to unlink
	Upsert []model.ProductCategory // new rows or rows whose primary flag changed
}

func (d RelationDiff) Empty() bool {
	return len(d.Delete) == 0 && len(d.Upsert) == 0
}

// DiffRelations compares the two sets by category id. Upserts are ordered
// with non-primary rows first so a demoted primary is cleared before the new
// one is set.
func DiffRelations(existing, desired []model.ProductCategory) RelationDiff {
	have := make(map[string]bool, len(existing))
	for _, rel := range existing {
		have[rel.CategoryID] = rel.IsPrimary
	}
	want := make(map[string]bool, len(desired))
	for _, rel := range desired {
		want[rel.CategoryID] = rel.IsPrimary
	}

	var diff RelationDiff
	for _, rel := range existing {
		if _, ok := want[rel.CategoryID]; !ok {
			diff.Delete = append(diff.Delete, rel.CategoryID)
		}
	}

	var primary []model.ProductCategory
	for _, rel := range desired {
		isPrimary, ok := have[rel.CategoryID]
		if ok && isPrimary == rel.IsPrimary {
			continue
		}
		if rel.IsPrimary {
			primary = append(primary, rel)
			continue
		}
		diff.Upsert = append(diff.Upsert, rel)
	}
	diff.Upsert = append(diff.Upsert, primary...)

	return diff
}
