package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/category"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile"
	"github.com/fekuna/omnipos-catalog-sync/internal/woocommerce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo     category.Repository
	fetcher  woocommerce.Fetcher
	pageSize int
	logger   logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, fetcher woocommerce.Fetcher, pageSize int, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:     repo,
		fetcher:  fetcher,
		pageSize: pageSize,
		logger:   log,
	}
}

// SyncCategories runs pass 1 (flat upsert keyed by remote id) over the whole
// collection before pass 2 (parent links), so remote ordering does not matter.
func (uc *categoryUseCase) SyncCategories(ctx context.Context) (*model.SyncReport, error) {
	raws, err := uc.fetcher.FetchAll(ctx, woocommerce.ResourceCategories, uc.pageSize)
	if err != nil {
		return nil, err
	}

	report := model.NewSyncReport(model.ResourceCategories, "")
	report.Total = len(raws)

	// Pass 1
	remotes := make([]*woocommerce.RemoteCategory, 0, len(raws))
	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("category sync interrupted at record %d of %d: %w", i, len(raws), err)
		}

		var rc *woocommerce.RemoteCategory
		err := reconcile.Isolate(func() error {
			var err error
			rc, err = woocommerce.Decode[woocommerce.RemoteCategory](raw)
			if err != nil {
				return err
			}
			created, err := uc.upsertFlat(ctx, rc)
			if err != nil {
				return err
			}
			if created {
				report.RecordImported()
			} else {
				report.RecordUpdated()
			}
			return nil
		})
		if err != nil {
			report.RecordError(true)
			uc.logger.Warn("skipping remote category", zap.Int("index", i), zap.Error(err))
			continue
		}
		remotes = append(remotes, rc)
	}

	// Pass 2
	if err := uc.linkHierarchy(ctx, remotes, &report); err != nil {
		return nil, err
	}

	report.Finish()
	uc.logger.Info("category sync finished",
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", report.Errors),
		zap.Int("orphaned_parents", report.Unresolved),
	)
	return &report, nil
}

func (uc *categoryUseCase) upsertFlat(ctx context.Context, rc *woocommerce.RemoteCategory) (bool, error) {
	existing, err := uc.repo.FindByRemoteID(ctx, rc.ID)
	if err != nil {
		return false, fmt.Errorf("find category %d: %w", rc.ID, err)
	}

	now := time.Now()
	remoteID := rc.ID

	if existing != nil {
		existing.Name = rc.Name
		existing.Slug = rc.Slug
		existing.Description = optionalString(rc.Description)
		existing.ImageURL = imageURL(rc.Image)
		existing.UpdatedAt = now
		if err := uc.repo.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("update category %d: %w", rc.ID, err)
		}
		return false, nil
	}

	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RemoteID:    &remoteID,
		ParentID:    nil,
		Name:        rc.Name,
		Slug:        rc.Slug,
		Description: optionalString(rc.Description),
		ImageURL:    imageURL(rc.Image),
		SortOrder:   0,
		IsActive:    true,
	}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return false, fmt.Errorf("create category %d: %w", rc.ID, err)
	}
	return true, nil
}

// linkHierarchy resolves parents from the already upserted flat records and
// only writes links that changed. A parent that is not known locally leaves
// the child at the root and counts as unresolved. Failed link writes count as
// errors; the record itself was already written by pass 1.
func (uc *categoryUseCase) linkHierarchy(ctx context.Context, remotes []*woocommerce.RemoteCategory, report *model.SyncReport) error {
	linked, err := uc.repo.ListLinked(ctx)
	if err != nil {
		return fmt.Errorf("list linked categories: %w", err)
	}

	byRemote := make(map[int64]*model.Category, len(linked))
	for i := range linked {
		if !linked[i].IsLinked() {
			continue
		}
		byRemote[*linked[i].RemoteID] = &linked[i]
	}

	for _, rc := range remotes {
		child, ok := byRemote[rc.ID]
		if !ok {
			continue
		}

		var want *string
		if rc.Parent != 0 {
			parent, ok := byRemote[rc.Parent]
			switch {
			case !ok:
				report.RecordUnresolved(1)
				uc.logger.Warn("remote parent category not found locally",
					zap.Int64("remote_id", rc.ID),
					zap.Int64("remote_parent_id", rc.Parent),
				)
			case parent.ID == child.ID:
				uc.logger.Warn("remote category is its own parent", zap.Int64("remote_id", rc.ID))
			default:
				want = &parent.ID
			}
		}

		if samePtr(child.ParentID, want) {
			continue
		}
		if err := uc.repo.UpdateParent(ctx, child.ID, want); err != nil {
			report.RecordError(false)
			uc.logger.Warn("failed to link category parent", zap.Int64("remote_id", rc.ID), zap.Error(err))
			continue
		}
		child.ParentID = want
	}

	return nil
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func imageURL(img *woocommerce.Image) *string {
	if img == nil {
		return nil
	}
	return optionalString(img.Src)
}
