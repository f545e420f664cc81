package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/category"
	"github.com/fekuna/omnipos-catalog-sync/internal/inventory"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/product"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile"
	"github.com/fekuna/omnipos-catalog-sync/internal/woocommerce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnknownMode = errors.New("unknown product sync mode")

type outcome int

const (
	outcomeCreated outcome = iota
	outcomeUpdated
	outcomeSkipped
)

type Options struct {
	PageSize    int
	StorageType string
}

type productUseCase struct {
	repo       product.Repository
	categories category.Repository
	inventory  inventory.UseCase
	indexer    product.Indexer
	fetcher    woocommerce.Fetcher
	opts       Options
	logger     logger.ZapLogger
}

// NewProductUseCase wires the product synchronizer. indexer may be nil when
// search is disabled.
func NewProductUseCase(
	repo product.Repository,
	categories category.Repository,
	inv inventory.UseCase,
	indexer product.Indexer,
	fetcher woocommerce.Fetcher,
	opts Options,
	log logger.ZapLogger,
) product.UseCase {
	if opts.StorageType == "" {
		opts.StorageType = "CHILLED"
	}
	return &productUseCase{
		repo:       repo,
		categories: categories,
		inventory:  inv,
		indexer:    indexer,
		fetcher:    fetcher,
		opts:       opts,
		logger:     log,
	}
}

func (uc *productUseCase) SyncProducts(ctx context.Context, mode string) (*model.SyncReport, error) {
	if mode != model.ModeImport && mode != model.ModeResync {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	raws, err := uc.fetcher.FetchAll(ctx, woocommerce.ResourceProducts, uc.opts.PageSize)
	if err != nil {
		return nil, err
	}

	catIndex, err := uc.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	report := model.NewSyncReport(model.ResourceProducts, mode)
	report.Total = len(raws)

	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("product sync interrupted at record %d of %d: %w", i, len(raws), err)
		}

		var (
			res        outcome
			unresolved int
		)
		err := reconcile.Isolate(func() error {
			var err error
			res, unresolved, err = uc.syncOne(ctx, raw, mode, catIndex)
			return err
		})
		if err != nil {
			// Resync reports errors on their own; import folds them into skipped.
			report.RecordError(mode == model.ModeImport)
			uc.logger.Warn("skipping remote product", zap.Int("index", i), zap.String("mode", mode), zap.Error(err))
			continue
		}

		switch res {
		case outcomeCreated:
			report.RecordImported()
		case outcomeUpdated:
			report.RecordUpdated()
		case outcomeSkipped:
			report.RecordSkipped()
		}
		report.RecordUnresolved(unresolved)
	}

	report.Finish()
	uc.logger.Info("product sync finished",
		zap.String("mode", mode),
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", report.Errors),
	)
	return &report, nil
}

func (uc *productUseCase) syncOne(ctx context.Context, raw []byte, mode string, catIndex map[int64]string) (outcome, int, error) {
	rp, err := woocommerce.Decode[woocommerce.RemoteProduct](raw)
	if err != nil {
		return 0, 0, err
	}

	if mode == model.ModeImport && rp.Status != statusPublish {
		uc.logger.Debug("skipping unpublished product", zap.Int64("remote_id", rp.ID), zap.String("status", rp.Status))
		return outcomeSkipped, 0, nil
	}

	p, err := uc.resolve(ctx, rp)
	if err != nil {
		return 0, 0, err
	}

	now := time.Now()
	res := outcomeUpdated
	stockBefore := 0

	if p == nil {
		res = outcomeCreated
		p = &model.Product{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now},
		}
		applyImport(p, rp, uc.opts.StorageType, now)
		if err := uc.repo.Create(ctx, p); err != nil {
			return 0, 0, fmt.Errorf("create product %d: %w", rp.ID, err)
		}
	} else {
		if !p.IsLinked() {
			uc.logger.Info("linking local product by name",
				zap.String("product_id", p.ID),
				zap.Int64("remote_id", rp.ID),
			)
		}
		stockBefore = p.StockQuantity
		if mode == model.ModeImport {
			applyImport(p, rp, uc.opts.StorageType, now)
		} else {
			applyResync(p, rp, now)
		}
		if err := uc.repo.Update(ctx, p); err != nil {
			return 0, 0, fmt.Errorf("update product %d: %w", rp.ID, err)
		}
	}

	if err := uc.inventory.RecordRemoteStock(ctx, p.ID, rp.ID, stockBefore, p.StockQuantity); err != nil {
		uc.logger.Warn("failed to record stock movement", zap.String("product_id", p.ID), zap.Error(err))
	}

	unresolved, err := uc.reconcileCategories(ctx, p.ID, rp.Categories, catIndex)
	if err != nil {
		return 0, 0, err
	}

	uc.syncToElastic(ctx, p)

	return res, unresolved, nil
}

// resolve finds the local twin of a remote product: by remote id first, then
// by name among products that were never linked.
func (uc *productUseCase) resolve(ctx context.Context, rp *woocommerce.RemoteProduct) (*model.Product, error) {
	p, err := uc.repo.FindByRemoteID(ctx, rp.ID)
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", rp.ID, err)
	}
	if p != nil {
		return p, nil
	}

	p, err = uc.repo.FindUnlinkedByName(ctx, rp.Name)
	if err != nil {
		return nil, fmt.Errorf("find product by name %q: %w", rp.Name, err)
	}
	return p, nil
}

// reconcileCategories maps remote categories to local ones and makes the
// stored relations match. The first resolvable category is primary. It
// returns how many remote categories had no local counterpart.
func (uc *productUseCase) reconcileCategories(ctx context.Context, productID string, refs []woocommerce.CategoryRef, catIndex map[int64]string) (int, error) {
	desired := make([]model.ProductCategory, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	unresolved := 0

	for _, ref := range refs {
		localID, ok := catIndex[ref.ID]
		if !ok {
			unresolved++
			continue
		}
		if _, dup := seen[localID]; dup {
			continue
		}
		seen[localID] = struct{}{}
		desired = append(desired, model.ProductCategory{
			ProductID:  productID,
			CategoryID: localID,
			IsPrimary:  len(desired) == 0,
		})
	}

	diff, err := uc.repo.ReconcileCategories(ctx, productID, desired)
	if err != nil {
		return 0, fmt.Errorf("reconcile categories of %s: %w", productID, err)
	}
	if !diff.Empty() {
		uc.logger.Debug("product categories reconciled",
			zap.String("product_id", productID),
			zap.Int("unlinked", len(diff.Delete)),
			zap.Int("linked", len(diff.Upsert)),
		)
	}
	return unresolved, nil
}

func (uc *productUseCase) categoryIndex(ctx context.Context) (map[int64]string, error) {
	linked, err := uc.categories.ListLinked(ctx)
	if err != nil {
		return nil, fmt.Errorf("list linked categories: %w", err)
	}
	index := make(map[int64]string, len(linked))
	for i := range linked {
		if linked[i].IsLinked() {
			index[*linked[i].RemoteID] = linked[i].ID
		}
	}
	return index, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.indexer == nil {
		return
	}
	if err := uc.indexer.IndexProduct(ctx, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}
