package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/customer"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/order"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile"
	"github.com/fekuna/omnipos-catalog-sync/internal/woocommerce"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo      order.Repository
	customers customer.UseCase
	fetcher   woocommerce.Fetcher
	pageSize  int
	logger    logger.ZapLogger
}

func NewOrderUseCase(repo order.Repository, customers customer.UseCase, fetcher woocommerce.Fetcher, pageSize int, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		customers: customers,
		fetcher:   fetcher,
		pageSize:  pageSize,
		logger:    log,
	}
}

// SyncOrders inserts remote orders that are not yet known locally. Existing
// orders are never updated.
func (uc *orderUseCase) SyncOrders(ctx context.Context) (*model.SyncReport, error) {
	zone, err := uc.ensureSentinelZone(ctx)
	if err != nil {
		return nil, err
	}

	raws, err := uc.fetcher.FetchAll(ctx, woocommerce.ResourceOrders, uc.pageSize)
	if err != nil {
		return nil, err
	}

	refs, err := uc.repo.ListProductRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load product names: %w", err)
	}
	matcher := newProductMatcher(refs)

	report := model.NewSyncReport(model.ResourceOrders, "")
	report.Total = len(raws)

	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("order sync interrupted at record %d of %d: %w", i, len(raws), err)
		}

		var (
			imported bool
			dropped  int
		)
		err := reconcile.Isolate(func() error {
			var err error
			imported, dropped, err = uc.syncOne(ctx, raw, zone.ID, matcher)
			return err
		})
		if err != nil {
			report.RecordError(true)
			uc.logger.Warn("skipping remote order", zap.Int("index", i), zap.Error(err))
			continue
		}

		if imported {
			report.RecordImported()
		} else {
			report.RecordSkipped()
		}
		report.RecordUnresolved(dropped)
	}

	report.Finish()
	uc.logger.Info("order sync finished",
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.Int("unmatched_items", report.Unresolved),
	)
	return &report, nil
}

func (uc *orderUseCase) syncOne(ctx context.Context, raw []byte, zoneID string, matcher *productMatcher) (bool, int, error) {
	ro, err := woocommerce.Decode[woocommerce.RemoteOrder](raw)
	if err != nil {
		return false, 0, err
	}

	exists, err := uc.repo.ExistsByNumber(ctx, ro.Number)
	if err != nil {
		return false, 0, fmt.Errorf("check order %s: %w", ro.Number, err)
	}
	if exists {
		return false, 0, nil
	}

	sums, err := computeTotals(ro.Total, ro.ShippingTotal)
	if err != nil {
		return false, 0, fmt.Errorf("order %s: %w", ro.Number, err)
	}

	user, _, err := uc.customers.Resolve(ctx, customer.Contact{
		Email:     ro.Billing.Email,
		FirstName: ro.Billing.FirstName,
		LastName:  ro.Billing.LastName,
		Phone:     ro.Billing.Phone,
		Address:   composeAddress(ro.Billing),
	})
	if err != nil {
		return false, 0, fmt.Errorf("order %s: %w", ro.Number, err)
	}

	now := time.Now().UTC()
	createdAt := parseRemoteTime(ro.DateCreatedGMT, now)
	updatedAt := parseRemoteTime(ro.DateModifiedGMT, createdAt)

	o := &model.Order{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
		OrderNumber:     ro.Number,
		UserID:          user.ID,
		Status:          MapStatus(ro.Status),
		Subtotal:        sums.Subtotal,
		DeliveryFee:     sums.DeliveryFee,
		Total:           sums.Total,
		DeliveryAddress: deliveryAddress(ro),
		DeliveryZoneID:  &zoneID,
		Notes:           optional(ro.CustomerNote),
	}

	dropped := 0
	for _, li := range ro.LineItems {
		productID, ok := matcher.Match(li.Name)
		if !ok || li.Quantity <= 0 {
			dropped++
			uc.logger.Warn("dropping unmatched line item",
				zap.String("order_number", ro.Number),
				zap.String("item", li.Name),
			)
			continue
		}
		o.Items = append(o.Items, model.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: productID,
			Quantity:  li.Quantity,
			UnitPrice: unitPrice(li),
		})
	}

	if err := uc.repo.CreateWithItems(ctx, o); err != nil {
		return false, 0, fmt.Errorf("create order %s: %w", ro.Number, err)
	}
	return true, dropped, nil
}

func (uc *orderUseCase) ensureSentinelZone(ctx context.Context) (*model.DeliveryZone, error) {
	zone, err := uc.repo.FindZoneByName(ctx, order.SentinelZoneName)
	if err != nil {
		return nil, fmt.Errorf("find delivery zone: %w", err)
	}
	if zone != nil {
		return zone, nil
	}

	now := time.Now()
	err = uc.repo.CreateZone(ctx, &model.DeliveryZone{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:        order.SentinelZoneName,
		Areas:       pq.StringArray{},
		DeliveryFee: 0,
		IsActive:    false,
	})
	if err != nil {
		return nil, fmt.Errorf("create delivery zone: %w", err)
	}

	// Re-read so a concurrent creator's row wins.
	zone, err = uc.repo.FindZoneByName(ctx, order.SentinelZoneName)
	if err != nil {
		return nil, fmt.Errorf("find delivery zone: %w", err)
	}
	if zone == nil {
		return nil, fmt.Errorf("delivery zone %q missing after create", order.SentinelZoneName)
	}
	uc.logger.Info("sentinel delivery zone ready", zap.String("zone_id", zone.ID))
	return zone, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
