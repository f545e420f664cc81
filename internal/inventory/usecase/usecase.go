package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/inventory"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const referenceTypeRemoteProduct = "remote_product"

type inventoryUseCase struct {
	repo   inventory.Repository
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *inventoryUseCase) RecordRemoteStock(ctx context.Context, productID string, remoteID int64, before, after int) error {
	if before == after {
		return nil
	}

	refType := referenceTypeRemoteProduct
	refID := strconv.FormatInt(remoteID, 10)
	movement := &model.InventoryMovement{
		ID:             uuid.New().String(),
		ProductID:      productID,
		MovementType:   model.MovementTypeRemoteSync,
		QuantityChange: float64(after - before),
		QuantityBefore: float64(before),
		QuantityAfter:  float64(after),
		ReferenceType:  &refType,
		ReferenceID:    &refID,
		Notes:          "Stock level taken from remote store",
		CreatedAt:      time.Now(),
	}

	if err := uc.repo.LogMovement(ctx, movement); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}

	uc.logger.Debug("stock movement recorded",
		zap.String("product_id", productID),
		zap.Int("before", before),
		zap.Int("after", after),
	)
	return nil
}
