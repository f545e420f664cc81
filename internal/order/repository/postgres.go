package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ExistsByNumber(ctx context.Context, orderNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`
	if err := r.DB.GetContext(ctx, &exists, query, orderNumber); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGRepository) CreateWithItems(ctx context.Context, o *model.Order) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orderQuery := `
        INSERT INTO orders (
            id, order_number, user_id, status, subtotal, delivery_fee, total,
            delivery_address, delivery_zone_id, notes, created_at, updated_at
        )
        VALUES (
            :id, :order_number, :user_id, :status, :subtotal, :delivery_fee, :total,
            :delivery_address, :delivery_zone_id, :notes, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, orderQuery, o); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
        VALUES (:id, :order_id, :product_id, :quantity, :unit_price)
    `
	for i := range o.Items {
		if _, err := tx.NamedExecContext(ctx, itemQuery, &o.Items[i]); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindZoneByName(ctx context.Context, name string) (*model.DeliveryZone, error) {
	var zone model.DeliveryZone
	err := r.DB.GetContext(ctx, &zone, `SELECT * FROM delivery_zones WHERE name = $1 LIMIT 1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

// CreateZone is a no-op when a zone with the same name already exists.
func (r *PGRepository) CreateZone(ctx context.Context, z *model.DeliveryZone) error {
	query := `
        INSERT INTO delivery_zones (id, name, areas, delivery_fee, is_active, created_at, updated_at)
        VALUES (:id, :name, :areas, :delivery_fee, :is_active, :created_at, :updated_at)
        ON CONFLICT (name) DO NOTHING
    `
	_, err := r.DB.NamedExecContext(ctx, query, z)
	return err
}

func (r *PGRepository) ListProductRefs(ctx context.Context) ([]model.ProductRef, error) {
	var refs []model.ProductRef
	if err := r.DB.SelectContext(ctx, &refs, `SELECT id, name FROM products ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, err
	}
	return refs, nil
}
