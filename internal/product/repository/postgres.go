package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/product"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, remote_id, sku, name, description, short_description,
            price, original_price, image_url, category, storage_type, is_active, stock_quantity,
            calories, protein, carbs, fat, fiber, sugars, saturated_fat, salt,
            tags, is_featured, discount, weight, dimensions, created_at, updated_at
        )
        VALUES (
            :id, :remote_id, :sku, :name, :description, :short_description,
            :price, :original_price, :image_url, :category, :storage_type, :is_active, :stock_quantity,
            :calories, :protein, :carbs, :fat, :fiber, :sugars, :saturated_fat, :salt,
            :tags, :is_featured, :discount, :weight, :dimensions, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByRemoteID(ctx context.Context, remoteID int64) (*model.Product, error) {
	return r.findOne(ctx, `SELECT * FROM products WHERE remote_id = $1 LIMIT 1`, remoteID)
}

func (r *PGRepository) FindUnlinkedByName(ctx context.Context, name string) (*model.Product, error) {
	query := `
        SELECT * FROM products
        WHERE remote_id IS NULL AND LOWER(name) = LOWER($1)
        ORDER BY created_at ASC
        LIMIT 1
    `
	return r.findOne(ctx, query, name)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET remote_id = :remote_id,
            sku = :sku,
            name = :name,
            description = :description,
            short_description = :short_description,
            price = :price,
            original_price = :original_price,
            image_url = :image_url,
            category = :category,
            storage_type = :storage_type,
            is_active = :is_active,
            stock_quantity = :stock_quantity,
            calories = :calories,
            protein = :protein,
            carbs = :carbs,
            fat = :fat,
            fiber = :fiber,
            sugars = :sugars,
            saturated_fat = :saturated_fat,
            salt = :salt,
            tags = :tags,
            is_featured = :is_featured,
            discount = :discount,
            weight = :weight,
            dimensions = :dimensions,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) ReconcileCategories(ctx context.Context, productID string, desired []model.ProductCategory) (product.RelationDiff, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return product.RelationDiff{}, err
	}
	defer tx.Rollback()

	// Row locks serialize concurrent writers of the same product.
	var existing []model.ProductCategory
	err = tx.SelectContext(ctx, &existing,
		`SELECT product_id, category_id, is_primary FROM product_categories WHERE product_id = $1 FOR UPDATE`,
		productID)
	if err != nil {
		return product.RelationDiff{}, fmt.Errorf("failed to load relations: %w", err)
	}

	diff := product.DiffRelations(existing, desired)
	if diff.Empty() {
		return diff, nil
	}

	if len(diff.Delete) > 0 {
		query, args, err := sqlx.In(
			`DELETE FROM product_categories WHERE product_id = ? AND category_id IN (?)`,
			productID, diff.Delete)
		if err != nil {
			return product.RelationDiff{}, err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return product.RelationDiff{}, fmt.Errorf("failed to unlink categories: %w", err)
		}
	}

	upsertQuery := `
        INSERT INTO product_categories (product_id, category_id, is_primary)
        VALUES (:product_id, :category_id, :is_primary)
        ON CONFLICT (product_id, category_id)
        DO UPDATE SET is_primary = EXCLUDED.is_primary
    `
	for _, rel := range diff.Upsert {
		if _, err := tx.NamedExecContext(ctx, upsertQuery, rel); err != nil {
			return product.RelationDiff{}, fmt.Errorf("failed to link category %s: %w", rel.CategoryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return product.RelationDiff{}, err
	}
	return diff, nil
}
