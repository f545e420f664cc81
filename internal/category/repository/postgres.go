package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, remote_id, parent_id, name, slug, description, image_url, sort_order, is_active, created_at, updated_at)
        VALUES (:id, :remote_id, :parent_id, :name, :slug, :description, :image_url, :sort_order, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByRemoteID(ctx context.Context, remoteID int64) (*model.Category, error) {
	return r.findOne(ctx, `SELECT * FROM categories WHERE remote_id = $1 LIMIT 1`, remoteID)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.Category, error) {
	var category model.Category
	err := r.DB.GetContext(ctx, &category, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) ListLinked(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	query := `SELECT * FROM categories WHERE remote_id IS NOT NULL ORDER BY sort_order ASC, name ASC`
	if err := r.DB.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

// Update rewrites the remote-owned fields. Parent links belong to
// UpdateParent and display order stays under local control.
func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET remote_id = :remote_id,
            name = :name,
            slug = :slug,
            description = :description,
            image_url = :image_url,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) UpdateParent(ctx context.Context, id string, parentID *string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE categories SET parent_id = $1, updated_at = NOW() WHERE id = $2`,
		parentID, id)
	return err
}
