package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/repository"
)

type skuRepository struct {
	db *DB
}

func NewSKURepository(db *DB) repository.SKURepository {
	return &skuRepository{db: db}
}

func (r *skuRepository) GetCatalog(ctx context.Context, plant string) ([]domain.CatalogEntry, error) {
	query := `
		SELECT DISTINCT
			TRIM(material) AS sku,
			TRIM(item_desc) AS item_desc
		FROM themall_poc.final_order_table
		WHERE plnt = $1
		ORDER BY sku
	`

	var entries []domain.CatalogEntry
	if err := r.db.SelectContext(ctx, &entries, query, plant); err != nil {
		return nil, fmt.Errorf("error fetching catalog for plant %s: %w", plant, err)
	}

	return entries, nil
}

func (r *skuRepository) GetCatalogForSKUs(ctx context.Context, skus []string) ([]domain.CatalogEntry, error) {
	if len(skus) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT
			TRIM(material) AS sku,
			TRIM(item_desc) AS item_desc
		FROM themall_poc.final_order_table
		WHERE material = ANY($1::text[])
		ORDER BY sku
	`

	var entries []domain.CatalogEntry
	if err := r.db.SelectContext(ctx, &entries, query, pq.Array(skus)); err != nil {
		return nil, fmt.Errorf("error fetching catalog for %d skus: %w", len(skus), err)
	}

	return entries, nil
}

func (r *skuRepository) GetMetadata(ctx context.Context, plant string) ([]domain.SKUMetadata, error) {
	query := `
		SELECT
			TRIM(sku) AS sku,
			COALESCE(TRIM(name), '') AS item_desc,
			COALESCE(reorder_point, 0)::int AS reorder_point,
			COALESCE(TRIM(category), '') AS category,
			COALESCE(TRIM(supplier), '') AS supplier,
			lead_time_days
		FROM themall_poc.app_inventory_items_cal
		WHERE plant = $1
	`

	var metadata []domain.SKUMetadata
	if err := r.db.SelectContext(ctx, &metadata, query, plant); err != nil {
		return nil, fmt.Errorf("error fetching sku metadata for plant %s: %w", plant, err)
	}

	return metadata, nil
}
