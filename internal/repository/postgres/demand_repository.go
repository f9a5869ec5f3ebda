package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/repository"
	"github.com/warinyupa/stocklens/internal/weekindex"
)

type demandRepository struct {
	db *DB
}

func NewDemandRepository(db *DB) repository.DemandRepository {
	return &demandRepository{db: db}
}

func (r *demandRepository) GetPredictedDemand(ctx context.Context, plant string, weeks []weekindex.Key) ([]domain.DemandFact, error) {
	if len(weeks) == 0 {
		return nil, nil
	}
	years, weekNums := splitKeys(weeks)

	query := `
		SELECT
			TRIM(material) AS material,
			plnt,
			iso_year,
			iso_week,
			COALESCE(pred_order_qty, 0)::int AS pred_order_qty
		FROM themall_poc.final_order_table
		WHERE plnt = $1
		  AND (iso_year, iso_week) IN (SELECT UNNEST($2::int[]), UNNEST($3::int[]))
	`

	var facts []domain.DemandFact
	if err := r.db.SelectContext(ctx, &facts, query, plant, pq.Array(years), pq.Array(weekNums)); err != nil {
		return nil, fmt.Errorf("error fetching predicted demand for plant %s: %w", plant, err)
	}

	return facts, nil
}

func (r *demandRepository) GetPredictedDemandForSKUs(ctx context.Context, skus []string, weeks []weekindex.Key) ([]domain.DemandFact, error) {
	if len(skus) == 0 || len(weeks) == 0 {
		return nil, nil
	}
	years, weekNums := splitKeys(weeks)

	query := `
		SELECT
			TRIM(material) AS material,
			plnt,
			iso_year,
			iso_week,
			COALESCE(pred_order_qty, 0)::int AS pred_order_qty
		FROM themall_poc.final_order_table
		WHERE material = ANY($1::text[])
		  AND (iso_year, iso_week) IN (SELECT UNNEST($2::int[]), UNNEST($3::int[]))
	`

	var facts []domain.DemandFact
	if err := r.db.SelectContext(ctx, &facts, query, pq.Array(skus), pq.Array(years), pq.Array(weekNums)); err != nil {
		return nil, fmt.Errorf("error fetching predicted demand for %d skus: %w", len(skus), err)
	}

	return facts, nil
}

func splitKeys(weeks []weekindex.Key) (years, weekNums []int) {
	years = make([]int, len(weeks))
	weekNums = make([]int, len(weeks))
	for i, key := range weeks {
		years[i] = key.ISOYear
		weekNums[i] = key.ISOWeek
	}
	return years, weekNums
}
