package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/repository"
)

type stockFactsRepository struct {
	db *DB
}

func NewStockFactsRepository(db *DB) repository.StockFactsRepository {
	return &stockFactsRepository{db: db}
}

// GetDailyStock returns every per-day stock observation for the plant inside
// [from, to]. Grouping into weeks happens in the ledger builder, not in SQL,
// so the reconstruction rules live in one place.
func (r *stockFactsRepository) GetDailyStock(ctx context.Context, plant string, from, to time.Time) ([]domain.DailyStockFact, error) {
	query := `
		SELECT
			TRIM(material) AS material,
			plant,
			d_period::date AS d_period,
			COALESCE(move_qty, 0)::int AS move_qty,
			COALESCE(daily_stock, 0)::int AS daily_stock
		FROM themall_poc.f_stock_daily_3
		WHERE plant = $1
		  AND d_period::date BETWEEN $2::date AND $3::date
		ORDER BY material, d_period
	`

	var facts []domain.DailyStockFact
	err := r.db.withSem(ctx, func() error {
		return r.db.SelectContext(ctx, &facts, query, plant, from, to)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching daily stock for plant %s: %w", plant, err)
	}

	return facts, nil
}

// GetMovements returns movement events posted inside [from, to]. Positive
// quantities are receipts, negative are issues; the split into move-in and
// move-out happens in the ledger builder.
func (r *stockFactsRepository) GetMovements(ctx context.Context, plant string, from, to time.Time) ([]domain.MovementFact, error) {
	query := `
		SELECT
			TRIM(material) AS material,
			plant,
			TO_DATE(posting_date, 'YYYY-MM-DD') AS posting_date,
			unit_entry_qty::numeric::int AS unit_entry_qty
		FROM themall_poc.f_mb51_top50
		WHERE plant = $1
		  AND TO_DATE(posting_date, 'YYYY-MM-DD') BETWEEN $2::date AND $3::date
		ORDER BY material, posting_date
	`

	var facts []domain.MovementFact
	err := r.db.withSem(ctx, func() error {
		return r.db.SelectContext(ctx, &facts, query, plant, from, to)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching movements for plant %s: %w", plant, err)
	}

	return facts, nil
}
