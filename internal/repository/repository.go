// Package repository defines the data-source boundaries the forecast core
// consumes. Implementations live in subpackages; any failure returned from
// these interfaces is a data-source error and propagates to the caller
// untouched.
package repository

import (
	"context"
	"time"

	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/weekindex"
)

// StockFactsRepository fetches raw per-day stock observations and movement
// events for a plant inside a date range.
type StockFactsRepository interface {
	GetDailyStock(ctx context.Context, plant string, from, to time.Time) ([]domain.DailyStockFact, error)
	GetMovements(ctx context.Context, plant string, from, to time.Time) ([]domain.MovementFact, error)
}

// DemandRepository fetches predicted order quantities from the prediction
// store.
type DemandRepository interface {
	// GetPredictedDemand returns demand rows for one plant across the
	// given ISO weeks.
	GetPredictedDemand(ctx context.Context, plant string, weeks []weekindex.Key) ([]domain.DemandFact, error)
	// GetPredictedDemandForSKUs returns demand rows for a fixed SKU set
	// regardless of plant, across the given ISO weeks.
	GetPredictedDemandForSKUs(ctx context.Context, skus []string, weeks []weekindex.Key) ([]domain.DemandFact, error)
}

// SKURepository fetches SKU master data.
type SKURepository interface {
	// GetCatalog lists the distinct SKUs (with descriptions) predicted to
	// move at a plant.
	GetCatalog(ctx context.Context, plant string) ([]domain.CatalogEntry, error)
	// GetCatalogForSKUs lists catalog entries for a fixed SKU set.
	GetCatalogForSKUs(ctx context.Context, skus []string) ([]domain.CatalogEntry, error)
	// GetMetadata returns reorder points, categories, suppliers and lead
	// times for a plant's SKUs.
	GetMetadata(ctx context.Context, plant string) ([]domain.SKUMetadata, error)
}

// PlantRepository lists the plant master data.
type PlantRepository interface {
	ListPlants(ctx context.Context) ([]domain.Plant, error)
}
