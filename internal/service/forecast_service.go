package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/warinyupa/stocklens/internal/analytics"
	"github.com/warinyupa/stocklens/internal/cache"
	"github.com/warinyupa/stocklens/internal/config"
	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/forecast"
	"github.com/warinyupa/stocklens/internal/ledger"
	"github.com/warinyupa/stocklens/internal/repository"
	"github.com/warinyupa/stocklens/internal/weekindex"
)

// ForecastService composes ledger reconstruction, demand lookup, and
// forward projection behind per-plant TTL memoization. One service instance
// holds the process-wide caches; it is constructed once at startup and
// passed by reference.
type ForecastService struct {
	stockRepo  repository.StockFactsRepository
	demandRepo repository.DemandRepository
	skuRepo    repository.SKURepository

	cfg    config.ForecastConfig
	shared cache.ForecastCache

	ledgerMemo   *cache.Memo[[]domain.LedgerRow]
	forecastMemo *cache.Memo[[]domain.ForecastItem]
	analyzer     *analytics.Analyzer
}

// NewForecastService wires the service. clock is injected for tests; pass
// nil for time.Now. shared may be nil when cross-process caching is off.
func NewForecastService(
	stockRepo repository.StockFactsRepository,
	demandRepo repository.DemandRepository,
	skuRepo repository.SKURepository,
	cfg config.ForecastConfig,
	ttl time.Duration,
	clock func() time.Time,
	shared cache.ForecastCache,
) *ForecastService {
	if shared == nil {
		shared = cache.NewNoopForecastCache()
	}
	return &ForecastService{
		stockRepo:    stockRepo,
		demandRepo:   demandRepo,
		skuRepo:      skuRepo,
		cfg:          cfg,
		shared:       shared,
		ledgerMemo:   cache.NewMemo[[]domain.LedgerRow](ttl, clock),
		forecastMemo: cache.NewMemo[[]domain.ForecastItem](ttl, clock),
		analyzer:     analytics.NewAnalyzer(cfg.TrendWindowStart, cfg.TrendWindowEnd),
	}
}

// weekIndex builds the authoritative history+forecast index for one request.
func (s *ForecastService) weekIndex() (*weekindex.Index, error) {
	return weekindex.New(s.cfg.AnchorDate, -s.cfg.HistoryWeeks, s.cfg.HorizonWeeks)
}

// GetHistoricalLedger returns the reconstructed weekly ledger for a plant,
// TTL-cached per plant.
func (s *ForecastService) GetHistoricalLedger(ctx context.Context, plant string) ([]domain.LedgerRow, error) {
	return s.ledgerMemo.GetOrCompute(ctx, plant, func(ctx context.Context) ([]domain.LedgerRow, error) {
		idx, err := s.weekIndex()
		if err != nil {
			return nil, err
		}
		history, err := idx.Slice(-s.cfg.HistoryWeeks, -1)
		if err != nil {
			return nil, err
		}
		return s.computeLedger(ctx, plant, history)
	})
}

func (s *ForecastService) computeLedger(ctx context.Context, plant string, history *weekindex.Index) ([]domain.LedgerRow, error) {
	if rows, ok, err := s.shared.GetLedger(ctx, plant); err == nil && ok {
		return rows, nil
	} else if err != nil {
		log.Warn().Err(err).Str("plant", plant).Msg("ledger: shared cache get failed")
	}

	from, to := history.DateRange()

	stock, err := s.stockRepo.GetDailyStock(ctx, plant, from, to)
	if err != nil {
		return nil, fmt.Errorf("ledger reconstruction for plant %s: %w", plant, err)
	}
	moves, err := s.stockRepo.GetMovements(ctx, plant, from, to)
	if err != nil {
		return nil, fmt.Errorf("ledger reconstruction for plant %s: %w", plant, err)
	}

	if dcSKUs, ok := s.cfg.DCPlants[plant]; ok {
		stock = filterStockFacts(stock, dcSKUs)
		moves = filterMovementFacts(moves, dcSKUs)
	}

	rows := ledger.NewBuilder(history).Build(stock, moves)

	if err := s.shared.SetLedger(ctx, plant, rows); err != nil {
		log.Warn().Err(err).Str("plant", plant).Msg("ledger: shared cache set failed")
	}

	return rows, nil
}

// GetForecast returns the projected forecast for every SKU in a plant's
// catalog, TTL-cached per plant. Ledger reconstruction is consulted through
// its own cache, so a fresh ledger is never recomputed just for seeding.
func (s *ForecastService) GetForecast(ctx context.Context, plant string) ([]domain.ForecastItem, error) {
	return s.forecastMemo.GetOrCompute(ctx, plant, func(ctx context.Context) ([]domain.ForecastItem, error) {
		return s.computeForecast(ctx, plant)
	})
}

func (s *ForecastService) computeForecast(ctx context.Context, plant string) ([]domain.ForecastItem, error) {
	if items, ok, err := s.shared.GetForecast(ctx, plant); err == nil && ok {
		return items, nil
	} else if err != nil {
		log.Warn().Err(err).Str("plant", plant).Msg("forecast: shared cache get failed")
	}

	idx, err := s.weekIndex()
	if err != nil {
		return nil, err
	}

	catalog, err := s.fetchCatalog(ctx, plant)
	if err != nil {
		return nil, fmt.Errorf("forecast for plant %s: %w", plant, err)
	}

	metadata, err := s.skuRepo.GetMetadata(ctx, plant)
	if err != nil {
		return nil, fmt.Errorf("forecast for plant %s: %w", plant, err)
	}
	metaBySKU := make(map[string]domain.SKUMetadata, len(metadata))
	for _, m := range metadata {
		metaBySKU[m.SKU] = m
	}

	demandFacts, err := s.fetchDemand(ctx, plant, idx)
	if err != nil {
		return nil, fmt.Errorf("forecast for plant %s: %w", plant, err)
	}
	demandIdx := forecast.NewDemandIndex(demandFacts)

	ledgerRows, err := s.GetHistoricalLedger(ctx, plant)
	if err != nil {
		return nil, err
	}
	seeds := make(map[string]int, len(ledgerRows))
	for _, row := range ledgerRows {
		if row.Week == -1 {
			seeds[row.Material] = row.ClosingStock
		}
	}

	_, isDC := s.cfg.DCPlants[plant]
	projector := forecast.NewProjector(idx, s.cfg.HorizonWeeks)

	items := make([]domain.ForecastItem, 0, len(catalog))
	for i, entry := range catalog {
		meta := metaBySKU[entry.SKU]
		reorderPoint := meta.ReorderPoint
		if isDC {
			reorderPoint *= s.cfg.DCReorderFactor
		}

		seed := seeds[entry.SKU]
		items = append(items, domain.ForecastItem{
			ID:           i + 1,
			Name:         entry.Name,
			SKU:          entry.SKU,
			CurrentStock: seed,
			ReorderPoint: reorderPoint,
			Category:     meta.Category,
			Supplier:     meta.Supplier,
			LeadTimeDays: meta.LeadTimeDays,
			StockStatus:  projector.Project(entry.SKU, reorderPoint, seed, demandIdx),
		})
	}

	if err := s.shared.SetForecast(ctx, plant, items); err != nil {
		log.Warn().Err(err).Str("plant", plant).Msg("forecast: shared cache set failed")
	}

	return items, nil
}

func (s *ForecastService) fetchCatalog(ctx context.Context, plant string) ([]domain.CatalogEntry, error) {
	if dcSKUs, ok := s.cfg.DCPlants[plant]; ok {
		return s.skuRepo.GetCatalogForSKUs(ctx, dcSKUs)
	}
	return s.skuRepo.GetCatalog(ctx, plant)
}

func (s *ForecastService) fetchDemand(ctx context.Context, plant string, idx *weekindex.Index) ([]domain.DemandFact, error) {
	horizon, err := idx.Slice(0, s.cfg.HorizonWeeks)
	if err != nil {
		return nil, err
	}
	if dcSKUs, ok := s.cfg.DCPlants[plant]; ok {
		return s.demandRepo.GetPredictedDemandForSKUs(ctx, dcSKUs, horizon.Keys())
	}
	return s.demandRepo.GetPredictedDemand(ctx, plant, horizon.Keys())
}

// GetDashboardMetrics counts week-0 statuses across the plant's forecast.
// Critical items count toward both urgent and low.
func (s *ForecastService) GetDashboardMetrics(ctx context.Context, plant string) (domain.DashboardMetrics, error) {
	items, err := s.GetForecast(ctx, plant)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}

	metrics := domain.DashboardMetrics{TotalItems: len(items)}
	for _, item := range items {
		switch domain.WeekZeroStatus(item.StockStatus) {
		case domain.StatusCritical:
			metrics.UrgentItems++
			metrics.LowStockItems++
		case domain.StatusLow:
			metrics.LowStockItems++
		}
	}
	return metrics, nil
}

// GetTrendAnalytics ranks the plant's SKUs by demand rise and stock decline
// over the configured forecast sub-window.
func (s *ForecastService) GetTrendAnalytics(ctx context.Context, plant string) (domain.TrendAnalytics, error) {
	items, err := s.GetForecast(ctx, plant)
	if err != nil {
		return domain.TrendAnalytics{}, err
	}
	return s.analyzer.Analyze(items), nil
}

// Allocate returns, for each SKU, the total predicted demand per plant over
// the next weeks forecast weeks (starting at week 0).
func (s *ForecastService) Allocate(ctx context.Context, skus []string, weeks int) ([]domain.SKUAllocation, error) {
	if weeks < 1 {
		weeks = 1
	}
	if weeks > s.cfg.HorizonWeeks {
		weeks = s.cfg.HorizonWeeks
	}

	idx, err := weekindex.New(s.cfg.AnchorDate, 0, weeks-1)
	if err != nil {
		return nil, err
	}

	facts, err := s.demandRepo.GetPredictedDemandForSKUs(ctx, skus, idx.Keys())
	if err != nil {
		return nil, fmt.Errorf("allocation: %w", err)
	}

	totals := make(map[string]map[string]int)
	plantOrder := make(map[string][]string)
	for _, fact := range facts {
		if totals[fact.Material] == nil {
			totals[fact.Material] = make(map[string]int)
		}
		if _, seen := totals[fact.Material][fact.Plant]; !seen {
			plantOrder[fact.Material] = append(plantOrder[fact.Material], fact.Plant)
		}
		totals[fact.Material][fact.Plant] += fact.PredictedQty
	}

	result := make([]domain.SKUAllocation, 0, len(skus))
	for _, sku := range skus {
		allocations := make([]domain.PlantAllocation, 0, len(plantOrder[sku]))
		for _, plant := range plantOrder[sku] {
			allocations = append(allocations, domain.PlantAllocation{
				Plant:  plant,
				Demand: totals[sku][plant],
			})
		}
		result = append(result, domain.SKUAllocation{SKU: sku, Allocations: allocations})
	}
	return result, nil
}

func filterStockFacts(facts []domain.DailyStockFact, skus []string) []domain.DailyStockFact {
	allowed := toSet(skus)
	filtered := facts[:0:0]
	for _, f := range facts {
		if allowed[f.Material] {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

func filterMovementFacts(facts []domain.MovementFact, skus []string) []domain.MovementFact {
	allowed := toSet(skus)
	filtered := facts[:0:0]
	for _, f := range facts {
		if allowed[f.Material] {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
