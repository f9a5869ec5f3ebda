package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warinyupa/stocklens/internal/api"
	"github.com/warinyupa/stocklens/internal/config"
	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/service"
	"github.com/warinyupa/stocklens/internal/weekindex"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var anchor = time.Date(2024, 12, 23, 0, 0, 0, 0, time.UTC)

// apiStub backs every repository interface the router's services consume.
type apiStub struct {
	stock    []domain.DailyStockFact
	demand   []domain.DemandFact
	catalog  []domain.CatalogEntry
	metadata []domain.SKUMetadata
	plants   []domain.Plant
	err      error
}

func (s *apiStub) GetDailyStock(ctx context.Context, plant string, from, to time.Time) ([]domain.DailyStockFact, error) {
	return s.stock, s.err
}

func (s *apiStub) GetMovements(ctx context.Context, plant string, from, to time.Time) ([]domain.MovementFact, error) {
	return nil, s.err
}

func (s *apiStub) GetPredictedDemand(ctx context.Context, plant string, weeks []weekindex.Key) ([]domain.DemandFact, error) {
	return s.demand, s.err
}

func (s *apiStub) GetPredictedDemandForSKUs(ctx context.Context, skus []string, weeks []weekindex.Key) ([]domain.DemandFact, error) {
	return s.demand, s.err
}

func (s *apiStub) GetCatalog(ctx context.Context, plant string) ([]domain.CatalogEntry, error) {
	return s.catalog, s.err
}

func (s *apiStub) GetCatalogForSKUs(ctx context.Context, skus []string) ([]domain.CatalogEntry, error) {
	return s.catalog, s.err
}

func (s *apiStub) GetMetadata(ctx context.Context, plant string) ([]domain.SKUMetadata, error) {
	return s.metadata, s.err
}

func (s *apiStub) ListPlants(ctx context.Context) ([]domain.Plant, error) {
	return s.plants, s.err
}

func newTestRouter(stub *apiStub) *gin.Engine {
	cfg := config.ForecastConfig{
		AnchorDate:       anchor,
		HistoryWeeks:     4,
		HorizonWeeks:     8,
		TrendWindowStart: 3,
		TrendWindowEnd:   5,
		DefaultPlant:     "15KA",
		DCReorderFactor:  11,
	}
	forecastSvc := service.NewForecastService(stub, stub, stub, cfg, time.Minute, nil, nil)
	orderSvc := service.NewOrderService(stub, nil)

	return api.NewRouter(&api.Services{
		ForecastService: forecastSvc,
		OrderService:    orderSvc,
		PlantRepo:       stub,
		DefaultPlant:    cfg.DefaultPlant,
	}, nil)
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&apiStub{})

	rec := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetForecast_DefaultsThePlant(t *testing.T) {
	stub := &apiStub{
		catalog:  []domain.CatalogEntry{{SKU: "A", Name: "Widget"}},
		metadata: []domain.SKUMetadata{{SKU: "A", ReorderPoint: 10}},
	}
	router := newTestRouter(stub)

	rec := doJSON(router, http.MethodGet, "/api/v1/forecast", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.ForecastItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].SKU)
	assert.Len(t, items[0].StockStatus, 9)
}

func TestGetHistoricalStock(t *testing.T) {
	stub := &apiStub{
		stock: []domain.DailyStockFact{{
			Material:   "A",
			Plant:      "15KA",
			Date:       anchor.AddDate(0, 0, -4),
			DailyStock: 50,
		}},
	}
	router := newTestRouter(stub)

	rec := doJSON(router, http.MethodGet, "/api/v1/historical-stock?plant=15KA", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.LedgerRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 4)
}

func TestGetForecast_DataSourceErrorIs500(t *testing.T) {
	router := newTestRouter(&apiStub{err: errors.New("db down")})

	rec := doJSON(router, http.MethodGet, "/api/v1/forecast", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to generate forecast")
}

func TestGetDashboardMetrics(t *testing.T) {
	stub := &apiStub{
		catalog:  []domain.CatalogEntry{{SKU: "A", Name: "Widget"}},
		metadata: []domain.SKUMetadata{{SKU: "A", ReorderPoint: 10}},
	}
	router := newTestRouter(stub)

	rec := doJSON(router, http.MethodGet, "/api/v1/dashboard/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var metrics domain.DashboardMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	// no ledger history seeds zero stock, which is critical
	assert.Equal(t, domain.DashboardMetrics{TotalItems: 1, LowStockItems: 1, UrgentItems: 1}, metrics)
}

func TestAllocate_RequiresSKUs(t *testing.T) {
	router := newTestRouter(&apiStub{})

	rec := doJSON(router, http.MethodPost, "/api/v1/allocate", map[string]any{"weeks": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAllocate(t *testing.T) {
	year, week := anchor.ISOWeek()
	stub := &apiStub{
		demand: []domain.DemandFact{{
			Material:     "A",
			Plant:        "15KA",
			ISOYear:      year,
			ISOWeek:      week,
			PredictedQty: 12,
		}},
	}
	router := newTestRouter(stub)

	rec := doJSON(router, http.MethodPost, "/api/v1/allocate", map[string]any{
		"skus":  []string{"A"},
		"weeks": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out []domain.SKUAllocation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, []domain.PlantAllocation{{Plant: "15KA", Demand: 12}}, out[0].Allocations)
}

func TestOrderLifecycle(t *testing.T) {
	router := newTestRouter(&apiStub{
		catalog: []domain.CatalogEntry{{SKU: "A", Name: "Widget"}},
	})

	rec := doJSON(router, http.MethodPost, "/api/v1/orders", domain.OrderRequest{
		SKU: "A", Quantity: 5, OrderType: "manual",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Order domain.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.Order.ID)

	rec = doJSON(router, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Orders []domain.EnrichedOrder `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Orders, 1)
	assert.Equal(t, "Widget", listed.Orders[0].Name)

	rec = doJSON(router, http.MethodPut, "/api/v1/orders/1", domain.OrderRequest{SKU: "A", Quantity: 9})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodPut, "/api/v1/orders/abc", domain.OrderRequest{SKU: "A", Quantity: 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(router, http.MethodDelete, "/api/v1/orders/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodDelete, "/api/v1/orders/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPlants(t *testing.T) {
	stub := &apiStub{plants: []domain.Plant{{Code: "15KA", Name: "Bangkok DC"}}}
	router := newTestRouter(stub)

	rec := doJSON(router, http.MethodGet, "/api/v1/plants", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var plants []domain.Plant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plants))
	require.Len(t, plants, 1)
	assert.Equal(t, "15KA", plants[0].Code)
}

func TestInsightRouteAbsentWithoutSummarizer(t *testing.T) {
	router := newTestRouter(&apiStub{})

	rec := doJSON(router, http.MethodGet, "/api/v1/insight", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
