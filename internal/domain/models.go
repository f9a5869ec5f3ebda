package domain

import "time"

// Plant represents a physical inventory location
type Plant struct {
	Code string `json:"code" db:"plant"`
	Name string `json:"name" db:"plant_name"`
}

// DailyStockFact is one raw per-day stock observation for a material at a
// plant. MoveQty is the signed net movement booked on that day; DailyStock is
// the end-of-day stock level.
type DailyStockFact struct {
	Material   string    `json:"material" db:"material"`
	Plant      string    `json:"plant" db:"plant"`
	Date       time.Time `json:"date" db:"d_period"`
	MoveQty    int       `json:"move_qty" db:"move_qty"`
	DailyStock int       `json:"daily_stock" db:"daily_stock"`
}

// MovementFact is one raw movement-event record keyed by posting date.
// Positive quantities are receipts, negative quantities are issues.
type MovementFact struct {
	Material    string    `json:"material" db:"material"`
	Plant       string    `json:"plant" db:"plant"`
	PostingDate time.Time `json:"posting_date" db:"posting_date"`
	Quantity    int       `json:"quantity" db:"unit_entry_qty"`
}

// DemandFact is one predicted order quantity for a material in an ISO week.
type DemandFact struct {
	Material     string `json:"material" db:"material"`
	Plant        string `json:"plant" db:"plnt"`
	ISOYear      int    `json:"iso_year" db:"iso_year"`
	ISOWeek      int    `json:"iso_week" db:"iso_week"`
	PredictedQty int    `json:"predicted_qty" db:"pred_order_qty"`
}

// CatalogEntry is one SKU with its human-readable description.
type CatalogEntry struct {
	SKU  string `json:"sku" db:"sku"`
	Name string `json:"name" db:"item_desc"`
}

// SKUMetadata aggregates the master data the projection attaches to a SKU.
type SKUMetadata struct {
	SKU          string `json:"sku" db:"sku"`
	Name         string `json:"name" db:"item_desc"`
	ReorderPoint int    `json:"reorder_point" db:"reorder_point"`
	Category     string `json:"category" db:"category"`
	Supplier     string `json:"supplier" db:"supplier"`
	LeadTimeDays *int   `json:"lead_time_days" db:"lead_time_days"`
}

// LedgerRow is one reconstructed historical week for one material. After
// reconstruction OpeningStock and ClosingStock are always resolved; rows for
// materials with no signal anywhere in the window default everything to zero.
type LedgerRow struct {
	Material     string `json:"material"`
	Week         int    `json:"week"`
	OpeningStock int    `json:"openingStock"`
	ClosingStock int    `json:"closingStock"`
	Change       int    `json:"change"`
	MoveIn       int    `json:"moveIn"`
	MoveOut      int    `json:"moveOut"`
}

// ForecastPoint is one projected week for one SKU. Week 0 is the current
// week; ProjectedStock may go negative, signalling stockout depth.
type ForecastPoint struct {
	Week             int         `json:"week"`
	ProjectedStock   int         `json:"projectedStock"`
	ForecastedDemand int         `json:"forecastedDemand"`
	Status           StockStatus `json:"status"`
}

// ForecastItem is the full projection for one SKU, seeded from the most
// recent reconstructed closing stock.
type ForecastItem struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	CurrentStock int             `json:"currentStock"`
	ReorderPoint int             `json:"reorderPoint"`
	Category     string          `json:"category"`
	Supplier     string          `json:"supplier"`
	LeadTimeDays *int            `json:"leadTimeDays"`
	StockStatus  []ForecastPoint `json:"stockStatus"`
}

// DashboardMetrics counts week-0 statuses across a plant's forecast.
// Critical items count toward both urgent and low.
type DashboardMetrics struct {
	TotalItems    int `json:"totalItems"`
	LowStockItems int `json:"lowStockItems"`
	UrgentItems   int `json:"urgentItems"`
}

// SKUTrend is one ranked entry in the trend analytics output.
type SKUTrend struct {
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Slopes    []float64 `json:"slopes"`
	MeanSlope float64   `json:"meanSlope"`
}

// TrendAnalytics ranks the fastest-rising demand and fastest-declining
// stock over the configured forecast sub-window.
type TrendAnalytics struct {
	TopDemandRising   []SKUTrend `json:"topDemandRising"`
	TopStockDeclining []SKUTrend `json:"topStockDeclining"`
}

// OrderRequest is a replenishment order captured from the UI. OrderType is
// either "manual" or "recommended".
type OrderRequest struct {
	ItemID    int    `json:"item_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	OrderType string `json:"order_type"`
}

// Order is a stored order with its assigned identifier.
type Order struct {
	ID int `json:"id"`
	OrderRequest
	CreatedAt time.Time `json:"created_at"`
}

// EnrichedOrder is an order joined with its SKU's catalog description.
type EnrichedOrder struct {
	Order
	Name string `json:"name"`
}

// PlantAllocation is the predicted demand for one SKU at one plant.
type PlantAllocation struct {
	Plant  string `json:"plant"`
	Demand int    `json:"demand"`
}

// SKUAllocation groups per-plant predicted demand for one SKU.
type SKUAllocation struct {
	SKU         string            `json:"sku"`
	Allocations []PlantAllocation `json:"allocations"`
}
