package analytics_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warinyupa/stocklens/internal/analytics"
	"github.com/warinyupa/stocklens/internal/domain"
)

// item builds a forecast item with points on weeks 3..5 plus noise points
// outside the window that the analyzer must ignore.
func item(sku string, demands, stocks [3]int) domain.ForecastItem {
	points := []domain.ForecastPoint{
		{Week: 0, ForecastedDemand: 999, ProjectedStock: 999},
		{Week: 8, ForecastedDemand: 999, ProjectedStock: 999},
	}
	for i := 0; i < 3; i++ {
		points = append(points, domain.ForecastPoint{
			Week:             3 + i,
			ForecastedDemand: demands[i],
			ProjectedStock:   stocks[i],
		})
	}
	return domain.ForecastItem{SKU: sku, Name: "item " + sku, StockStatus: points}
}

func TestAnalyze_RisingDemandRanksFirst(t *testing.T) {
	a := analytics.NewAnalyzer(3, 5)

	out := a.Analyze([]domain.ForecastItem{
		item("FLAT", [3]int{5, 5, 5}, [3]int{50, 50, 50}),
		item("RISE", [3]int{10, 20, 30}, [3]int{50, 50, 50}),
	})

	require.Len(t, out.TopDemandRising, 2)
	top := out.TopDemandRising[0]
	assert.Equal(t, "RISE", top.SKU)
	assert.Equal(t, []float64{10, 10}, top.Slopes)
	assert.Equal(t, 10.0, top.MeanSlope)
	assert.Equal(t, "FLAT", out.TopDemandRising[1].SKU)
}

func TestAnalyze_DecliningStockRanksFirst(t *testing.T) {
	a := analytics.NewAnalyzer(3, 5)

	out := a.Analyze([]domain.ForecastItem{
		item("DROP", [3]int{0, 0, 0}, [3]int{30, 20, 10}),
		item("HOLD", [3]int{0, 0, 0}, [3]int{30, 30, 30}),
	})

	require.Len(t, out.TopStockDeclining, 2)
	top := out.TopStockDeclining[0]
	assert.Equal(t, "DROP", top.SKU)
	assert.Equal(t, -10.0, top.MeanSlope)
}

func TestAnalyze_IgnoresPointsOutsideTheWindow(t *testing.T) {
	a := analytics.NewAnalyzer(3, 5)

	out := a.Analyze([]domain.ForecastItem{
		item("A", [3]int{5, 5, 5}, [3]int{50, 40, 30}),
	})

	// the week-0 and week-8 noise points carry value 999; slopes stay
	// within the window's deltas
	require.Len(t, out.TopStockDeclining, 1)
	assert.Equal(t, []float64{-10, -10}, out.TopStockDeclining[0].Slopes)
}

func TestAnalyze_SKUsWithTooFewPointsAreExcluded(t *testing.T) {
	a := analytics.NewAnalyzer(3, 5)

	short := domain.ForecastItem{
		SKU: "SHORT",
		StockStatus: []domain.ForecastPoint{
			{Week: 3, ForecastedDemand: 10, ProjectedStock: 10},
			{Week: 4, ForecastedDemand: 20, ProjectedStock: 5},
		},
	}

	out := a.Analyze([]domain.ForecastItem{short})
	assert.Empty(t, out.TopDemandRising)
	assert.Empty(t, out.TopStockDeclining)
}

func TestAnalyze_KeepsOnlyTopFive(t *testing.T) {
	a := analytics.NewAnalyzer(3, 5)

	var items []domain.ForecastItem
	for i := 0; i < 7; i++ {
		items = append(items, item(
			fmt.Sprintf("SKU-%d", i),
			[3]int{0, i * 10, i * 20},
			[3]int{100, 100, 100},
		))
	}

	out := a.Analyze(items)
	require.Len(t, out.TopDemandRising, 5)
	assert.Equal(t, "SKU-6", out.TopDemandRising[0].SKU)
	assert.Equal(t, "SKU-2", out.TopDemandRising[4].SKU)
}

func TestAnalyze_EmptyInputYieldsEmptyRankings(t *testing.T) {
	a := analytics.NewAnalyzer(3, 5)

	out := a.Analyze(nil)
	assert.NotNil(t, out.TopDemandRising)
	assert.NotNil(t, out.TopStockDeclining)
	assert.Empty(t, out.TopDemandRising)
	assert.Empty(t, out.TopStockDeclining)
}
