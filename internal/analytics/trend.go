// Package analytics ranks SKUs by how fast their projected demand rises and
// their projected stock declines over a short forecast sub-window. Slopes
// come from an ordinary least squares fit over a small rolling window.
package analytics

import (
	"math"
	"sort"

	"github.com/warinyupa/stocklens/internal/domain"
)

const (
	rollingWindow = 2
	topN          = 5
	minPoints     = 3
)

// Analyzer computes trend rankings over forecast output. windowStart and
// windowEnd bound the inclusive range of forecast weeks considered.
type Analyzer struct {
	windowStart int
	windowEnd   int
}

func NewAnalyzer(windowStart, windowEnd int) *Analyzer {
	return &Analyzer{windowStart: windowStart, windowEnd: windowEnd}
}

// Analyze extracts the demand and stock series of each SKU inside the
// sub-window, fits rolling slopes, and returns the top risers and decliners.
// SKUs with fewer than three points in the window are excluded from ranking.
func (a *Analyzer) Analyze(items []domain.ForecastItem) domain.TrendAnalytics {
	var demandTrends, stockTrends []domain.SKUTrend

	for _, item := range items {
		points := append([]domain.ForecastPoint(nil), item.StockStatus...)
		sort.Slice(points, func(i, j int) bool { return points[i].Week < points[j].Week })

		var demands, stocks []float64
		for _, p := range points {
			if p.Week < a.windowStart || p.Week > a.windowEnd {
				continue
			}
			demands = append(demands, float64(p.ForecastedDemand))
			stocks = append(stocks, float64(p.ProjectedStock))
		}

		if len(demands) >= minPoints {
			slopes := rollingSlopes(demands, rollingWindow)
			demandTrends = append(demandTrends, domain.SKUTrend{
				SKU:       item.SKU,
				Name:      item.Name,
				Slopes:    slopes,
				MeanSlope: mean(slopes),
			})
		}
		if len(stocks) >= minPoints {
			slopes := rollingSlopes(stocks, rollingWindow)
			stockTrends = append(stockTrends, domain.SKUTrend{
				SKU:       item.SKU,
				Name:      item.Name,
				Slopes:    slopes,
				MeanSlope: mean(slopes),
			})
		}
	}

	sort.SliceStable(demandTrends, func(i, j int) bool {
		return demandTrends[i].MeanSlope > demandTrends[j].MeanSlope
	})
	sort.SliceStable(stockTrends, func(i, j int) bool {
		return stockTrends[i].MeanSlope < stockTrends[j].MeanSlope
	})

	return domain.TrendAnalytics{
		TopDemandRising:   head(demandTrends, topN),
		TopStockDeclining: head(stockTrends, topN),
	}
}

// rollingSlopes fits a least-squares line through each consecutive window of
// the series and collects the slopes, rounded to two decimals. With the
// default window of 2 this is the discrete first difference.
func rollingSlopes(values []float64, window int) []float64 {
	slopes := make([]float64, 0, len(values)-window+1)
	for i := 0; i+window <= len(values); i++ {
		slopes = append(slopes, round2(olsSlope(values[i:i+window])))
	}
	return slopes
}

// olsSlope returns the slope of the best-fit line through (0, y[0]),
// (1, y[1]), ... by ordinary least squares.
func olsSlope(y []float64) float64 {
	n := float64(len(y))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func head(trends []domain.SKUTrend, n int) []domain.SKUTrend {
	if len(trends) > n {
		trends = trends[:n]
	}
	if trends == nil {
		trends = []domain.SKUTrend{}
	}
	return trends
}
