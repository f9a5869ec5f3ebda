// Package forecast projects future stock week by week from a seeded starting
// balance and a predicted-demand lookup. The projection is a strictly
// sequential fold over weeks 0..H; each week's status depends only on the
// current stock, the reorder point, and next week's demand.
package forecast

import (
	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/weekindex"
)

// Projector walks the forecast horizon for individual SKUs. It holds no
// per-SKU state; the same Projector serves every material in a request.
type Projector struct {
	weeks   *weekindex.Index
	horizon int
}

// NewProjector builds a projector over horizon weeks 0..horizon using the
// shared week index of the request.
func NewProjector(weeks *weekindex.Index, horizon int) *Projector {
	return &Projector{weeks: weeks, horizon: horizon}
}

// Project folds seedStock forward across the horizon, subtracting predicted
// demand each week. Stock is deliberately not clamped at zero: a negative
// balance is the signal for sustained stockout depth.
//
// The status lookahead subtracts next week's demand while the stock advance
// subtracts the current week's; the two use different weeks on purpose.
func (p *Projector) Project(material string, reorderPoint, seedStock int, demand *DemandIndex) []domain.ForecastPoint {
	points := make([]domain.ForecastPoint, 0, p.horizon+1)
	stock := seedStock

	for w := 0; w <= p.horizon; w++ {
		demandNow := p.demandAt(material, w, demand)

		var nextStock int
		hasNext := w < p.horizon
		if hasNext {
			nextStock = stock - p.demandAt(material, w+1, demand)
		}

		points = append(points, domain.ForecastPoint{
			Week:             w,
			ProjectedStock:   stock,
			ForecastedDemand: demandNow,
			Status:           domain.ClassifyWeek(stock, reorderPoint, nextStock, hasNext),
		})

		stock -= demandNow
	}
	return points
}

func (p *Projector) demandAt(material string, relativeWeek int, demand *DemandIndex) int {
	key, ok := p.weeks.Key(relativeWeek)
	if !ok {
		return 0
	}
	return demand.Lookup(material, key)
}
