package domain

// StockStatus classifies one projected week.
type StockStatus string

const (
	// StatusCritical means stock is already at or below zero or the
	// reorder point.
	StatusCritical StockStatus = "critical"
	// StatusLow means next week's projected stock breaches the reorder
	// point even though this week's does not.
	StatusLow StockStatus = "low"
	// StatusOkay means neither this week nor next week breaches the
	// reorder point.
	StatusOkay StockStatus = "okay"
)

// ClassifyWeek applies the status rule for a single projected week.
// hasNext is false at the final horizon week, where no lookahead exists.
func ClassifyWeek(stock, reorderPoint int, nextStock int, hasNext bool) StockStatus {
	if stock <= 0 || stock <= reorderPoint {
		return StatusCritical
	}
	if hasNext && (nextStock <= 0 || nextStock <= reorderPoint) {
		return StatusLow
	}
	return StatusOkay
}

// WeekZeroStatus returns the status of relative week 0 in a projection,
// defaulting to okay when the point is absent.
func WeekZeroStatus(points []ForecastPoint) StockStatus {
	for _, p := range points {
		if p.Week == 0 {
			return p.Status
		}
	}
	return StatusOkay
}
