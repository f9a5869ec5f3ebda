package forecast

import (
	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/weekindex"
)

// DemandIndex looks up predicted order quantity by (material, ISO week).
// Duplicate keys are summed at build time: a material served by several
// supply-source rows at one facility consolidates into one logical demand.
// Absent keys resolve to zero, never to an error.
type DemandIndex struct {
	byKey map[demandKey]int
}

type demandKey struct {
	material string
	week     weekindex.Key
}

func NewDemandIndex(facts []domain.DemandFact) *DemandIndex {
	idx := &DemandIndex{byKey: make(map[demandKey]int, len(facts))}
	for _, fact := range facts {
		key := demandKey{
			material: fact.Material,
			week:     weekindex.Key{ISOYear: fact.ISOYear, ISOWeek: fact.ISOWeek},
		}
		idx.byKey[key] += fact.PredictedQty
	}
	return idx
}

// Lookup returns the predicted quantity for a material in a week, 0 when
// no prediction exists.
func (d *DemandIndex) Lookup(material string, week weekindex.Key) int {
	return d.byKey[demandKey{material: material, week: week}]
}
