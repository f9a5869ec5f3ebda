// Package ledger reconstructs a consistent weekly opening/closing-balance
// ledger from sparse per-day stock and movement facts. Reconstruction is a
// pure function of its inputs: missing weeks are padded, missing balances are
// backfilled from adjacent known values, and anything still unresolved
// defaults to zero. Missing data is never an error.
package ledger

import (
	"sort"
	"time"

	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/weekindex"
)

// Builder turns raw daily facts into ledger rows for the history window of
// the week index it is built with.
type Builder struct {
	weeks *weekindex.Index
}

func NewBuilder(weeks *weekindex.Index) *Builder {
	return &Builder{weeks: weeks}
}

// row carries the nullable intermediate state of one (material, week) cell
// while reconstruction is in flight. The exported LedgerRow is fully
// resolved; nil here means "no signal yet".
type row struct {
	material string
	week     int
	opening  *int
	closing  *int
	change   *int
	moveIn   int
	moveOut  int
}

// Build reconstructs one LedgerRow per (material, relative week) for every
// material present in either input. Output is ordered by material, then
// ascending week.
func (b *Builder) Build(stock []domain.DailyStockFact, moves []domain.MovementFact) []domain.LedgerRow {
	observed := b.groupWeekly(stock)
	moveIn, moveOut := b.groupMovements(moves)

	materials := make([]string, 0, len(observed))
	seen := make(map[string]bool, len(observed))
	for mat := range observed {
		if !seen[mat] {
			seen[mat] = true
			materials = append(materials, mat)
		}
	}
	for mat := range moveIn {
		if !seen[mat] {
			seen[mat] = true
			materials = append(materials, mat)
		}
	}
	sort.Strings(materials)

	var out []domain.LedgerRow
	for _, mat := range materials {
		rows := b.padMaterial(mat, observed[mat])
		b.lagOpening(rows)
		for _, r := range rows {
			key, _ := b.weeks.Key(r.week)
			r.moveIn = moveIn[mat][key]
			r.moveOut = moveOut[mat][key]
		}
		backfill(rows)
		for _, r := range rows {
			out = append(out, domain.LedgerRow{
				Material:     r.material,
				Week:         r.week,
				OpeningStock: deref(r.opening),
				ClosingStock: deref(r.closing),
				Change:       deref(r.change),
				MoveIn:       r.moveIn,
				MoveOut:      r.moveOut,
			})
		}
	}
	return out
}

// weeklyObservation is the per-week aggregate of daily stock facts: the
// stock level on the last observed day and the summed signed movement.
type weeklyObservation struct {
	lastDay time.Time
	closing int
	change  int
}

func (b *Builder) groupWeekly(stock []domain.DailyStockFact) map[string]map[int]*weeklyObservation {
	grouped := make(map[string]map[int]*weeklyObservation)
	for _, fact := range stock {
		rel, ok := b.weeks.Relative(weekindex.KeyOf(fact.Date))
		if !ok {
			continue
		}
		byWeek := grouped[fact.Material]
		if byWeek == nil {
			byWeek = make(map[int]*weeklyObservation)
			grouped[fact.Material] = byWeek
		}
		obs := byWeek[rel]
		if obs == nil {
			obs = &weeklyObservation{lastDay: fact.Date, closing: fact.DailyStock}
			byWeek[rel] = obs
		} else if fact.Date.After(obs.lastDay) {
			// closing stock is the observation on the last observed day,
			// which is not necessarily Sunday when data is sparse
			obs.lastDay = fact.Date
			obs.closing = fact.DailyStock
		}
		obs.change += fact.MoveQty
	}
	return grouped
}

func (b *Builder) groupMovements(moves []domain.MovementFact) (in, out map[string]map[weekindex.Key]int) {
	in = make(map[string]map[weekindex.Key]int)
	out = make(map[string]map[weekindex.Key]int)
	for _, move := range moves {
		key := weekindex.KeyOf(move.PostingDate)
		if _, ok := b.weeks.Relative(key); !ok {
			continue
		}
		if in[move.Material] == nil {
			in[move.Material] = make(map[weekindex.Key]int)
			out[move.Material] = make(map[weekindex.Key]int)
		}
		if move.Quantity > 0 {
			in[move.Material][key] += move.Quantity
		} else {
			out[move.Material][key] += -move.Quantity
		}
	}
	return in, out
}

// padMaterial materializes one row per window week, in ascending order.
// Weeks without an observation get a fully-null row.
func (b *Builder) padMaterial(material string, byWeek map[int]*weeklyObservation) []*row {
	weeks := b.weeks.Weeks()
	rows := make([]*row, 0, len(weeks))
	for _, w := range weeks {
		r := &row{material: material, week: w}
		if obs, ok := byWeek[w]; ok {
			closing := obs.closing
			change := obs.change
			r.closing = &closing
			r.change = &change
		}
		rows = append(rows, r)
	}
	return rows
}

// lagOpening derives each week's opening stock from the previous week's
// closing stock. The earliest week stays null here; backfill resolves it.
func (b *Builder) lagOpening(rows []*row) {
	for i := 1; i < len(rows); i++ {
		if rows[i-1].closing != nil {
			opening := *rows[i-1].closing
			rows[i].opening = &opening
		}
	}
}

// backfill resolves remaining null balances per material, walking the window
// newest to oldest:
//   - opening := closing - change when both are known
//   - opening := closing of the chronologically previous week when known
//   - opening := the most recent known closing in the window as a last
//     resort, always applied to the oldest week
//   - closing := opening + change once opening is resolved
//
// Anything still null afterwards defaults to zero.
func backfill(rows []*row) {
	var latestClosing *int
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].closing != nil {
			latestClosing = rows[i].closing
			break
		}
	}

	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]

		if r.opening == nil {
			switch {
			case r.closing != nil && r.change != nil:
				opening := *r.closing - *r.change
				r.opening = &opening
			case i > 0 && rows[i-1].closing != nil:
				opening := *rows[i-1].closing
				r.opening = &opening
			case latestClosing != nil:
				opening := *latestClosing
				r.opening = &opening
			}
		}

		if r.closing == nil && r.opening != nil && r.change != nil {
			closing := *r.opening + *r.change
			r.closing = &closing
		}

		if r.opening == nil {
			r.opening = new(int)
		}
		if r.closing == nil {
			r.closing = new(int)
		}
		if r.change == nil {
			r.change = new(int)
		}
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
