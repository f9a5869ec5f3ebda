// Package weekindex is the single authority for translating relative week
// offsets into ISO calendar weeks. Every component that needs to know which
// calendar week "week -2" or "week +5" means must go through one Index built
// for the request; recomputing the mapping with ad hoc date arithmetic is how
// the ledger and the projection drift apart.
package weekindex

import (
	"fmt"
	"time"
)

// Key identifies a calendar week by its ISO year and ISO week number
// (Monday-start, ISO 8601 year boundary).
type Key struct {
	ISOYear int `json:"iso_year"`
	ISOWeek int `json:"iso_week"`
}

// Index maps relative week offsets within an inclusive [From, To] range to
// ISO week keys. The mapping is a strict monotonic bijection over the range.
type Index struct {
	anchor time.Time
	from   int
	to     int
	keys   map[int]Key
	rel    map[Key]int
}

// New builds an Index for offsets [from, to] measured in whole weeks from
// anchor. The anchor must be a Monday so that week boundaries line up with
// ISO weeks.
func New(anchor time.Time, from, to int) (*Index, error) {
	if anchor.Weekday() != time.Monday {
		return nil, fmt.Errorf("weekindex: anchor %s is not a Monday", anchor.Format("2006-01-02"))
	}
	if from > to {
		return nil, fmt.Errorf("weekindex: invalid range [%d, %d]", from, to)
	}

	idx := &Index{
		anchor: anchor,
		from:   from,
		to:     to,
		keys:   make(map[int]Key, to-from+1),
		rel:    make(map[Key]int, to-from+1),
	}
	for w := from; w <= to; w++ {
		year, week := anchor.AddDate(0, 0, w*7).ISOWeek()
		key := Key{ISOYear: year, ISOWeek: week}
		idx.keys[w] = key
		idx.rel[key] = w
	}
	return idx, nil
}

// Slice returns a sub-index over [from, to] sharing this index's anchor and
// computed mapping, so a history-only view and the full history+forecast
// view can never disagree on what a given week means.
func (i *Index) Slice(from, to int) (*Index, error) {
	if from < i.from || to > i.to || from > to {
		return nil, fmt.Errorf("weekindex: slice [%d, %d] outside [%d, %d]", from, to, i.from, i.to)
	}
	sub := &Index{
		anchor: i.anchor,
		from:   from,
		to:     to,
		keys:   make(map[int]Key, to-from+1),
		rel:    make(map[Key]int, to-from+1),
	}
	for w := from; w <= to; w++ {
		key := i.keys[w]
		sub.keys[w] = key
		sub.rel[key] = w
	}
	return sub, nil
}

// Key returns the ISO week key for a relative week offset.
func (i *Index) Key(relativeWeek int) (Key, bool) {
	key, ok := i.keys[relativeWeek]
	return key, ok
}

// Relative returns the relative week offset for an ISO week key, if the key
// falls inside the configured range.
func (i *Index) Relative(key Key) (int, bool) {
	rel, ok := i.rel[key]
	return rel, ok
}

// Range returns the inclusive offset bounds the index was built for.
func (i *Index) Range() (from, to int) {
	return i.from, i.to
}

// Weeks returns the offsets of the range in ascending order.
func (i *Index) Weeks() []int {
	weeks := make([]int, 0, i.to-i.from+1)
	for w := i.from; w <= i.to; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}

// Keys returns the ISO week keys of the range in ascending offset order.
func (i *Index) Keys() []Key {
	keys := make([]Key, 0, i.to-i.from+1)
	for w := i.from; w <= i.to; w++ {
		keys = append(keys, i.keys[w])
	}
	return keys
}

// DateRange returns the first and last calendar day covered by the range:
// the Monday of the earliest week through the Sunday of the latest.
func (i *Index) DateRange() (start, end time.Time) {
	start = i.anchor.AddDate(0, 0, i.from*7)
	end = i.anchor.AddDate(0, 0, i.to*7+6)
	return start, end
}

// KeyOf returns the ISO week key of an arbitrary date.
func KeyOf(date time.Time) Key {
	year, week := date.ISOWeek()
	return Key{ISOYear: year, ISOWeek: week}
}
