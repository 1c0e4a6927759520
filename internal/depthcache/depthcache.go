// Package depthcache maintains an aggregated price -> quantity view of one
// side of the book, ordered by price, for cheap depth-snapshot reads. It is
// rebuilt from the book's published read-model rather than incrementally
// patched, so it carries no correctness burden beyond "reflect the last
// snapshot it was given."
//
// Grounded on an aggregated order-book view built for downstream consumers
// that only need price/size pairs, not full order detail, backed by an
// ordered tree map rather than a plain map so depth can be walked in price
// order without a sort step.
package depthcache

import (
	"github.com/igrmk/treemap/v2"

	"github.com/matchcore/engine/decimal"
)

// Level is one aggregated price level: a price and the total resting
// quantity at that price.
type Level struct {
	Price    decimal.FixedPoint
	Quantity decimal.FixedPoint
}

// Side is an aggregated, price-ordered view of one book side (bid or ask).
// Not safe for concurrent use; callers publish a fresh Side after each
// mutating engine operation via an atomic.Pointer swap, the same pattern
// used for the book's order-level read-model.
type Side struct {
	levels *treemap.TreeMap[decimal.FixedPoint, decimal.FixedPoint]
	// ascending controls iteration order: true for asks (best = lowest
	// price first), false for bids (best = highest price first).
	ascending bool
}

// NewSide returns an empty aggregated side. ascending should be true for the
// ask side and false for the bid side, so Levels() always yields best price
// first regardless of which side it is.
func NewSide(ascending bool) *Side {
	return &Side{
		levels: treemap.NewWithKeyCompare[decimal.FixedPoint, decimal.FixedPoint](
			func(a, b decimal.FixedPoint) bool { return a.LessThan(b) },
		),
		ascending: ascending,
	}
}

// Set records the aggregated quantity at price. A zero quantity removes the
// level entirely, matching the semantics of a price level that has been
// fully drained.
func (s *Side) Set(price, quantity decimal.FixedPoint) {
	if quantity.IsZero() {
		s.levels.Del(price)
		return
	}
	s.levels.Set(price, quantity)
}

// Depth returns the aggregated quantity at price, or zero if the price has
// no resting quantity.
func (s *Side) Depth(price decimal.FixedPoint) decimal.FixedPoint {
	if q, ok := s.levels.Get(price); ok {
		return q
	}
	return decimal.Zero
}

// Len returns the number of distinct price levels.
func (s *Side) Len() int { return s.levels.Len() }

// Levels returns up to limit price levels, best price first. limit<=0 means
// unlimited.
func (s *Side) Levels(limit int) []Level {
	out := make([]Level, 0, s.levels.Len())

	if s.ascending {
		for it := s.levels.Iterator(); it.Valid(); it.Next() {
			out = append(out, Level{Price: it.Key(), Quantity: it.Value()})
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return out
	}

	for it := s.levels.Iterator(); it.Valid(); it.Next() {
		out = append(out, Level{Price: it.Key(), Quantity: it.Value()})
	}
	reverseInPlace(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func reverseInPlace(levels []Level) {
	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}
}

// Clone returns a deep-enough copy suitable for independent mutation; the
// returned Side shares no state with s.
func (s *Side) Clone() *Side {
	clone := NewSide(s.ascending)
	for it := s.levels.Iterator(); it.Valid(); it.Next() {
		clone.levels.Set(it.Key(), it.Value())
	}
	return clone
}
