package engine

import (
	"github.com/matchcore/engine/decimal"
	"github.com/matchcore/engine/internal/depthcache"
)

// DepthLevel is one aggregated, read-only entry in a BookSnapshot: a price,
// the total visible quantity resting there, and how many distinct orders
// contribute to it.
type DepthLevel struct {
	Price      decimal.FixedPoint
	Quantity   decimal.FixedPoint
	OrderCount int
}

// BookSnapshot is a point-in-time, top-of-book view suitable for external
// consumers (market data feeds, UIs) per §4.2.4/§4.3: up to depth levels per
// side, best price first, plus the derived spread and mid-price when both
// sides are non-empty.
type BookSnapshot struct {
	Instrument string
	Bids       []DepthLevel
	Asks       []DepthLevel

	HasSpread bool
	Spread    decimal.FixedPoint
	Mid       decimal.FixedPoint
}

// Snapshot returns up to depth levels per side from the published read
// model — a wait-free read, never touching the dispatch ring or the live
// skiplists. Aggregation reads the internal/depthcache view BookSide.Publish
// caches alongside the order-level read model, rather than rebuilding it
// from scratch on every call.
func (e *Engine) Snapshot(depth int) BookSnapshot {
	bidViews := e.bids.PublishedLevels()
	askViews := e.asks.PublishedLevels()

	snap := BookSnapshot{
		Instrument: e.instrument,
		Bids:       aggregateDepth(e.bids.PublishedDepth(), bidViews, depth),
		Asks:       aggregateDepth(e.asks.PublishedDepth(), askViews, depth),
	}

	if len(bidViews) == 0 || len(askViews) == 0 {
		return snap
	}

	bestBid := bidViews[0].price
	bestAsk := askViews[0].price

	if spread, ok := bestAsk.Sub(bestBid); ok {
		snap.Spread = spread
		snap.HasSpread = true
	}
	if sum, ok := bestBid.Add(bestAsk); ok {
		two, _ := decimal.FromInt64(2)
		if mid, ok := sum.DivTrunc(two); ok {
			snap.Mid = mid
		}
	}

	return snap
}

// DepthAt returns the published aggregated quantity resting at price on the
// given side, or zero if nothing rests there. Cheaper than Snapshot when a
// caller only needs liquidity at one price.
func (e *Engine) DepthAt(side Side, price decimal.FixedPoint) decimal.FixedPoint {
	return e.sideFor(side).PublishedDepth().Depth(price)
}

// DepthSnapshot returns a caller-owned copy of the published aggregated
// depth for side, independent of the engine's own cache: a caller is free to
// mutate it (e.g. to overlay synthetic liquidity) without affecting what
// future Snapshot/DepthAt calls see.
func (e *Engine) DepthSnapshot(side Side) *depthcache.Side {
	return e.sideFor(side).PublishedDepth().Clone()
}

func aggregateDepth(agg *depthcache.Side, views []levelView, depth int) []DepthLevel {
	orderCounts := make(map[int64]int, len(views))
	for _, v := range views {
		orderCounts[v.price.Mantissa()] = len(v.orders)
	}

	levels := agg.Levels(depth)
	out := make([]DepthLevel, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, DepthLevel{
			Price:      lvl.Price,
			Quantity:   lvl.Quantity,
			OrderCount: orderCounts[lvl.Price.Mantissa()],
		})
	}
	return out
}
