package engine

import "github.com/matchcore/engine/decimal"

// ProposedFill is one allocation decision produced by an AllocationPolicy:
// "propose that restingOrder fills qty at price". The engine, not the
// policy, commits it — via the resting order's atomic TryFill — so a
// proposal against an order that was concurrently cancelled or exhausted
// simply yields less than qty (or zero) at commit time.
type ProposedFill struct {
	RestingOrder *Order
	Qty          decimal.FixedPoint
	Price        decimal.FixedPoint
}

// AllocationPolicy walks the opposite side's book and proposes fills for an
// incoming order. Implementations never mutate resting orders or the book
// directly; they only read levelView snapshots and Order.Remaining()
// (advisory — the engine re-checks under CAS) and return proposals.
//
// The policy contract is identical for a live match and for a
// FillOrKill dry run: both call Match against a read-only []levelView
// (the published read model), so a dry run never has side effects of its
// own.
type AllocationPolicy interface {
	// Match proposes fills for incoming against levels, which are ordered
	// best-price-first per the opposite side's convention, working
	// incoming.Remaining(). The engine calls it once per submit with the
	// opposite side's whole published read model; implementations walk the
	// levels in order and stop at the first one that does not cross.
	Match(incoming *Order, levels []levelView, now int64) []ProposedFill
}

// crosses reports whether incoming, matched against a resting level at
// price, is marketable: Market orders always cross; Limit orders cross iff
// their limit price doesn't lose to the level (§4.1, "marketable
// condition").
func crosses(incoming *Order, price decimal.FixedPoint) bool {
	if incoming.Kind == Market {
		return true
	}
	if incoming.Side == Buy {
		return incoming.LimitPrice.GreaterThanOrEqual(price)
	}
	return incoming.LimitPrice.LessThanOrEqual(price)
}
