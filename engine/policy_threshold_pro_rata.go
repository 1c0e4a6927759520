package engine

import "github.com/matchcore/engine/decimal"

// ThresholdProRataPolicy implements §4.1.5: orders below Threshold are
// served FIFO first, in full, before the remaining demand is pro-rated
// across orders at or above Threshold.
type ThresholdProRataPolicy struct {
	Threshold decimal.FixedPoint
	MinQty    decimal.FixedPoint
	Lot       decimal.FixedPoint
}

// NewThresholdProRataPolicy returns the Threshold Pro-Rata policy.
func NewThresholdProRataPolicy(threshold, minQty decimal.FixedPoint) *ThresholdProRataPolicy {
	return &ThresholdProRataPolicy{Threshold: threshold, MinQty: minQty}
}

// Match implements AllocationPolicy.
func (p *ThresholdProRataPolicy) Match(incoming *Order, levels []levelView, now int64) []ProposedFill {
	var proposals []ProposedFill
	remaining := incoming.Remaining()

	for _, lvl := range levels {
		if remaining.IsZero() {
			break
		}
		if !crosses(incoming, lvl.price) {
			break
		}

		levelFills, consumed := p.matchLevel(lvl, remaining)
		proposals = append(proposals, levelFills...)
		remaining, _ = remaining.Sub(consumed)
	}

	return proposals
}

func (p *ThresholdProRataPolicy) matchLevel(lvl levelView, demand decimal.FixedPoint) ([]ProposedFill, decimal.FixedPoint) {
	local := make(map[*Order]decimal.FixedPoint, len(lvl.orders))
	for _, o := range lvl.orders {
		local[o] = o.Remaining()
	}
	remainingOf := func(o *Order) decimal.FixedPoint { return local[o] }

	var proposals []ProposedFill
	consumed := decimal.Zero
	remaining := demand

	// Serve the small bucket FIFO, in full, until it's exhausted or demand
	// runs out.
	for _, o := range lvl.orders {
		if remaining.IsZero() {
			break
		}
		if local[o].GreaterThanOrEqual(p.Threshold) {
			continue
		}
		qty := decimal.Min(remaining, local[o])
		if qty.IsZero() {
			continue
		}
		proposals = append(proposals, ProposedFill{RestingOrder: o, Qty: qty, Price: lvl.price})
		local[o], _ = local[o].Sub(qty)
		remaining, _ = remaining.Sub(qty)
		consumed, _ = consumed.Add(qty)
	}

	if remaining.IsZero() {
		return proposals, consumed
	}

	allocs := proRataAllocate(lvl.orders, remainingOf, remaining, p.MinQty, p.Lot)
	for _, a := range allocs {
		proposals = append(proposals, ProposedFill{RestingOrder: a.order, Qty: a.qty, Price: lvl.price})
		consumed, _ = consumed.Add(a.qty)
	}

	return proposals, consumed
}
