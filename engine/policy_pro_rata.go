package engine

import "github.com/matchcore/engine/decimal"

// ProRataPolicy implements §4.1.2 and, via TopOfBookFIFO, its §4.1.3
// specialization.
type ProRataPolicy struct {
	MinQty        decimal.FixedPoint
	TopOfBookFIFO bool
	Lot           decimal.FixedPoint
}

// NewProRataPolicy returns the plain pro-rata policy (§4.1.2).
func NewProRataPolicy(minQty decimal.FixedPoint) *ProRataPolicy {
	return &ProRataPolicy{MinQty: minQty, Lot: decimal.One}
}

// NewProRataTopOfBookFIFOPolicy returns the §4.1.3 specialization: the
// first FIFO order at a level is served to exhaustion before the
// remainder is pro-rated across the rest of the level.
func NewProRataTopOfBookFIFOPolicy(minQty decimal.FixedPoint) *ProRataPolicy {
	return &ProRataPolicy{MinQty: minQty, TopOfBookFIFO: true, Lot: decimal.One}
}

// Match implements AllocationPolicy.
func (p *ProRataPolicy) Match(incoming *Order, levels []levelView, now int64) []ProposedFill {
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

func (p *ProRataPolicy) matchLevel(lvl levelView, demand decimal.FixedPoint) ([]ProposedFill, decimal.FixedPoint) {
	local := make(map[*Order]decimal.FixedPoint, len(lvl.orders))
	for _, o := range lvl.orders {
		local[o] = o.Remaining()
	}
	remainingOf := func(o *Order) decimal.FixedPoint { return local[o] }

	var proposals []ProposedFill
	consumed := decimal.Zero

	if p.TopOfBookFIFO && len(lvl.orders) > 0 {
		first := lvl.orders[0]
		firstQty := decimal.Min(demand, local[first])
		if !firstQty.IsZero() {
			proposals = append(proposals, ProposedFill{RestingOrder: first, Qty: firstQty, Price: lvl.price})
			local[first], _ = local[first].Sub(firstQty)
			consumed, _ = consumed.Add(firstQty)
		}
	}

	residual, _ := demand.Sub(consumed)
	allocs := proRataAllocate(lvl.orders, remainingOf, residual, p.MinQty, p.Lot)
	for _, a := range allocs {
		proposals = append(proposals, ProposedFill{RestingOrder: a.order, Qty: a.qty, Price: lvl.price})
		consumed, _ = consumed.Add(a.qty)
	}

	return proposals, consumed
}
