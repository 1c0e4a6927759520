package engine

import "github.com/matchcore/engine/decimal"

// LMMPriorityPolicy implements §4.1.4: a two-pass allocation that reserves
// a configured percentage of each level's demand for designated Lead
// Market Maker accounts before running a general pro-rata pass across
// everyone (LMM accounts included) on the remainder.
type LMMPriorityPolicy struct {
	LMMAccounts map[string]bool
	LmmPct      decimal.FixedPoint // in [0,1]
	MinQty      decimal.FixedPoint
	Lot         decimal.FixedPoint
}

// NewLMMPriorityPolicy returns the LMM Priority policy for the given
// account set and parameters.
func NewLMMPriorityPolicy(lmmAccounts []string, lmmPct, minQty decimal.FixedPoint) *LMMPriorityPolicy {
	set := make(map[string]bool, len(lmmAccounts))
	for _, a := range lmmAccounts {
		set[a] = true
	}
	return &LMMPriorityPolicy{LMMAccounts: set, LmmPct: lmmPct, MinQty: minQty, Lot: decimal.One}
}

// Match implements AllocationPolicy.
func (p *LMMPriorityPolicy) Match(incoming *Order, levels []levelView, now int64) []ProposedFill {
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

func (p *LMMPriorityPolicy) matchLevel(lvl levelView, demand decimal.FixedPoint) ([]ProposedFill, decimal.FixedPoint) {
	local := make(map[*Order]decimal.FixedPoint, len(lvl.orders))
	for _, o := range lvl.orders {
		local[o] = o.Remaining()
	}
	remainingOf := func(o *Order) decimal.FixedPoint { return local[o] }

	var proposals []ProposedFill
	consumed := decimal.Zero

	// Pass 1: reserve lmm_pct of the level's demand for LMM accounts only.
	qLmm, _ := demand.MulTrunc(p.LmmPct)
	qLmm = qLmm.TruncateToLot(p.Lot)

	var lmmOrders []*Order
	for _, o := range lvl.orders {
		if p.LMMAccounts[o.AccountID] {
			lmmOrders = append(lmmOrders, o)
		}
	}

	pass1 := proRataAllocate(lmmOrders, remainingOf, qLmm, p.MinQty, p.Lot)
	for _, a := range pass1 {
		proposals = append(proposals, ProposedFill{RestingOrder: a.order, Qty: a.qty, Price: lvl.price})
		local[a.order], _ = local[a.order].Sub(a.qty)
		consumed, _ = consumed.Add(a.qty)
	}

	// Pass 2: general pro-rata across everyone on the remaining demand.
	residual, _ := demand.Sub(consumed)
	pass2 := proRataAllocate(lvl.orders, remainingOf, residual, p.MinQty, p.Lot)
	for _, a := range pass2 {
		proposals = append(proposals, ProposedFill{RestingOrder: a.order, Qty: a.qty, Price: lvl.price})
		consumed, _ = consumed.Add(a.qty)
	}

	return proposals, consumed
}
