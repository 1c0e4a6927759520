package engine

import "github.com/matchcore/engine/decimal"

// PriceTimePolicy implements §4.1.1: within a level, orders are served
// strictly in ascending engine_sequence order, each receiving
// min(its_remaining, incoming_remaining), until the incoming order is
// exhausted or the level's queue empties.
type PriceTimePolicy struct{}

// NewPriceTimePolicy returns the Price/Time (FIFO) allocation policy. It
// carries no parameters.
func NewPriceTimePolicy() *PriceTimePolicy {
	return &PriceTimePolicy{}
}

// Match implements AllocationPolicy.
func (p *PriceTimePolicy) Match(incoming *Order, levels []levelView, now int64) []ProposedFill {
	var proposals []ProposedFill
	remaining := incoming.Remaining()

	for _, lvl := range levels {
		if remaining.IsZero() {
			break
		}
		if !crosses(incoming, lvl.price) {
			break
		}

		for _, resting := range lvl.orders {
			if remaining.IsZero() {
				break
			}
			qty := decimal.Min(remaining, resting.Remaining())
			if qty.IsZero() {
				continue
			}
			proposals = append(proposals, ProposedFill{RestingOrder: resting, Qty: qty, Price: lvl.price})
			remaining, _ = remaining.Sub(qty)
		}
	}

	return proposals
}
