package engine

import (
	"github.com/matchcore/engine/decimal"
	"github.com/matchcore/engine/internal/alloc"
)

// orderAllocation is one (order, quantity) pair produced by proRataAllocate,
// before the caller wraps it into a ProposedFill with a trade price.
type orderAllocation struct {
	order *Order
	qty   decimal.FixedPoint
}

// proRataAllocate implements the shared core of §4.1.2 (and, by extension,
// the pro-rata portion of §4.1.3, §4.1.4 and §4.1.5): split demand across
// orders in proportion to weight (remainingOf(o)), where only orders with
// weight >= minQty participate in the proportional pass. Quantization to
// lot happens per allocation; an allocation reduced below minQty by lot
// truncation is dropped back into the pool. Whatever demand the
// proportional pass didn't place — because of drops, truncation, or
// because total eligible weight was less than demand — is swept across
// the full order list (small and large alike) in FIFO order, each order
// taking up to its remaining spare capacity, until the sweep exhausts
// demand or every order's capacity.
//
// orders must be given in the level's FIFO arrival order: that order
// governs both which order the proportional pass skips (weight < minQty)
// and which order the FIFO sweep visits first.
func proRataAllocate(orders []*Order, remainingOf func(*Order) decimal.FixedPoint, demand, minQty, lot decimal.FixedPoint) []orderAllocation {
	if demand.IsZero() || len(orders) == 0 {
		return nil
	}

	weight := make(map[*Order]int64, len(orders))
	var totalEligible int64
	var eligible []alloc.Item[*Order]
	for _, o := range orders {
		r := remainingOf(o)
		weight[o] = r.Mantissa()
		if r.GreaterThanOrEqual(minQty) {
			totalEligible += r.Mantissa()
			eligible = append(eligible, alloc.Item[*Order]{Weight: r.Mantissa(), Handle: o})
		}
	}

	demandMantissa := demand.Mantissa()
	qLevel := demandMantissa
	if totalEligible > 0 && totalEligible < qLevel {
		qLevel = totalEligible
	}
	if totalEligible == 0 {
		qLevel = 0
	}

	allocated := make(map[*Order]int64, len(orders))
	var allocatedSum int64

	if qLevel > 0 {
		// alloc.Allocate floor-divides qLevel across the eligible set and
		// sweeps its own rounding remainder to the earliest eligible items,
		// so the sum here always equals qLevel exactly before quantization.
		shares := alloc.Allocate(qLevel, eligible)
		for i, it := range eligible {
			qty := decimal.FromMantissa(shares[i]).TruncateToLot(lot)
			if qty.IsZero() || qty.LessThan(minQty) {
				continue // quantization pushed this allocation under the floor (or to zero); return it to the pool
			}
			allocated[it.Handle] = qty.Mantissa()
			allocatedSum += qty.Mantissa()
		}
	}

	leftover := demandMantissa - allocatedSum
	if leftover > 0 {
		for _, o := range orders {
			if leftover <= 0 {
				break
			}
			avail := weight[o] - allocated[o]
			if avail <= 0 {
				continue
			}
			take := avail
			if take > leftover {
				take = leftover
			}
			allocated[o] += take
			leftover -= take
		}
	}

	out := make([]orderAllocation, 0, len(orders))
	for _, o := range orders {
		if q := allocated[o]; q > 0 {
			out = append(out, orderAllocation{order: o, qty: decimal.FromMantissa(q)})
		}
	}
	return out
}
