// Package alloc implements the shared pro-rata allocation math used by
// every allocation policy that needs to split a quantity across resting
// orders in proportion to their size: Pro-Rata, Pro-Rata with Top-of-Book
// FIFO, both passes of LMM Priority, and Threshold Pro-Rata.
//
// The allocation is floor(quantity * weight / totalWeight) per participant,
// computed with exact integer arithmetic (no float rounding), with any
// leftover from the floor division swept to participants in the order they
// are given, starting from the first. This matches the worked allocation
// examples in the book: the remainder always goes to earlier entries, never
// split further.
package alloc

import "math/big"

// Item is one participant in a pro-rata split: Weight is typically a resting
// order's remaining quantity, and Handle lets the caller map an allocation
// back to the order it belongs to.
type Item[T any] struct {
	Weight int64
	Handle T
}

// Allocate splits quantity across items in proportion to their Weight,
// using floor division and sweeping the remainder to items in slice order.
// Returns one allocation per item, in the same order as items. Panics if
// quantity is negative or any weight is negative; returns all zeros if the
// total weight is zero.
func Allocate[T any](quantity int64, items []Item[T]) []int64 {
	if quantity < 0 {
		panic("alloc: negative quantity")
	}

	out := make([]int64, len(items))

	var totalWeight int64
	for _, it := range items {
		if it.Weight < 0 {
			panic("alloc: negative weight")
		}
		totalWeight += it.Weight
	}
	if totalWeight == 0 || quantity == 0 {
		return out
	}

	total := big.NewInt(totalWeight)
	q := big.NewInt(quantity)

	var allocated int64
	for i, it := range items {
		if it.Weight == 0 {
			continue
		}
		share := new(big.Int).Mul(q, big.NewInt(it.Weight))
		share.Quo(share, total)
		out[i] = share.Int64()
		allocated += out[i]
	}

	remainder := quantity - allocated
	sweepRemainder(out, items, remainder)

	return out
}

// sweepRemainder hands the leftover quantity to items in order. The
// remainder from a single floor-division pass over N items is always < N,
// so one pass giving each eligible (non-zero weight) item at most one extra
// unit, starting from the first, is enough to exhaust it.
func sweepRemainder[T any](out []int64, items []Item[T], remainder int64) {
	for i := 0; remainder > 0 && i < len(items); i++ {
		if items[i].Weight == 0 {
			continue
		}
		out[i]++
		remainder--
	}
}
