package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matchcore/engine/decimal"
)

func TestProRataS3Allocation(t *testing.T) {
	a := mkRestingOrder("A", "4500", "50", 1)
	b := mkRestingOrder("B", "4500", "100", 2)
	c := mkRestingOrder("C", "4500", "150", 3)
	levels := []levelView{viewOf("4500", a, b, c)}

	incoming := NewOrder("in", "taker", "XYZ", Buy, Limit, decimal.MustParse("4500"), decimal.MustParse("150"), GoodTillCancel, VisibleOnly, 4)

	policy := NewProRataPolicy(decimal.MustParse("10"))
	proposals := policy.Match(incoming, levels, 0)

	qa, _ := allocResult(toAllocations(proposals), a)
	qb, _ := allocResult(toAllocations(proposals), b)
	qc, _ := allocResult(toAllocations(proposals), c)
	assert.True(t, qa.Equal(decimal.MustParse("25")))
	assert.True(t, qb.Equal(decimal.MustParse("50")))
	assert.True(t, qc.Equal(decimal.MustParse("75")))
}

func TestProRataS4TopOfBookFIFO(t *testing.T) {
	a := mkRestingOrder("A", "100", "10", 1)
	b := mkRestingOrder("B", "100", "100", 2)
	c := mkRestingOrder("C", "100", "200", 3)
	levels := []levelView{viewOf("100", a, b, c)}

	incoming := NewOrder("in", "taker", "XYZ", Buy, Limit, decimal.MustParse("100"), decimal.MustParse("110"), GoodTillCancel, VisibleOnly, 4)

	policy := NewProRataTopOfBookFIFOPolicy(decimal.MustParse("10"))
	proposals := policy.Match(incoming, levels, 0)

	allocs := toAllocations(proposals)
	qa, _ := allocResult(allocs, a)
	qb, _ := allocResult(allocs, b)
	qc, _ := allocResult(allocs, c)
	assert.True(t, qa.Equal(decimal.MustParse("10")))
	assert.True(t, qb.Equal(decimal.MustParse("34")))
	assert.True(t, qc.Equal(decimal.MustParse("66")))
}

func toAllocations(proposals []ProposedFill) []orderAllocation {
	merged := make(map[*Order]decimal.FixedPoint)
	var order []*Order
	for _, p := range proposals {
		if _, ok := merged[p.RestingOrder]; !ok {
			order = append(order, p.RestingOrder)
		}
		sum, _ := merged[p.RestingOrder].Add(p.Qty)
		merged[p.RestingOrder] = sum
	}
	out := make([]orderAllocation, 0, len(order))
	for _, o := range order {
		out = append(out, orderAllocation{order: o, qty: merged[o]})
	}
	return out
}
