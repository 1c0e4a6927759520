package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matchcore/engine/decimal"
)

func TestLMMPriorityS5(t *testing.T) {
	mm1 := NewOrder("mm1", "mm1", "XYZ", Sell, Limit, decimal.MustParse("50000"), decimal.MustParse("50"), GoodTillCancel, VisibleOnly, 1)
	mm1.accept()
	mm1.assignSequence(1)
	retail := NewOrder("retail", "retailAcct", "XYZ", Sell, Limit, decimal.MustParse("50000"), decimal.MustParse("100"), GoodTillCancel, VisibleOnly, 2)
	retail.accept()
	retail.assignSequence(2)

	levels := []levelView{viewOf("50000", mm1, retail)}

	incoming := NewOrder("in", "taker", "XYZ", Buy, Limit, decimal.MustParse("50000"), decimal.MustParse("100"), GoodTillCancel, VisibleOnly, 3)

	policy := NewLMMPriorityPolicy([]string{"mm1"}, decimal.MustParse("0.4"), decimal.MustParse("10"))
	proposals := policy.Match(incoming, levels, 0)

	allocs := toAllocations(proposals)
	qMM1, _ := allocResult(allocs, mm1)
	qRetail, _ := allocResult(allocs, retail)
	assert.True(t, qMM1.Equal(decimal.MustParse("46")), "mm1 got %s", qMM1)
	assert.True(t, qRetail.Equal(decimal.MustParse("54")), "retail got %s", qRetail)
}
