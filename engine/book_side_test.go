package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchcore/engine/decimal"
)

func mkRestingOrder(id, price, qty string, seq int64) *Order {
	o := NewOrder(id, "acct", "XYZ", Sell, Limit, decimal.MustParse(price), decimal.MustParse(qty), GoodTillCancel, VisibleOnly, seq)
	o.accept()
	o.assignSequence(seq)
	return o
}

func TestBookSideAskOrderingAscending(t *testing.T) {
	bs := NewBookSide(Sell)
	bs.Insert(mkRestingOrder("a", "12", "1", 1))
	bs.Insert(mkRestingOrder("b", "10", "1", 2))
	bs.Insert(mkRestingOrder("c", "11", "1", 3))

	var prices []string
	bs.Levels(func(lvl *priceLevel) bool {
		prices = append(prices, lvl.price.String())
		return true
	})
	assert.Equal(t, []string{"10", "11", "12"}, prices)
}

func TestBookSideBidOrderingDescending(t *testing.T) {
	bs := NewBookSide(Buy)
	bs.Insert(mkRestingOrder("a", "9", "1", 1))
	bs.Insert(mkRestingOrder("b", "11", "1", 2))
	bs.Insert(mkRestingOrder("c", "10", "1", 3))

	var prices []string
	bs.Levels(func(lvl *priceLevel) bool {
		prices = append(prices, lvl.price.String())
		return true
	})
	assert.Equal(t, []string{"11", "10", "9"}, prices)
}

func findLevel(bs *BookSide, price decimal.FixedPoint) (*priceLevel, bool) {
	var found *priceLevel
	bs.Levels(func(lvl *priceLevel) bool {
		if lvl.price.Equal(price) {
			found = lvl
			return false
		}
		return true
	})
	return found, found != nil
}

func TestBookSideInsertGroupsSamePriceFIFO(t *testing.T) {
	bs := NewBookSide(Sell)
	a := mkRestingOrder("a", "10", "1", 1)
	b := mkRestingOrder("b", "10", "1", 2)
	bs.Insert(a)
	bs.Insert(b)

	lvl, ok := findLevel(bs, decimal.MustParse("10"))
	require.True(t, ok)
	assert.Equal(t, a, lvl.head)
	assert.Equal(t, b, lvl.tail)
	assert.Equal(t, 2, lvl.count)
}

func TestBookSideRemoveEmptiesLevel(t *testing.T) {
	bs := NewBookSide(Sell)
	a := mkRestingOrder("a", "10", "1", 1)
	bs.Insert(a)
	bs.Remove(a)

	_, ok := findLevel(bs, decimal.MustParse("10"))
	assert.False(t, ok)
	assert.Equal(t, 0, bs.Count())
}

func TestBookSideLevelsGCsTombstonedOrders(t *testing.T) {
	bs := NewBookSide(Sell)
	a := mkRestingOrder("a", "10", "1", 1)
	b := mkRestingOrder("b", "10", "1", 2)
	bs.Insert(a)
	bs.Insert(b)

	a.TryCancel()

	var seen []string
	bs.Levels(func(lvl *priceLevel) bool {
		for o := lvl.head; o != nil; o = o.next {
			seen = append(seen, o.ID)
		}
		return true
	})
	assert.Equal(t, []string{"b"}, seen)
}

func TestBookSidePublishReflectsVisibleOrdersOnly(t *testing.T) {
	bs := NewBookSide(Sell)
	a := mkRestingOrder("a", "10", "5", 1)
	bs.Insert(a)
	bs.Publish()

	views := bs.PublishedLevels()
	require.Len(t, views, 1)
	assert.True(t, views[0].visible.Equal(decimal.MustParse("5")))

	a.TryCancel()
	bs.Publish()
	assert.Len(t, bs.PublishedLevels(), 0)
}
