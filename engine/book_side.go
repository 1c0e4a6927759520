package engine

import (
	"sync/atomic"

	"github.com/huandu/skiplist"

	"github.com/matchcore/engine/decimal"
	"github.com/matchcore/engine/internal/depthcache"
)

// levelView is one immutable, point-in-time view of a price level, used by
// the published read model for wait-free snapshot reads and by the
// FillOrKill dry run.
type levelView struct {
	price   decimal.FixedPoint
	orders  []*Order // live orders only, FIFO order, snapshotted at publish time
	visible decimal.FixedPoint
}

// BookSide is the price-ordered index of levels for one side of the book:
// ascending price order for asks (best = lowest), descending for bids
// (best = highest). Grounded on the teacher's queue type (queue.go), with
// huandu/skiplist again providing the ordered index.
//
// All mutation happens on the engine's single linearization goroutine
// (§5); BookSide itself does no locking. Wait-free concurrent reads are
// served from a separately published, immutable []levelView slice (see
// Publish and PublishedLevels below), never from the skiplist directly.
type BookSide struct {
	side Side

	index     *skiplist.SkipList            // key: price mantissa (int64), value: *priceLevel
	byPrice   map[int64]*skiplist.Element    // price mantissa -> element, for O(1) level lookup
	byOrderID map[string]*priceLevel         // order id -> its level, for O(1) level lookup on Remove
	count     int

	published atomic.Pointer[[]levelView]
	depth     atomic.Pointer[depthcache.Side]
}

// NewBookSide constructs an empty BookSide for side: the Sell (ask) side
// keeps levels lowest price first, the Buy (bid) side highest price first.
func NewBookSide(side Side) *BookSide {
	var cmp skiplist.Comparable
	if side == Sell {
		cmp = skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			return cmpMantissa(lhs.(int64), rhs.(int64))
		})
	} else {
		cmp = skiplist.LessThanFunc(func(lhs, rhs any) int {
			return cmpMantissa(lhs.(int64), rhs.(int64))
		})
	}

	bs := &BookSide{
		side:      side,
		index:     skiplist.New(cmp),
		byPrice:   make(map[int64]*skiplist.Element),
		byOrderID: make(map[string]*priceLevel),
	}
	empty := []levelView{}
	bs.published.Store(&empty)
	bs.depth.Store(depthcache.NewSide(side == Sell))
	return bs
}

func cmpMantissa(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// BestLevel returns the best (first, per the side's ordering) price level,
// or nil if the side is empty.
func (bs *BookSide) bestLevel() *priceLevel {
	el := bs.index.Front()
	if el == nil {
		return nil
	}
	return el.Value.(*priceLevel)
}

// levelAt returns the level at price, creating it if absent.
func (bs *BookSide) levelAt(price decimal.FixedPoint) *priceLevel {
	m := price.Mantissa()
	if el, ok := bs.byPrice[m]; ok {
		return el.Value.(*priceLevel)
	}
	lvl := newPriceLevel(price)
	el := bs.index.Set(m, lvl)
	bs.byPrice[m] = el
	return lvl
}

// Insert places o into its own side's book at o.LimitPrice, creating the
// level if needed, and records it in the order index.
func (bs *BookSide) Insert(o *Order) {
	lvl := bs.levelAt(o.LimitPrice)
	lvl.pushBack(o)
	bs.byOrderID[o.ID] = lvl
	bs.count++
}

// Remove physically unlinks o from its level and the order index, removing
// the level too if it becomes empty. Safe to call on an order already
// unlinked (no-op).
func (bs *BookSide) Remove(o *Order) {
	lvl, ok := bs.byOrderID[o.ID]
	if !ok {
		return
	}
	lvl.remove(o)
	delete(bs.byOrderID, o.ID)
	bs.count--

	if lvl.isEmpty() {
		bs.removeLevel(lvl.price)
	}
}

func (bs *BookSide) removeLevel(price decimal.FixedPoint) {
	m := price.Mantissa()
	el, ok := bs.byPrice[m]
	if !ok {
		return
	}
	bs.index.RemoveElement(el)
	delete(bs.byPrice, m)
}

// Count returns the number of live orders resting on this side.
func (bs *BookSide) Count() int { return bs.count }

// Levels walks the skiplist from best price, invoking fn for each level in
// order, gc-ing tombstoned orders from each level as it is visited (the
// lazy-GC point named in §4.2.2), and removing levels left empty by that
// GC. fn returning false stops the walk early.
func (bs *BookSide) Levels(fn func(lvl *priceLevel) bool) {
	el := bs.index.Front()
	for el != nil {
		lvl := el.Value.(*priceLevel)
		next := el.Next()

		lvl.gcTombstones()
		if lvl.isEmpty() {
			bs.index.RemoveElement(el)
			delete(bs.byPrice, lvl.price.Mantissa())
			el = next
			continue
		}

		if !fn(lvl) {
			return
		}
		el = next
	}
}

// Publish rebuilds the immutable read model from current book state and
// swaps it into the atomic pointer. Called once at the end of every
// mutating engine operation (§4). Readers calling PublishedLevels (Snapshot,
// and the policies' Match during submit) never observe a torn skiplist mutation because they only ever touch the
// published slice.
//
// It also rebuilds the aggregated internal/depthcache view used by
// Engine.Snapshot and single-price depth queries, so both the per-order and
// the per-price read models advance together on every publish.
func (bs *BookSide) Publish() {
	views := make([]levelView, 0, bs.index.Len())
	agg := depthcache.NewSide(bs.side == Sell)
	el := bs.index.Front()
	for el != nil {
		lvl := el.Value.(*priceLevel)
		orders := make([]*Order, 0, lvl.count)
		visible := decimal.Zero
		for o := lvl.head; o != nil; o = o.next {
			if o.StatusValue().IsTerminal() {
				continue
			}
			orders = append(orders, o)
			if v, ok := visible.Add(o.VisibleQuantity()); ok {
				visible = v
			}
		}
		if len(orders) > 0 {
			views = append(views, levelView{price: lvl.price, orders: orders, visible: visible})
			agg.Set(lvl.price, visible)
		}
		el = el.Next()
	}
	bs.published.Store(&views)
	bs.depth.Store(agg)
}

// PublishedLevels returns the most recently published read-model snapshot.
// Wait-free: never blocks on or observes an in-progress mutation.
func (bs *BookSide) PublishedLevels() []levelView {
	return *bs.published.Load()
}

// PublishedDepth returns the most recently published aggregated depth view.
// Wait-free, same as PublishedLevels.
func (bs *BookSide) PublishedDepth() *depthcache.Side {
	return bs.depth.Load()
}
