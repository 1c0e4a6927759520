package engine

import (
	"sync/atomic"

	"github.com/matchcore/engine/decimal"
)

// orderState is the order's full mutable state, swapped in one
// compare-and-swap. Bundling remaining quantity and status into a single
// pointer is the Go-idiomatic equivalent of the spec's "single atomic
// status word": a concurrent cancel can never observe (or win against) a
// half-applied fill, because both fields change together or not at all.
type orderState struct {
	remaining decimal.FixedPoint
	status    Status
}

// Order is one resting or incoming order. Immutable fields are set once at
// construction; state (remaining quantity + status) is mutated only through
// TryFill/TryCancel and the engine's accept/reject/expire transitions, all
// of which go through the CAS loop on the state pointer.
//
// Levels own a shared reference to an Order's handle (this package's
// *Order) and so does the order index; neither holds a back-pointer to the
// other, matching the spec's no-cyclic-reference note. Orders carry prev/
// next pointers for their own intrusive FIFO position within a price level
// (see level.go) but never reference the level itself.
type Order struct {
	ID                string
	AccountID         string
	Instrument        string
	Side              Side
	Kind              OrderType
	LimitPrice        decimal.FixedPoint // valid iff Kind == Limit
	OriginalQuantity  decimal.FixedPoint
	TimeInForce       TimeInForce
	Visibility        Visibility
	CreationTimestamp int64

	state          atomic.Pointer[orderState]
	engineSequence atomic.Int64 // 0 until assigned exactly once

	// prev/next position this order within its price level's intrusive
	// FIFO list. Only the linearization goroutine touches these.
	prev, next *Order
}

// NewOrder constructs an Order in the Pending state with remaining quantity
// equal to OriginalQuantity. It does not validate the fields — Engine.Submit
// does that and rejects invalid orders before they become visible.
func NewOrder(id, accountID, instrument string, side Side, kind OrderType, limitPrice, qty decimal.FixedPoint, tif TimeInForce, visibility Visibility, now int64) *Order {
	o := &Order{
		ID:                id,
		AccountID:         accountID,
		Instrument:        instrument,
		Side:              side,
		Kind:              kind,
		LimitPrice:        limitPrice,
		OriginalQuantity:  qty,
		TimeInForce:       tif,
		Visibility:        visibility,
		CreationTimestamp: now,
	}
	o.state.Store(&orderState{remaining: qty, status: Pending})
	return o
}

// IsMarketOrder reports whether the order is a Market order.
func (o *Order) IsMarketOrder() bool { return o.Kind == Market }

// IsLimitOrder reports whether the order is a Limit order.
func (o *Order) IsLimitOrder() bool { return o.Kind == Limit }

// Remaining returns the current remaining quantity.
func (o *Order) Remaining() decimal.FixedPoint {
	return o.state.Load().remaining
}

// StatusValue returns the current status.
func (o *Order) StatusValue() Status {
	return o.state.Load().status
}

// EngineSequence returns the sequence number assigned at acceptance, or 0
// if the order has not yet been accepted.
func (o *Order) EngineSequence() int64 {
	return o.engineSequence.Load()
}

// assignSequence sets the engine sequence exactly once. A second call is a
// programming error (the engine never issues one) and is a silent no-op
// rather than a panic, since by construction it never happens.
func (o *Order) assignSequence(seq int64) {
	o.engineSequence.CompareAndSwap(0, seq)
}

// accept transitions Pending -> Accepted. Returns false if the order was
// not Pending (should never happen given the engine's call discipline).
func (o *Order) accept() bool {
	for {
		cur := o.state.Load()
		if cur.status != Pending {
			return false
		}
		next := &orderState{remaining: cur.remaining, status: Accepted}
		if o.state.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// reject transitions Pending -> Rejected.
func (o *Order) reject() bool {
	for {
		cur := o.state.Load()
		if cur.status != Pending {
			return false
		}
		next := &orderState{remaining: cur.remaining, status: Rejected}
		if o.state.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// TryFill attempts to consume up to requested from the order's remaining
// quantity. It returns the actual amount filled, which is 0 if the order is
// already in a terminal state (the tombstone case: a concurrent cancel won,
// or the order was already fully filled). The resulting status becomes
// PartiallyFilled or Filled as appropriate: a total fill moves an Accepted
// order directly to Filled, without passing through PartiallyFilled.
func (o *Order) TryFill(requested decimal.FixedPoint) decimal.FixedPoint {
	for {
		cur := o.state.Load()
		if cur.status.IsTerminal() {
			return decimal.Zero
		}

		actual := decimal.Min(requested, cur.remaining)
		if actual.IsZero() {
			return decimal.Zero
		}

		newRemaining, ok := cur.remaining.Sub(actual)
		if !ok {
			return decimal.Zero
		}

		newStatus := PartiallyFilled
		if newRemaining.IsZero() {
			newStatus = Filled
		}

		next := &orderState{remaining: newRemaining, status: newStatus}
		if o.state.CompareAndSwap(cur, next) {
			return actual
		}
		// Lost the race to a concurrent fill or cancel; re-examine current
		// state and retry, per the spec's RaceLost handling.
	}
}

// TryCancel transitions the order to Cancelled if it is currently Accepted
// or PartiallyFilled. Returns false (AlreadyTerminal, from the caller's
// point of view) if the order is already in a terminal state.
func (o *Order) TryCancel() bool {
	for {
		cur := o.state.Load()
		if cur.status != Accepted && cur.status != PartiallyFilled {
			return false
		}
		next := &orderState{remaining: cur.remaining, status: Cancelled}
		if o.state.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// expire transitions Accepted/PartiallyFilled Day orders to Expired, used
// by Engine.EndOfDay. Mirrors TryCancel's CAS discipline.
func (o *Order) expire() bool {
	for {
		cur := o.state.Load()
		if cur.status != Accepted && cur.status != PartiallyFilled {
			return false
		}
		next := &orderState{remaining: cur.remaining, status: Expired}
		if o.state.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// VisibleQuantity returns the quantity this order contributes to a depth
// snapshot: full remaining for Visible, zero for Hidden, and
// min(remaining, display) for Iceberg — carried over verbatim from the
// original Rust implementation's get_visible_quantity, which the spec
// names but does not itself define precisely.
func (o *Order) VisibleQuantity() decimal.FixedPoint {
	remaining := o.Remaining()
	switch o.Visibility.Kind {
	case Hidden:
		return decimal.Zero
	case Iceberg:
		return decimal.Min(remaining, o.Visibility.DisplayQty)
	default:
		return remaining
	}
}
