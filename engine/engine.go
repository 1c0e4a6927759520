package engine

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/matchcore/engine/decimal"
	"github.com/matchcore/engine/internal/dispatch"
	"github.com/matchcore/engine/internal/structure"
)

// Engine is a single-instrument matching engine: two price-ordered book
// sides, an order index, a sequence counter, a configured allocation
// policy, and an event sink. All mutating operations funnel through a
// single-consumer dispatch ring (internal/dispatch), the engine's
// linearization point per §5 — this is the only place book state changes,
// so no mutex is needed around the book sides themselves.
type Engine struct {
	instrument string
	policy     AllocationPolicy
	sink       EventSink

	bids *BookSide
	asks *BookSide

	index *structure.OrderIndex[*Order]

	sequence int64 // only ever touched on the dispatch goroutine

	ring *dispatch.Ring[*command]
}

type commandKind int8

const (
	cmdSubmit commandKind = iota + 1
	cmdCancel
	cmdEndOfDay
)

type command struct {
	kind     commandKind
	order    *Order
	cancelID string
	now      int64
	done     chan []OrderEvent
}

// NewEngine constructs an Engine for instrument, using policy for matching
// and sink to receive the event stream. Mirrors the external surface named
// in §6 (Engine::new(instrument, policy, event_sink)).
func NewEngine(instrument string, policy AllocationPolicy, sink EventSink) *Engine {
	if sink == nil {
		sink = NoopSink{}
	}
	e := &Engine{
		instrument: instrument,
		policy:     policy,
		sink:       sink,
		bids:       NewBookSide(Buy),
		asks:       NewBookSide(Sell),
		index:      structure.NewOrderIndex[*Order](),
	}
	e.ring = dispatch.NewRing[*command](1024, dispatch.HandlerFunc[*command](e.onCommand))
	e.ring.Start()
	return e
}

// Close stops accepting new commands and waits for any already-published
// command to finish, or until ctx is done. Callers that don't need a
// specific deadline can pass context.Background(); Close applies
// defaultShutdownTimeout itself in that case.
func (e *Engine) Close(ctx context.Context) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultShutdownTimeout)
		defer cancel()
	}
	return e.ring.Shutdown(ctx)
}

// Backlog reports how many published commands the dispatch goroutine has
// not yet processed. For monitoring only — never gates Submit/Cancel.
func (e *Engine) Backlog() int64 {
	return e.ring.Pending()
}

// OrderExists reports whether orderID currently identifies a live (resting,
// not yet terminal) order on either side of the book.
func (e *Engine) OrderExists(orderID string) bool {
	return e.index.Contains(orderID)
}

// OpenOrderIDs returns the IDs of every order currently resting in the
// book, in no particular trading-significant order (ascending by ID, an
// artifact of the underlying index). For diagnostics, not the hot path.
func (e *Engine) OpenOrderIDs() []string {
	return e.index.Keys()
}

func (e *Engine) sideFor(side Side) *BookSide {
	if side == Buy {
		return e.bids
	}
	return e.asks
}

// Submit accepts order (per §4.2.1) and blocks until it has been fully
// processed, returning the events generated. Also hands the same events to
// the configured sink, so Engine::submit(order) -> Vec<OrderEvent> is
// honored literally rather than only through the async sink.
func (e *Engine) Submit(order *Order) []OrderEvent {
	cmd := &command{kind: cmdSubmit, order: order, done: make(chan []OrderEvent, 1)}
	e.ring.Publish(cmd)
	return <-cmd.done
}

// Cancel requests cancellation of orderID (per §4.2.2) and blocks until
// processed.
func (e *Engine) Cancel(orderID string) []OrderEvent {
	cmd := &command{kind: cmdCancel, cancelID: orderID, done: make(chan []OrderEvent, 1)}
	e.ring.Publish(cmd)
	return <-cmd.done
}

// EndOfDay cancels every resting Day order as Expired. Resolves the §9
// open question on TimeInForce::Day: Day behaves as GoodTillCancel until
// this is called.
func (e *Engine) EndOfDay(now int64) []OrderEvent {
	cmd := &command{kind: cmdEndOfDay, now: now, done: make(chan []OrderEvent, 1)}
	e.ring.Publish(cmd)
	return <-cmd.done
}

func (e *Engine) onCommand(cmd *command) {
	var events []OrderEvent
	switch cmd.kind {
	case cmdSubmit:
		events = e.handleSubmit(cmd.order)
	case cmdCancel:
		events = e.handleCancel(cmd.cancelID)
	case cmdEndOfDay:
		events = e.handleEndOfDay(cmd.now)
	}
	if len(events) > 0 {
		e.sink.Publish(events...)
	}
	cmd.done <- events
}

func (e *Engine) nextSequence() int64 {
	e.sequence++
	return e.sequence
}

func (e *Engine) validate(o *Order) RejectReason {
	if o.Instrument != e.instrument {
		return ReasonInvalidInstrument
	}
	if !o.OriginalQuantity.IsPositive() {
		return ReasonInvalidQuantity
	}
	if o.Kind == Limit && !o.LimitPrice.IsPositive() {
		return ReasonMissingPrice
	}
	return ReasonNone
}

func (e *Engine) handleSubmit(order *Order) []OrderEvent {
	events := []OrderEvent{{Kind: EventOrderReceived, OrderID: order.ID}}

	if reason := e.validate(order); reason != ReasonNone {
		order.reject()
		events = append(events, OrderEvent{Kind: EventOrderRejected, OrderID: order.ID, Reason: reason})
		return events
	}

	order.accept()
	seq := e.nextSequence()
	order.assignSequence(seq)
	events = append(events, OrderEvent{Kind: EventOrderAccepted, Sequence: seq, OrderID: order.ID})

	opposite := e.sideFor(order.Side.Opposite())
	own := e.sideFor(order.Side)

	proposals := e.policy.Match(order, opposite.PublishedLevels(), order.CreationTimestamp)

	if order.TimeInForce == FillOrKill {
		var feasible decimal.FixedPoint
		for _, p := range proposals {
			feasible, _ = feasible.Add(p.Qty)
		}
		if feasible.LessThan(order.OriginalQuantity) {
			order.TryCancel()
			events = append(events, OrderEvent{
				Kind:              EventOrderCancelled,
				OrderID:           order.ID,
				RemainingQuantity: order.Remaining(),
				Reason:            ReasonFillOrKill,
			})
			return events
		}
	}

	var tradesMatched int
	for _, p := range proposals {
		actual := p.RestingOrder.TryFill(p.Qty)
		if actual.IsZero() {
			continue // raced cancel/fill elsewhere; skip per §4.2.1 step 4
		}

		order.TryFill(actual)

		trade := Trade{
			TradeID:        xid.New().String(),
			Instrument:     e.instrument,
			Price:          p.Price,
			Quantity:       actual,
			TakerSide:      order.Side,
			Timestamp:      order.CreationTimestamp,
			EngineSequence: seq,
		}
		if order.Side == Buy {
			trade.BuyOrderID = order.ID
			trade.SellOrderID = p.RestingOrder.ID
		} else {
			trade.BuyOrderID = p.RestingOrder.ID
			trade.SellOrderID = order.ID
		}
		events = append(events, OrderEvent{Kind: EventOrderMatched, OrderID: order.ID, Trade: trade})
		tradesMatched++

		if p.RestingOrder.Remaining().IsZero() {
			events = append(events, OrderEvent{Kind: EventOrderFilled, OrderID: p.RestingOrder.ID})
			opposite.Remove(p.RestingOrder)
			e.index.Delete(p.RestingOrder.ID)
		}
	}

	if order.Remaining().IsZero() {
		events = append(events, OrderEvent{Kind: EventOrderFilled, OrderID: order.ID})
		opposite.Publish()
		return events
	}

	if order.Kind == Market || order.TimeInForce == ImmediateOrCancel || order.TimeInForce == FillOrKill {
		order.TryCancel()
		reason := ReasonNone
		if order.Kind == Market && tradesMatched == 0 {
			reason = ReasonNoLiquidity
		}
		events = append(events, OrderEvent{
			Kind:              EventOrderCancelled,
			OrderID:           order.ID,
			RemainingQuantity: order.Remaining(),
			Reason:            reason,
		})
		opposite.Publish()
		return events
	}

	own.Insert(order)
	e.index.Insert(order.ID, order)
	events = append(events, OrderEvent{Kind: EventOrderBookUpdated, OrderID: order.ID})

	if tradesMatched > 0 {
		opposite.Publish()
	}
	own.Publish()

	return events
}

func (e *Engine) handleCancel(orderID string) []OrderEvent {
	order, ok := e.index.Get(orderID)
	if !ok {
		return []OrderEvent{{Kind: EventCancelRejected, OrderID: orderID, Reason: ReasonUnknownOrder}}
	}
	if order.StatusValue().IsTerminal() {
		return []OrderEvent{{Kind: EventCancelRejected, OrderID: orderID, Reason: ReasonAlreadyTerminal}}
	}
	if !order.TryCancel() {
		return []OrderEvent{{Kind: EventCancelRejected, OrderID: orderID, Reason: ReasonAlreadyTerminal}}
	}

	side := e.sideFor(order.Side)
	remaining := order.Remaining()
	side.Remove(order)
	e.index.Delete(orderID)
	side.Publish()

	return []OrderEvent{{Kind: EventOrderCancelled, OrderID: orderID, RemainingQuantity: remaining, Reason: ReasonNone}}
}

func (e *Engine) handleEndOfDay(now int64) []OrderEvent {
	var events []OrderEvent
	events = append(events, e.endOfDaySide(e.bids, now)...)
	events = append(events, e.endOfDaySide(e.asks, now)...)
	return events
}

func (e *Engine) endOfDaySide(side *BookSide, now int64) []OrderEvent {
	var candidates []*Order
	side.Levels(func(lvl *priceLevel) bool {
		for o := lvl.head; o != nil; o = o.next {
			if o.TimeInForce == Day && !o.StatusValue().IsTerminal() {
				candidates = append(candidates, o)
			}
		}
		return true
	})

	var events []OrderEvent
	for _, o := range candidates {
		if !o.expire() {
			continue
		}
		remaining := o.Remaining()
		side.Remove(o)
		e.index.Delete(o.ID)
		events = append(events, OrderEvent{Kind: EventOrderExpired, OrderID: o.ID, RemainingQuantity: remaining})
	}

	if len(candidates) > 0 {
		side.Publish()
	}
	return events
}

// defaultShutdownTimeout bounds Close when a caller doesn't supply its own
// context deadline.
const defaultShutdownTimeout = 5 * time.Second
