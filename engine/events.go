package engine

import "github.com/matchcore/engine/decimal"

// OrderEventKind tags the variant carried by an OrderEvent, mirroring the
// taxonomy in §6.
type OrderEventKind int8

const (
	EventOrderReceived OrderEventKind = iota + 1
	EventOrderAccepted
	EventOrderRejected
	EventOrderMatched
	EventOrderFilled
	EventOrderCancelled
	EventOrderBookUpdated
	EventOrderExpired
	EventCancelRejected
)

func (k OrderEventKind) String() string {
	switch k {
	case EventOrderReceived:
		return "order_received"
	case EventOrderAccepted:
		return "order_accepted"
	case EventOrderRejected:
		return "order_rejected"
	case EventOrderMatched:
		return "order_matched"
	case EventOrderFilled:
		return "order_filled"
	case EventOrderCancelled:
		return "order_cancelled"
	case EventOrderBookUpdated:
		return "order_book_updated"
	case EventOrderExpired:
		return "order_expired"
	case EventCancelRejected:
		return "cancel_rejected"
	default:
		return "unknown"
	}
}

// OrderEvent is one entry in the engine's totally ordered event stream. It
// is a tagged union: only the fields relevant to Kind are populated, the
// rest left zero. Carrying every variant as one struct rather than an
// interface keeps EventSink.Publish allocation-free on the hot path and
// matches the teacher's BookLog shape (one concrete struct per log line).
type OrderEvent struct {
	Kind OrderEventKind

	Sequence int64
	OrderID  string

	Reason RejectReason

	Trade Trade

	RemainingQuantity decimal.FixedPoint
}
