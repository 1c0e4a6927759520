package engine

import "github.com/matchcore/engine/decimal"

// Trade is an immutable record of one executed match between a taker
// (the incoming order) and a maker (a resting order), per §3.6.
type Trade struct {
	TradeID        string
	Instrument     string
	Price          decimal.FixedPoint
	Quantity       decimal.FixedPoint
	BuyOrderID     string
	SellOrderID    string
	TakerSide      Side
	Timestamp      int64
	EngineSequence int64
}
