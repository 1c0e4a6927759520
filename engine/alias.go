package engine

import "github.com/matchcore/engine/decimal"

// FixedPoint is an alias for decimal.FixedPoint so call sites inside this
// package don't need to import decimal directly just to spell the type.
type FixedPoint = decimal.FixedPoint
