// Package config validates the parameters an engine.Engine is constructed
// from. It is a collaborator only: it never touches engine.Engine's
// internals, it just turns raw, possibly-invalid input into an
// EngineConfig the caller can trust.
package config

import (
	"errors"
	"fmt"

	"github.com/matchcore/engine/decimal"
)

// ErrInvalidConfig is wrapped by every validation failure returned from
// New, so callers can test for it with errors.Is without matching on
// message text.
var ErrInvalidConfig = errors.New("config: invalid engine configuration")

// EngineConfig is the validated set of parameters needed to construct an
// engine.Engine and its AllocationPolicy. Zero values for the
// policy-specific fields (LMMPct, MinimumQuantity, Threshold) are valid —
// they simply mean the corresponding policy isn't in use.
type EngineConfig struct {
	Instrument string

	// TickSize is the minimum price increment. Zero means unconstrained.
	TickSize decimal.FixedPoint
	// LotSize is the minimum order/allocation quantity increment. Zero
	// means unconstrained.
	LotSize decimal.FixedPoint

	// LMMPct is the fraction of a level's demand reserved for lead market
	// makers under LMMPriorityPolicy, in [0, 1].
	LMMPct decimal.FixedPoint
	// MinimumQuantity is the eligibility floor for pro-rata allocation.
	MinimumQuantity decimal.FixedPoint
	// Threshold is the small-order cutoff for ThresholdProRataPolicy.
	Threshold decimal.FixedPoint
}

// New validates raw and returns an EngineConfig, or an error wrapping
// ErrInvalidConfig describing the first problem found.
func New(raw EngineConfig) (EngineConfig, error) {
	if raw.Instrument == "" {
		return EngineConfig{}, fmt.Errorf("%w: instrument must not be empty", ErrInvalidConfig)
	}
	if raw.TickSize.IsNegative() {
		return EngineConfig{}, fmt.Errorf("%w: tick_size must not be negative", ErrInvalidConfig)
	}
	if raw.LotSize.IsNegative() {
		return EngineConfig{}, fmt.Errorf("%w: lot_size must not be negative", ErrInvalidConfig)
	}
	if raw.LMMPct.IsNegative() || raw.LMMPct.GreaterThan(decimal.One) {
		return EngineConfig{}, fmt.Errorf("%w: lmm_pct must be within [0, 1]", ErrInvalidConfig)
	}
	if raw.MinimumQuantity.IsNegative() {
		return EngineConfig{}, fmt.Errorf("%w: minimum_quantity must not be negative", ErrInvalidConfig)
	}
	if raw.Threshold.IsNegative() {
		return EngineConfig{}, fmt.Errorf("%w: threshold must not be negative", ErrInvalidConfig)
	}
	return raw, nil
}
