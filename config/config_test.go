package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchcore/engine/decimal"
)

func TestNewAcceptsValidConfig(t *testing.T) {
	cfg, err := New(EngineConfig{
		Instrument:      "XYZ",
		TickSize:        decimal.MustParse("0.01"),
		LotSize:         decimal.MustParse("1"),
		LMMPct:          decimal.MustParse("0.4"),
		MinimumQuantity: decimal.MustParse("10"),
		Threshold:       decimal.MustParse("50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "XYZ", cfg.Instrument)
}

func TestNewRejectsEmptyInstrument(t *testing.T) {
	_, err := New(EngineConfig{Instrument: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewRejectsNegativeTickSize(t *testing.T) {
	_, err := New(EngineConfig{Instrument: "XYZ", TickSize: decimal.MustParse("-0.01")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewRejectsLMMPctOutOfRange(t *testing.T) {
	_, err := New(EngineConfig{Instrument: "XYZ", LMMPct: decimal.MustParse("1.1")})
	require.Error(t, err)

	_, err = New(EngineConfig{Instrument: "XYZ", LMMPct: decimal.MustParse("-0.1")})
	require.Error(t, err)
}

func TestNewRejectsNegativeMinimumQuantity(t *testing.T) {
	_, err := New(EngineConfig{Instrument: "XYZ", MinimumQuantity: decimal.MustParse("-1")})
	require.Error(t, err)
}

func TestNewRejectsNegativeThreshold(t *testing.T) {
	_, err := New(EngineConfig{Instrument: "XYZ", Threshold: decimal.MustParse("-1")})
	require.Error(t, err)
}

func TestNewZeroValuesAreValidDefaults(t *testing.T) {
	cfg, err := New(EngineConfig{Instrument: "XYZ"})
	require.NoError(t, err)
	assert.True(t, errors.Is(err, nil))
	assert.True(t, cfg.LMMPct.IsZero())
}
