// Package engine implements the technical indicator computation engine:
// the Indicator contract, the registry used to discover configured
// indicators, and the six streaming algorithms (SMA, EMA, RSI, MACD,
// Bollinger Bands, ATR).
//
// Indicators are pure functions of their input slice: they never mutate the
// caller's candles and hold no mutable state, so a single instance is safe
// to use concurrently across instruments and timeframes.
package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	candleentity "trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/indicators/domain/entity"
)

// ErrInvalidParams is returned by indicator constructors for a bad
// configuration (non-positive period, fast >= slow, and so on).
var ErrInvalidParams = errors.New("invalid indicator parameters")

// ErrInsufficientData is returned by Compute when fewer candles are supplied
// than RequiredPeriods. Callers should retry with more history rather than
// reconfigure the indicator.
var ErrInsufficientData = errors.New("insufficient candle data")

// Indicator is the uniform computation contract shared by all indicators.
// Implementations hold their own validated parameters; Name encodes them
// (e.g., "SMA_20", "MACD_12_26_9").
type Indicator interface {
	// Name returns the stable identity string for this configuration.
	Name() string
	// RequiredPeriods returns the minimum number of candles needed before
	// the first value can be computed.
	RequiredPeriods() int
	// Compute calculates indicator values from candle data. Input order is
	// not trusted: candles are sorted chronologically before computation.
	// Each output's timestamp equals its source candle's timestamp.
	Compute(candles []candleentity.Candle) ([]entity.IndicatorValue, error)
}

// guardedCompute performs the shared pre-computation steps for every
// indicator: the data sufficiency check and the chronological sort (on a
// copy, so the caller's slice is never reordered). The core receives clean,
// sufficient, ordered input.
func guardedCompute(
	name string,
	required int,
	candles []candleentity.Candle,
	core func(sorted []candleentity.Candle) ([]entity.IndicatorValue, error),
) ([]entity.IndicatorValue, error) {
	if len(candles) < required {
		return nil, fmt.Errorf("%w: %s requires at least %d candles, got %d",
			ErrInsufficientData, name, required, len(candles))
	}

	sorted := make([]candleentity.Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return core(sorted)
}

// windowMean returns the arithmetic mean of the closing prices in the
// window of `period` candles ending at index `end` (inclusive).
//
// SMA and the Bollinger middle band both go through this function, which is
// what makes them numerically identical for the same period.
func windowMean(candles []candleentity.Candle, end, period int) decimal.Decimal {
	sum := decimal.Zero
	for i := end - period + 1; i <= end; i++ {
		sum = sum.Add(candles[i].Close)
	}
	return sum.Div(decimal.NewFromInt(int64(period)))
}

// emaOver returns the exponential moving average of values, one output per
// position from period-1 onward. The first output is seeded with the simple
// mean of the first `period` values; each subsequent output applies
// EMA[i] = alpha*value[i] + (1-alpha)*EMA[i-1] against the previously
// computed EMA, never a recomputation.
func emaOver(values []decimal.Decimal, period int) []decimal.Decimal {
	alpha := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(period + 1)))
	oneMinusAlpha := decimal.NewFromInt(1).Sub(alpha)

	seed := decimal.Zero
	for _, v := range values[:period] {
		seed = seed.Add(v)
	}
	seed = seed.Div(decimal.NewFromInt(int64(period)))

	out := make([]decimal.Decimal, 0, len(values)-period+1)
	out = append(out, seed)

	ema := seed
	for i := period; i < len(values); i++ {
		ema = alpha.Mul(values[i]).Add(oneMinusAlpha.Mul(ema))
		out = append(out, ema)
	}
	return out
}

// closes extracts the closing prices of the given candles.
func closes(candles []candleentity.Candle) []decimal.Decimal {
	out := make([]decimal.Decimal, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
