// Package entity defines the domain models for the indicators feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// IndicatorValue represents a computed technical indicator value at a
// specific timestamp. The primary value is an exact decimal; indicator-
// specific sidecar fields (signal line, bands, true range) live in Metadata
// as approximate floats.
//
// Metadata keys by indicator:
//   - MACD: "signal_line", "histogram"
//   - Bollinger Bands: "upper_band", "lower_band", "bandwidth"
//   - ATR: "true_range"
type IndicatorValue struct {
	InstrumentID  uint            // Foreign key into the instrument catalog
	Timeframe     string          // Candle frequency the value was computed over
	Timestamp     time.Time       // Timestamp of the source candle
	IndicatorName string          // Parameterized name (e.g., "SMA_20", "MACD_12_26_9")
	Value         decimal.Decimal // Primary computed value
	Metadata      map[string]float64
}
