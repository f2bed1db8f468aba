// Package entity defines the domain models for the candles feature.
package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidCandle is returned when candle construction violates an OHLC
// or volume invariant.
var ErrInvalidCandle = errors.New("invalid candle")

// Candle represents OHLCV (Open, High, Low, Close, Volume) candlestick data
// for an instrument at a specific time interval. Prices are exact decimals.
//
// Invariants (guaranteed by NewCandle):
//   - Low <= Open <= High
//   - Low <= Close <= High
//   - Low <= High
//   - Volume >= 0
type Candle struct {
	InstrumentID uint            // Foreign key into the instrument catalog
	Timeframe    string          // Candle frequency (e.g., "1D", "5m", "1m")
	Timestamp    time.Time       // Timestamp for the start of this candle period
	Open         decimal.Decimal // Opening price
	High         decimal.Decimal // Highest price during this period
	Low          decimal.Decimal // Lowest price during this period
	Close        decimal.Decimal // Closing price
	Volume       int64           // Trading volume
}

// NewCandle constructs a Candle and enforces the OHLC/volume invariants.
// Construction fails immediately on any violation so that every live Candle
// value is valid for the rest of the system.
func NewCandle(timestamp time.Time, open, high, low, close decimal.Decimal, volume int64, timeframe string) (Candle, error) {
	c := Candle{
		Timeframe: timeframe,
		Timestamp: timestamp,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}
	if !c.IsValid() {
		return Candle{}, fmt.Errorf("%w: open=%s high=%s low=%s close=%s volume=%d",
			ErrInvalidCandle, open, high, low, close, volume)
	}
	return c, nil
}

// IsValid reports whether the candle satisfies the OHLC and volume invariants.
func (c Candle) IsValid() bool {
	return c.Low.LessThanOrEqual(c.Open) && c.Open.LessThanOrEqual(c.High) &&
		c.Low.LessThanOrEqual(c.Close) && c.Close.LessThanOrEqual(c.High) &&
		c.Low.LessThanOrEqual(c.High) &&
		c.Volume >= 0
}

// TypicalPrice returns (High + Low + Close) / 3.
func (c Candle) TypicalPrice() decimal.Decimal {
	return c.High.Add(c.Low).Add(c.Close).Div(decimal.NewFromInt(3))
}

// HighLowRange returns High - Low, the true range of a candle that has no
// preceding close.
func (c Candle) HighLowRange() decimal.Decimal {
	return c.High.Sub(c.Low)
}

// TrueRange returns max(High-Low, |High-prevClose|, |Low-prevClose|).
func (c Candle) TrueRange(prevClose decimal.Decimal) decimal.Decimal {
	return decimal.Max(
		c.High.Sub(c.Low),
		c.High.Sub(prevClose).Abs(),
		c.Low.Sub(prevClose).Abs(),
	)
}
