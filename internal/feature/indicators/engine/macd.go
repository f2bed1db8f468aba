package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	candleentity "trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/indicators/domain/entity"
)

// MACD computes Moving Average Convergence Divergence: the difference
// between a fast and a slow EMA of the closes, with a signal line that is
// an EMA of the MACD line itself. The primary value is the MACD line;
// signal line and histogram (MACD - signal) ride along as metadata.
type MACD struct {
	fast   int
	slow   int
	signal int
}

var _ Indicator = (*MACD)(nil)

// NewMACD creates a MACD indicator. All three periods must be positive and
// the fast period must be shorter than the slow one.
func NewMACD(fast, slow, signal int) (*MACD, error) {
	if fast < 1 || slow < 1 || signal < 1 {
		return nil, fmt.Errorf("%w: periods must be positive, got fast=%d slow=%d signal=%d",
			ErrInvalidParams, fast, slow, signal)
	}
	if fast >= slow {
		return nil, fmt.Errorf("%w: fast period (%d) must be less than slow period (%d)",
			ErrInvalidParams, fast, slow)
	}
	return &MACD{fast: fast, slow: slow, signal: signal}, nil
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD_%d_%d_%d", m.fast, m.slow, m.signal)
}

// RequiredPeriods is slow+signal-1: the slow EMA needs `slow` candles for
// its first value, and the signal line needs `signal` MACD-line points.
func (m *MACD) RequiredPeriods() int {
	return m.slow + m.signal - 1
}

// Compute returns one value per candle from position slow+signal-2 onward.
func (m *MACD) Compute(candles []candleentity.Candle) ([]entity.IndicatorValue, error) {
	return guardedCompute(m.Name(), m.RequiredPeriods(), candles, func(sorted []candleentity.Candle) ([]entity.IndicatorValue, error) {
		cs := closes(sorted)
		fastEMA := emaOver(cs, m.fast) // aligned to candle index fast-1
		slowEMA := emaOver(cs, m.slow) // aligned to candle index slow-1

		// MACD line over the overlap of the two EMAs, i.e. from candle
		// index slow-1 onward.
		macdLine := make([]decimal.Decimal, len(slowEMA))
		offset := m.slow - m.fast
		for i := range slowEMA {
			macdLine[i] = fastEMA[i+offset].Sub(slowEMA[i])
		}

		signalLine := emaOver(macdLine, m.signal) // aligned to macdLine index signal-1

		values := make([]entity.IndicatorValue, 0, len(signalLine))
		for j, sig := range signalLine {
			macdIdx := m.signal - 1 + j
			macdValue := macdLine[macdIdx]
			histogram := macdValue.Sub(sig)

			values = append(values, entity.IndicatorValue{
				Timestamp:     sorted[m.slow-1+macdIdx].Timestamp,
				IndicatorName: m.Name(),
				Value:         macdValue,
				Metadata: map[string]float64{
					"signal_line": sig.InexactFloat64(),
					"histogram":   histogram.InexactFloat64(),
				},
			})
		}
		return values, nil
	})
}
