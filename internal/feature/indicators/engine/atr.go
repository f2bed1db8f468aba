package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	candleentity "trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/indicators/domain/entity"
)

// ATR computes the Average True Range, a volatility measure over the true
// range of each candle against its predecessor's close. The seed is a
// simple mean of the first `period` true ranges; subsequent values use
// Wilder smoothing. The per-candle true range rides along as metadata.
type ATR struct {
	period int
}

var _ Indicator = (*ATR)(nil)

// NewATR creates an ATR indicator for the given period.
func NewATR(period int) (*ATR, error) {
	if period < 1 {
		return nil, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidParams, period)
	}
	return &ATR{period: period}, nil
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR_%d", a.period)
}

// RequiredPeriods is period+1: the first candle only anchors the previous
// close for the first true range.
func (a *ATR) RequiredPeriods() int {
	return a.period + 1
}

// Compute returns one value per candle from position `period` onward.
func (a *ATR) Compute(candles []candleentity.Candle) ([]entity.IndicatorValue, error) {
	return guardedCompute(a.Name(), a.RequiredPeriods(), candles, func(sorted []candleentity.Candle) ([]entity.IndicatorValue, error) {
		trueRanges := make([]decimal.Decimal, len(sorted))
		trueRanges[0] = sorted[0].HighLowRange()
		for i := 1; i < len(sorted); i++ {
			trueRanges[i] = sorted[i].TrueRange(sorted[i-1].Close)
		}

		periodDec := decimal.NewFromInt(int64(a.period))
		periodMinusOne := decimal.NewFromInt(int64(a.period - 1))

		// Seed: mean of the true ranges at positions 1..period.
		atr := decimal.Zero
		for i := 1; i <= a.period; i++ {
			atr = atr.Add(trueRanges[i])
		}
		atr = atr.Div(periodDec)

		values := make([]entity.IndicatorValue, 0, len(sorted)-a.period)
		values = append(values, entity.IndicatorValue{
			Timestamp:     sorted[a.period].Timestamp,
			IndicatorName: a.Name(),
			Value:         atr,
			Metadata: map[string]float64{
				"true_range": trueRanges[a.period].InexactFloat64(),
			},
		})

		for i := a.period + 1; i < len(sorted); i++ {
			atr = atr.Mul(periodMinusOne).Add(trueRanges[i]).Div(periodDec)
			values = append(values, entity.IndicatorValue{
				Timestamp:     sorted[i].Timestamp,
				IndicatorName: a.Name(),
				Value:         atr,
				Metadata: map[string]float64{
					"true_range": trueRanges[i].InexactFloat64(),
				},
			})
		}
		return values, nil
	})
}
