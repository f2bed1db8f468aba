package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	candleentity "trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/indicators/domain/entity"
)

// RSI computes the Relative Strength Index, a momentum oscillator in
// [0, 100]. Average gains and losses are seeded with a simple mean over the
// first `period` price changes and then updated with Wilder smoothing:
// avg = (avg_prev*(period-1) + current) / period.
type RSI struct {
	period int
}

var _ Indicator = (*RSI)(nil)

// NewRSI creates an RSI indicator for the given period.
func NewRSI(period int) (*RSI, error) {
	if period < 1 {
		return nil, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidParams, period)
	}
	return &RSI{period: period}, nil
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI_%d", r.period)
}

// RequiredPeriods is period+1: one extra candle for the first price change.
func (r *RSI) RequiredPeriods() int {
	return r.period + 1
}

// rsiFrom converts smoothed average gain/loss into an RSI value.
// A zero average loss yields 100, including the all-flat case where the
// average gain is also zero (source-documented behavior).
func rsiFrom(avgGain, avgLoss decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if avgLoss.IsZero() {
		return hundred
	}
	rs := avgGain.Div(avgLoss)
	return hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs)))
}

// Compute returns one value per candle from position `period` onward.
func (r *RSI) Compute(candles []candleentity.Candle) ([]entity.IndicatorValue, error) {
	return guardedCompute(r.Name(), r.RequiredPeriods(), candles, func(sorted []candleentity.Candle) ([]entity.IndicatorValue, error) {
		// Price changes; gains and losses split per change.
		gains := make([]decimal.Decimal, len(sorted)-1)
		losses := make([]decimal.Decimal, len(sorted)-1)
		for i := 1; i < len(sorted); i++ {
			change := sorted[i].Close.Sub(sorted[i-1].Close)
			gains[i-1] = decimal.Max(change, decimal.Zero)
			losses[i-1] = decimal.Max(change.Neg(), decimal.Zero)
		}

		periodDec := decimal.NewFromInt(int64(r.period))
		periodMinusOne := decimal.NewFromInt(int64(r.period - 1))

		avgGain := decimal.Zero
		avgLoss := decimal.Zero
		for i := 0; i < r.period; i++ {
			avgGain = avgGain.Add(gains[i])
			avgLoss = avgLoss.Add(losses[i])
		}
		avgGain = avgGain.Div(periodDec)
		avgLoss = avgLoss.Div(periodDec)

		values := make([]entity.IndicatorValue, 0, len(sorted)-r.period)
		values = append(values, entity.IndicatorValue{
			Timestamp:     sorted[r.period].Timestamp,
			IndicatorName: r.Name(),
			Value:         rsiFrom(avgGain, avgLoss),
		})

		for i := r.period; i < len(gains); i++ {
			avgGain = avgGain.Mul(periodMinusOne).Add(gains[i]).Div(periodDec)
			avgLoss = avgLoss.Mul(periodMinusOne).Add(losses[i]).Div(periodDec)

			values = append(values, entity.IndicatorValue{
				Timestamp:     sorted[i+1].Timestamp,
				IndicatorName: r.Name(),
				Value:         rsiFrom(avgGain, avgLoss),
			})
		}
		return values, nil
	})
}
