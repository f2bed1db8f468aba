package engine

import (
	"fmt"

	candleentity "trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/indicators/domain/entity"
)

// EMA computes the Exponential Moving Average with smoothing factor
// alpha = 2/(period+1), seeded with the SMA of the first `period` closes.
type EMA struct {
	period int
}

var _ Indicator = (*EMA)(nil)

// NewEMA creates an EMA indicator for the given period.
func NewEMA(period int) (*EMA, error) {
	if period < 1 {
		return nil, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidParams, period)
	}
	return &EMA{period: period}, nil
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA_%d", e.period)
}

func (e *EMA) RequiredPeriods() int {
	return e.period
}

// Compute returns one value per candle from position period-1 onward. The
// first output equals the SMA over the same window; subsequent outputs
// apply the EMA recurrence against the previously computed EMA.
func (e *EMA) Compute(candles []candleentity.Candle) ([]entity.IndicatorValue, error) {
	return guardedCompute(e.Name(), e.RequiredPeriods(), candles, func(sorted []candleentity.Candle) ([]entity.IndicatorValue, error) {
		series := emaOver(closes(sorted), e.period)

		values := make([]entity.IndicatorValue, 0, len(series))
		for j, v := range series {
			values = append(values, entity.IndicatorValue{
				Timestamp:     sorted[e.period-1+j].Timestamp,
				IndicatorName: e.Name(),
				Value:         v,
			})
		}
		return values, nil
	})
}
