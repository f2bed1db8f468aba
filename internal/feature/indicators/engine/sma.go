package engine

import (
	"fmt"

	candleentity "trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/indicators/domain/entity"
)

// SMA computes the Simple Moving Average: the arithmetic mean of the
// closing prices over a sliding window of `period` candles.
type SMA struct {
	period int
}

var _ Indicator = (*SMA)(nil)

// NewSMA creates an SMA indicator for the given period.
func NewSMA(period int) (*SMA, error) {
	if period < 1 {
		return nil, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidParams, period)
	}
	return &SMA{period: period}, nil
}

func (s *SMA) Name() string {
	return fmt.Sprintf("SMA_%d", s.period)
}

func (s *SMA) RequiredPeriods() int {
	return s.period
}

// Compute returns one value per candle from position period-1 onward,
// each the mean of the window of `period` closes ending at that candle.
func (s *SMA) Compute(candles []candleentity.Candle) ([]entity.IndicatorValue, error) {
	return guardedCompute(s.Name(), s.RequiredPeriods(), candles, func(sorted []candleentity.Candle) ([]entity.IndicatorValue, error) {
		values := make([]entity.IndicatorValue, 0, len(sorted)-s.period+1)
		for i := s.period - 1; i < len(sorted); i++ {
			values = append(values, entity.IndicatorValue{
				Timestamp:     sorted[i].Timestamp,
				IndicatorName: s.Name(),
				Value:         windowMean(sorted, i, s.period),
			})
		}
		return values, nil
	})
}
