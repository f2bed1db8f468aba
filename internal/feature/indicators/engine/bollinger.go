package engine

import (
	"fmt"

	"github.com/montanaflynn/stats"

	candleentity "trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/indicators/domain/entity"
)

// BollingerBands computes a middle band (the SMA of the closes) with upper
// and lower bands offset by a multiple of the population standard deviation
// over the same window. The middle band is the primary decimal value and is
// numerically identical to the standalone SMA indicator; the bands and
// bandwidth are float metadata.
type BollingerBands struct {
	period int
	stdDev float64
}

var _ Indicator = (*BollingerBands)(nil)

// NewBollingerBands creates a Bollinger Bands indicator. The standard
// deviation multiplier must be positive.
func NewBollingerBands(period int, stdDev float64) (*BollingerBands, error) {
	if period < 1 {
		return nil, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidParams, period)
	}
	if stdDev <= 0 {
		return nil, fmt.Errorf("%w: std_dev must be positive, got %g", ErrInvalidParams, stdDev)
	}
	return &BollingerBands{period: period, stdDev: stdDev}, nil
}

func (b *BollingerBands) Name() string {
	return fmt.Sprintf("BB_%d_%.1f", b.period, b.stdDev)
}

func (b *BollingerBands) RequiredPeriods() int {
	return b.period
}

// Compute returns one value per candle from position period-1 onward.
func (b *BollingerBands) Compute(candles []candleentity.Candle) ([]entity.IndicatorValue, error) {
	return guardedCompute(b.Name(), b.RequiredPeriods(), candles, func(sorted []candleentity.Candle) ([]entity.IndicatorValue, error) {
		values := make([]entity.IndicatorValue, 0, len(sorted)-b.period+1)

		window := make(stats.Float64Data, b.period)
		for i := b.period - 1; i < len(sorted); i++ {
			middle := windowMean(sorted, i, b.period)

			for j := 0; j < b.period; j++ {
				window[j] = sorted[i-b.period+1+j].Close.InexactFloat64()
			}
			sigma, err := stats.StdDevP(window)
			if err != nil {
				return nil, fmt.Errorf("computing standard deviation for %s: %w", b.Name(), err)
			}

			middleF := middle.InexactFloat64()
			upper := middleF + b.stdDev*sigma
			lower := middleF - b.stdDev*sigma

			values = append(values, entity.IndicatorValue{
				Timestamp:     sorted[i].Timestamp,
				IndicatorName: b.Name(),
				Value:         middle,
				Metadata: map[string]float64{
					"upper_band": upper,
					"lower_band": lower,
					"bandwidth":  upper - middleF,
				},
			})
		}
		return values, nil
	})
}
