package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	candleentity "trading_backend/internal/feature/candles/domain/entity"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// candlesFromCloses builds one daily candle per close, with high/low spread
// around the close so every candle passes construction.
func candlesFromCloses(t *testing.T, closes ...string) []candleentity.Candle {
	t.Helper()

	out := make([]candleentity.Candle, 0, len(closes))
	for i, s := range closes {
		close := d(s)
		c, err := candleentity.NewCandle(
			baseTime.AddDate(0, 0, i),
			close.Sub(d("1")),
			close.Add(d("2")),
			close.Sub(d("2")),
			close,
			1000000,
			"1D",
		)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

// flatCandles builds candles where open=high=low=close, so both price
// changes and ranges are zero.
func flatCandles(t *testing.T, price string, n int) []candleentity.Candle {
	t.Helper()

	p := d(price)
	out := make([]candleentity.Candle, 0, n)
	for i := 0; i < n; i++ {
		c, err := candleentity.NewCandle(baseTime.AddDate(0, 0, i), p, p, p, p, 1000000, "1D")
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func reversed(candles []candleentity.Candle) []candleentity.Candle {
	out := make([]candleentity.Candle, len(candles))
	for i, c := range candles {
		out[len(candles)-1-i] = c
	}
	return out
}

func TestGuardedCompute_SortsWithoutMutatingInput(t *testing.T) {
	t.Parallel()

	candles := reversed(candlesFromCloses(t, "10", "20", "30", "40", "50"))
	first := candles[0].Timestamp

	sma, err := NewSMA(3)
	require.NoError(t, err)

	values, err := sma.Compute(candles)
	require.NoError(t, err)

	// Output follows chronological order regardless of input order.
	require.Len(t, values, 3)
	for i := 1; i < len(values); i++ {
		assert.True(t, values[i].Timestamp.After(values[i-1].Timestamp))
	}

	// The caller's slice is untouched.
	assert.Equal(t, first, candles[0].Timestamp)
}

func TestGuardedCompute_InsufficientData(t *testing.T) {
	t.Parallel()

	candles := candlesFromCloses(t, "10", "20")

	sma, err := NewSMA(5)
	require.NoError(t, err)

	_, err = sma.Compute(candles)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestIndicatorNames(t *testing.T) {
	t.Parallel()

	sma, _ := NewSMA(20)
	ema, _ := NewEMA(12)
	rsi, _ := NewRSI(14)
	macd, _ := NewMACD(12, 26, 9)
	bb, _ := NewBollingerBands(20, 2.0)
	atr, _ := NewATR(14)

	assert.Equal(t, "SMA_20", sma.Name())
	assert.Equal(t, "EMA_12", ema.Name())
	assert.Equal(t, "RSI_14", rsi.Name())
	assert.Equal(t, "MACD_12_26_9", macd.Name())
	assert.Equal(t, "BB_20_2.0", bb.Name())
	assert.Equal(t, "ATR_14", atr.Name())
}

func TestRequiredPeriods(t *testing.T) {
	t.Parallel()

	sma, _ := NewSMA(20)
	ema, _ := NewEMA(12)
	rsi, _ := NewRSI(14)
	macd, _ := NewMACD(12, 26, 9)
	bb, _ := NewBollingerBands(20, 2.0)
	atr, _ := NewATR(14)

	assert.Equal(t, 20, sma.RequiredPeriods())
	assert.Equal(t, 12, ema.RequiredPeriods())
	assert.Equal(t, 15, rsi.RequiredPeriods())
	assert.Equal(t, 34, macd.RequiredPeriods())
	assert.Equal(t, 20, bb.RequiredPeriods())
	assert.Equal(t, 15, atr.RequiredPeriods())
}
