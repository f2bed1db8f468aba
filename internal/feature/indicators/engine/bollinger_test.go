package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBollingerBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		period  int
		stdDev  float64
		wantErr bool
	}{
		{name: "success: standard 20/2.0", period: 20, stdDev: 2.0, wantErr: false},
		{name: "success: fractional multiplier", period: 10, stdDev: 1.5, wantErr: false},
		{name: "error: zero period", period: 0, stdDev: 2.0, wantErr: true},
		{name: "error: zero multiplier", period: 20, stdDev: 0, wantErr: true},
		{name: "error: negative multiplier", period: 20, stdDev: -1.0, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewBollingerBands(tt.period, tt.stdDev)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBollingerBands_Compute_BandOrdering(t *testing.T) {
	t.Parallel()

	candles := candlesFromCloses(t, "100", "104", "98", "103", "99", "105", "97")

	bb, err := NewBollingerBands(4, 2.0)
	require.NoError(t, err)

	values, err := bb.Compute(candles)
	require.NoError(t, err)
	require.Len(t, values, 4)

	for _, v := range values {
		v := v // capture range variable
		middle := v.Value.InexactFloat64()
		assert.Less(t, v.Metadata["lower_band"], middle)
		assert.Greater(t, v.Metadata["upper_band"], middle)
		assert.InDelta(t, v.Metadata["upper_band"]-middle, v.Metadata["bandwidth"], 1e-9)
	}
}

func TestBollingerBands_Compute_MiddleBandMatchesSMA(t *testing.T) {
	t.Parallel()

	candles := candlesFromCloses(t, "100", "104", "98", "103", "99", "105", "97", "102")

	bb, err := NewBollingerBands(5, 2.0)
	require.NoError(t, err)
	sma, err := NewSMA(5)
	require.NoError(t, err)

	bbValues, err := bb.Compute(candles)
	require.NoError(t, err)
	smaValues, err := sma.Compute(candles)
	require.NoError(t, err)

	require.Len(t, bbValues, len(smaValues))
	for i := range bbValues {
		assert.Equal(t, smaValues[i].Timestamp, bbValues[i].Timestamp)
		assert.True(t, bbValues[i].Value.Equal(smaValues[i].Value),
			"middle band %s, SMA %s", bbValues[i].Value, smaValues[i].Value)
	}
}

func TestBollingerBands_Compute_ZeroVarianceCollapsesBands(t *testing.T) {
	t.Parallel()

	candles := flatCandles(t, "42", 6)

	bb, err := NewBollingerBands(4, 2.0)
	require.NoError(t, err)

	values, err := bb.Compute(candles)
	require.NoError(t, err)
	require.Len(t, values, 3)

	for _, v := range values {
		v := v // capture range variable
		middle := v.Value.InexactFloat64()
		assert.InDelta(t, middle, v.Metadata["upper_band"], 1e-12)
		assert.InDelta(t, middle, v.Metadata["lower_band"], 1e-12)
		assert.InDelta(t, 0, v.Metadata["bandwidth"], 1e-12)
	}
}
