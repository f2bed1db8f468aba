package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		period  int
		wantErr bool
	}{
		{name: "success: typical period", period: 20, wantErr: false},
		{name: "success: minimum period", period: 1, wantErr: false},
		{name: "error: zero period", period: 0, wantErr: true},
		{name: "error: negative period", period: -5, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewSMA(tt.period)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSMA_Compute(t *testing.T) {
	t.Parallel()

	candles := candlesFromCloses(t, "10", "20", "30", "40", "50")

	sma, err := NewSMA(3)
	require.NoError(t, err)

	values, err := sma.Compute(candles)
	require.NoError(t, err)
	require.Len(t, values, 3)

	want := []string{"20", "30", "40"}
	for i, v := range values {
		assert.True(t, v.Value.Equal(d(want[i])),
			"values[%d] = %s, want %s", i, v.Value, want[i])
		assert.Equal(t, candles[i+2].Timestamp, v.Timestamp)
		assert.Equal(t, "SMA_3", v.IndicatorName)
	}
}

func TestSMA_Compute_PeriodOneIsIdentity(t *testing.T) {
	t.Parallel()

	candles := candlesFromCloses(t, "101.5", "99.25", "103")

	sma, err := NewSMA(1)
	require.NoError(t, err)

	values, err := sma.Compute(candles)
	require.NoError(t, err)
	require.Len(t, values, len(candles))

	for i, v := range values {
		assert.True(t, v.Value.Equal(candles[i].Close))
	}
}

func TestSMA_Compute_ExactlyRequiredCandles(t *testing.T) {
	t.Parallel()

	candles := candlesFromCloses(t, "10", "20", "30")

	sma, err := NewSMA(3)
	require.NoError(t, err)

	values, err := sma.Compute(candles)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.True(t, values[0].Value.Equal(d("20")))
}
