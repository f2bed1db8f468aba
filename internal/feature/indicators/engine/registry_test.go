package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	sma, err := NewSMA(20)
	require.NoError(t, err)
	require.NoError(t, reg.Register(sma))

	got, ok := reg.Get("SMA_20")
	require.True(t, ok)
	assert.Equal(t, sma, got)
}

func TestRegistry_Register_DuplicateNameFails(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	first, err := NewSMA(20)
	require.NoError(t, err)
	second, err := NewSMA(20)
	require.NoError(t, err)

	require.NoError(t, reg.Register(first))
	err = reg.Register(second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMA_20")

	// The original registration survives the failed attempt.
	got, ok := reg.Get("SMA_20")
	require.True(t, ok)
	assert.Equal(t, first, got)
}

func TestRegistry_Register_SameIndicatorDifferentParams(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	sma20, err := NewSMA(20)
	require.NoError(t, err)
	sma50, err := NewSMA(50)
	require.NoError(t, err)

	require.NoError(t, reg.Register(sma20))
	require.NoError(t, reg.Register(sma50))

	assert.Len(t, reg.Names(), 2)
}

func TestRegistry_Get_Unknown(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	_, ok := reg.Get("SMA_999")
	assert.False(t, ok)
}

func TestRegistry_Names(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	assert.Empty(t, reg.Names())

	rsi, err := NewRSI(14)
	require.NoError(t, err)
	macd, err := NewMACD(12, 26, 9)
	require.NoError(t, err)

	require.NoError(t, reg.Register(rsi))
	require.NoError(t, reg.Register(macd))

	assert.ElementsMatch(t, []string{"RSI_14", "MACD_12_26_9"}, reg.Names())
}

func TestRegistry_Clear(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	ema, err := NewEMA(12)
	require.NoError(t, err)
	require.NoError(t, reg.Register(ema))

	reg.Clear()

	assert.Empty(t, reg.Names())
	_, ok := reg.Get("EMA_12")
	assert.False(t, ok)

	// The registry is reusable after clearing.
	assert.NoError(t, reg.Register(ema))
}
