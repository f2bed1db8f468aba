package di

import (
	"fmt"

	"trading_backend/internal/feature/indicators/engine"
)

// NewIndicatorRegistry builds the registry with the standard indicator set:
// SMA 20/50, EMA 12/26, RSI 14, MACD 12/26/9, Bollinger Bands 20/2.0 and
// ATR 14.
func NewIndicatorRegistry() (*engine.Registry, error) {
	registry := engine.NewRegistry()

	build := []func() (engine.Indicator, error){
		func() (engine.Indicator, error) { return engine.NewSMA(20) },
		func() (engine.Indicator, error) { return engine.NewSMA(50) },
		func() (engine.Indicator, error) { return engine.NewEMA(12) },
		func() (engine.Indicator, error) { return engine.NewEMA(26) },
		func() (engine.Indicator, error) { return engine.NewRSI(14) },
		func() (engine.Indicator, error) { return engine.NewMACD(12, 26, 9) },
		func() (engine.Indicator, error) { return engine.NewBollingerBands(20, 2.0) },
		func() (engine.Indicator, error) { return engine.NewATR(14) },
	}

	for _, b := range build {
		ind, err := b()
		if err != nil {
			return nil, fmt.Errorf("failed to build indicator: %w", err)
		}
		if err := registry.Register(ind); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", ind.Name(), err)
		}
	}

	return registry, nil
}
