// Package di provides dependency injection factories for creating application components.
package di

import (
	"trading_backend/internal/feature/candles/adapters/alphavantage"
	"trading_backend/internal/feature/candles/adapters/twelvedata"
	"trading_backend/internal/feature/candles/usecase"
	infrahttp "trading_backend/internal/platform/http"
)

// NewProviders creates the market data provider chain with configured HTTP
// clients. Order matters: the first provider is the primary source and the
// rest are fallbacks.
func NewProviders() []usecase.DataProvider {
	tdCfg := twelvedata.LoadConfig()
	avCfg := alphavantage.LoadConfig()

	return []usecase.DataProvider{
		twelvedata.NewProvider(tdCfg, infrahttp.NewHTTPClient(tdCfg.Timeout)),
		alphavantage.NewProvider(avCfg, infrahttp.NewHTTPClient(avCfg.Timeout)),
	}
}
