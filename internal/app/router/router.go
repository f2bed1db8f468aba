package router

import (
	"github.com/gin-gonic/gin"

	candleshandler "trading_backend/internal/feature/candles/transport/handler"
	indicatorshandler "trading_backend/internal/feature/indicators/transport/handler"
	instrumentshandler "trading_backend/internal/feature/instruments/transport/handler"
	"trading_backend/internal/platform/http/handler"
)

func NewRouter(instruments *instrumentshandler.InstrumentHandler, candles *candleshandler.CandlesHandler,
	indicators *indicatorshandler.IndicatorHandler) *gin.Engine {
	r := gin.Default()

	// Liveness probe
	r.GET("/healthz", handler.Health)

	// Instrument catalog
	r.GET("/instruments", instruments.List)
	r.GET("/instruments/:id", instruments.Get)
	r.POST("/instruments", instruments.Create)

	// Candle history and on-demand ingestion
	r.GET("/instruments/:id/candles", candles.GetCandles)
	r.POST("/instruments/:id/ingest", candles.Ingest)

	// Technical indicators
	r.GET("/indicators", indicators.List)
	r.GET("/instruments/:id/indicators/:name", indicators.Compute)
	r.GET("/instruments/:id/indicators/:name/history", indicators.History)

	return r
}
