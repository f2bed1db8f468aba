package main

import (
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"trading_backend/internal/app/di"
	"trading_backend/internal/app/router"
	candleshandler "trading_backend/internal/feature/candles/transport/handler"
	candlesusecase "trading_backend/internal/feature/candles/usecase"
	indicatorsadapters "trading_backend/internal/feature/indicators/adapters"
	indicatorshandler "trading_backend/internal/feature/indicators/transport/handler"
	indicatorsusecase "trading_backend/internal/feature/indicators/usecase"
	instrumentsadapters "trading_backend/internal/feature/instruments/adapters"
	instrumentshandler "trading_backend/internal/feature/instruments/transport/handler"
	instrumentsusecase "trading_backend/internal/feature/instruments/usecase"
	infradb "trading_backend/internal/platform/db"
	infraredis "trading_backend/internal/platform/redis"
	"trading_backend/internal/shared/ratelimiter"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	instrumentRepo := instrumentsadapters.NewInstrumentRepository(db)
	candleRepo := di.NewCandleRepository(rdb, db)
	indicatorRepo := indicatorsadapters.NewIndicatorRepository(db)

	// Indicator registry with the standard set
	registry, err := di.NewIndicatorRegistry()
	if err != nil {
		log.Fatal(err)
	}

	// Usecase
	instrumentUC := instrumentsusecase.NewInstrumentUsecase(instrumentRepo)
	candlesUC := candlesusecase.NewCandlesUsecase(candleRepo)
	ingestionUC := candlesusecase.NewIngestionService(
		di.NewProviders(),
		candleRepo,
		ratelimiter.NewRateLimiter(8, time.Minute),
		candlesusecase.LoadIngestionConfig(),
	)
	indicatorsUC := indicatorsusecase.NewIndicatorsUsecase(registry, candleRepo, indicatorRepo)

	// Handler
	instrumentH := instrumentshandler.NewInstrumentHandler(instrumentUC)
	candlesH := candleshandler.NewCandlesHandler(candlesUC, ingestionUC, instrumentUC)
	indicatorH := indicatorshandler.NewIndicatorHandler(indicatorsUC, instrumentUC)

	r := router.NewRouter(instrumentH, candlesH, indicatorH)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
