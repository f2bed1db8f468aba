package main

import (
	"context"
	"log"
	"time"

	"trading_backend/internal/app/di"
	candlesadapters "trading_backend/internal/feature/candles/adapters"
	"trading_backend/internal/feature/candles/usecase"
	instrumentsadapters "trading_backend/internal/feature/instruments/adapters"
	infradb "trading_backend/internal/platform/db"
	"trading_backend/internal/shared/ratelimiter"
)

func main() {
	db := infradb.OpenDB()
	candleRepo := candlesadapters.NewCandleRepository(db)
	instrumentRepo := instrumentsadapters.NewInstrumentRepository(db)

	svc := usecase.NewIngestionService(
		di.NewProviders(),
		candleRepo,
		ratelimiter.NewRateLimiter(8, time.Minute),
		usecase.LoadIngestionConfig(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	instruments, err := instrumentRepo.ListActive(ctx)
	if err != nil {
		log.Fatal("failed to load instruments:", err)
	}
	targets := make([]usecase.IngestTarget, 0, len(instruments))
	for _, ins := range instruments {
		targets = append(targets, usecase.IngestTarget{InstrumentID: ins.ID, Symbol: ins.Symbol})
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	results := svc.IngestAll(ctx, targets, start, end)

	var failed int
	for _, res := range results {
		if !res.Success {
			failed++
		}
	}
	if failed > 0 {
		log.Fatalf("ingest finished with %d/%d failures", failed, len(results))
	}
	log.Println("ingest ok")
}
