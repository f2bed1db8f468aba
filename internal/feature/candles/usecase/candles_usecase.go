// Package usecase implements the business logic for candle data operations:
// querying stored history and ingesting fresh data from market data
// providers.
package usecase

import (
	"context"
	"time"

	"trading_backend/internal/feature/candles/domain/entity"
)

const (
	// DefaultTimeframe is the default timeframe for candle queries.
	DefaultTimeframe = "1D"
	// DefaultLimit is the default number of candles returned by a query.
	DefaultLimit = 200
	// MaxLimit is the maximum number of candles returned by a query.
	MaxLimit = 5000
)

// CandleRepository abstracts the persistence layer for candle data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CandleRepository interface {
	// Find returns up to limit candles for the instrument and timeframe,
	// newest first.
	Find(ctx context.Context, instrumentID uint, timeframe string, limit int) ([]entity.Candle, error)
	// FindRange returns all candles in [start, end], oldest first.
	FindRange(ctx context.Context, instrumentID uint, timeframe string, start, end time.Time) ([]entity.Candle, error)
	// UpsertBatch inserts candles, updating OHLCV on
	// (instrument_id, timeframe, timestamp) conflicts.
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
	// ExistingTimestamps reports which of the given timestamps already have
	// a stored candle for the instrument and timeframe.
	ExistingTimestamps(ctx context.Context, instrumentID uint, timeframe string, timestamps []time.Time) (map[time.Time]bool, error)
}

// CandlesUsecase provides read operations over stored candle history.
type CandlesUsecase struct {
	candle CandleRepository
}

// NewCandlesUsecase creates a new CandlesUsecase.
func NewCandlesUsecase(candle CandleRepository) *CandlesUsecase {
	return &CandlesUsecase{candle: candle}
}

// GetCandles returns stored candles for the given instrument and timeframe,
// newest first. Out-of-range limits fall back to the default.
func (cu *CandlesUsecase) GetCandles(ctx context.Context, instrumentID uint, timeframe string, limit int) ([]entity.Candle, error) {
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return cu.candle.Find(ctx, instrumentID, timeframe, limit)
}

// GetCandleRange returns stored candles between start and end, oldest first.
func (cu *CandlesUsecase) GetCandleRange(ctx context.Context, instrumentID uint, timeframe string, start, end time.Time) ([]entity.Candle, error) {
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}
	return cu.candle.FindRange(ctx, instrumentID, timeframe, start, end)
}
