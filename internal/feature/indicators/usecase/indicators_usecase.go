// Package usecase implements the business logic for computing and serving
// technical indicators.
package usecase

import (
	"context"
	"errors"
	"fmt"

	candleentity "trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/indicators/domain/entity"
	"trading_backend/internal/feature/indicators/engine"
)

// ErrUnknownIndicator is returned when the requested indicator name is not
// registered.
var ErrUnknownIndicator = errors.New("unknown indicator")

// defaultLookback is how many candles are loaded for a computation when the
// caller does not say otherwise.
const defaultLookback = 500

// IndicatorRepository abstracts the persistence layer for computed
// indicator values.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type IndicatorRepository interface {
	// UpsertBatch inserts values, updating on
	// (instrument_id, timeframe, timestamp, indicator_name) conflicts.
	UpsertBatch(ctx context.Context, values []entity.IndicatorValue) error
	// Find returns up to limit stored values, newest first.
	Find(ctx context.Context, instrumentID uint, timeframe, indicatorName string, limit int) ([]entity.IndicatorValue, error)
}

// CandleReader loads stored candle history for indicator input.
type CandleReader interface {
	Find(ctx context.Context, instrumentID uint, timeframe string, limit int) ([]candleentity.Candle, error)
}

// IndicatorsUsecase computes indicators over stored candles and persists
// the results.
type IndicatorsUsecase struct {
	registry *engine.Registry
	candles  CandleReader
	repo     IndicatorRepository
}

// NewIndicatorsUsecase creates a new IndicatorsUsecase.
func NewIndicatorsUsecase(registry *engine.Registry, candles CandleReader, repo IndicatorRepository) *IndicatorsUsecase {
	return &IndicatorsUsecase{registry: registry, candles: candles, repo: repo}
}

// ComputeAndStore looks up the named indicator, computes it over the
// instrument's stored candles, and upserts the results. The computed values
// are returned oldest first.
func (u *IndicatorsUsecase) ComputeAndStore(ctx context.Context, instrumentID uint, timeframe, indicatorName string) ([]entity.IndicatorValue, error) {
	ind, ok := u.registry.Get(indicatorName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndicator, indicatorName)
	}

	candles, err := u.candles.Find(ctx, instrumentID, timeframe, defaultLookback)
	if err != nil {
		return nil, fmt.Errorf("loading candles: %w", err)
	}

	values, err := ind.Compute(candles)
	if err != nil {
		return nil, err
	}

	for i := range values {
		values[i].InstrumentID = instrumentID
		values[i].Timeframe = timeframe
	}

	if err := u.repo.UpsertBatch(ctx, values); err != nil {
		return nil, fmt.Errorf("storing indicator values: %w", err)
	}
	return values, nil
}

// GetStoredValues returns previously computed values, newest first.
func (u *IndicatorsUsecase) GetStoredValues(ctx context.Context, instrumentID uint, timeframe, indicatorName string, limit int) ([]entity.IndicatorValue, error) {
	if limit <= 0 {
		limit = defaultLookback
	}
	return u.repo.Find(ctx, instrumentID, timeframe, indicatorName, limit)
}

// AvailableIndicators returns the names of all registered indicators.
func (u *IndicatorsUsecase) AvailableIndicators() []string {
	return u.registry.Names()
}
