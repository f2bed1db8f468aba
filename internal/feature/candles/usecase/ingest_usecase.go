package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/candles/domain/validation"
	"trading_backend/internal/shared/ratelimiter"
)

// DataProvider fetches candle data from an external market data API.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type DataProvider interface {
	// Name identifies the provider in logs and ingestion results.
	Name() string
	// FetchEOD returns daily candles for the symbol in [start, end].
	FetchEOD(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error)
	// FetchIntraday returns intraday candles for the symbol and timeframe
	// in [start, end].
	FetchIntraday(ctx context.Context, symbol, timeframe string, start, end time.Time) ([]entity.Candle, error)
}

// IngestionConfig holds retry and backoff settings for provider calls.
type IngestionConfig struct {
	MaxRetries int           // attempts per provider before falling back
	BaseDelay  time.Duration // backoff delay for the first retry
	MaxDelay   time.Duration // backoff delay cap
}

// LoadIngestionConfig reads ingestion settings from environment variables,
// falling back to defaults when unset or unparsable.
func LoadIngestionConfig() IngestionConfig {
	cfg := IngestionConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   60 * time.Second,
	}
	if v, err := strconv.Atoi(os.Getenv("INGEST_MAX_RETRIES")); err == nil && v > 0 {
		cfg.MaxRetries = v
	}
	if v, err := strconv.Atoi(os.Getenv("INGEST_BASE_DELAY_SECONDS")); err == nil && v > 0 {
		cfg.BaseDelay = time.Duration(v) * time.Second
	}
	if v, err := strconv.Atoi(os.Getenv("INGEST_MAX_DELAY_SECONDS")); err == nil && v > 0 {
		cfg.MaxDelay = time.Duration(v) * time.Second
	}
	return cfg
}

// IngestionResult reports the outcome of a single ingestion run. Failures
// are encoded in Success and ErrorMessage; ingestion methods never return a
// Go error for a failed run.
type IngestionResult struct {
	Success          bool               `json:"success"`
	Symbol           string             `json:"symbol"`
	Timeframe        string             `json:"timeframe"`
	ProviderUsed     string             `json:"provider_used,omitempty"`
	FetchedCount     int                `json:"fetched_count"`
	ValidCount       int                `json:"valid_count"`
	StoredCount      int                `json:"stored_count"`
	InsertedCount    int                `json:"inserted_count"`
	UpdatedCount     int                `json:"updated_count"`
	ValidationErrors []validation.Error `json:"validation_errors,omitempty"`
	ErrorMessage     string             `json:"error_message,omitempty"`
}

// IngestTarget names one instrument to ingest.
type IngestTarget struct {
	InstrumentID uint
	Symbol       string
}

// IngestionService orchestrates one ingestion run: fetch with provider
// fallback, validate, and persist. Providers are tried in order; within a
// provider, rate-limited calls are retried with exponential backoff before
// moving on to the next provider.
type IngestionService struct {
	providers   []DataProvider
	candle      CandleRepository
	rateLimiter ratelimiter.RateLimiterInterface
	cfg         IngestionConfig

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

// NewIngestionService creates a new IngestionService. Providers are tried
// in the order given.
func NewIngestionService(providers []DataProvider, candle CandleRepository, rateLimiter ratelimiter.RateLimiterInterface, cfg IngestionConfig) *IngestionService {
	return &IngestionService{
		providers:   providers,
		candle:      candle,
		rateLimiter: rateLimiter,
		cfg:         cfg,
		sleep:       time.Sleep,
	}
}

// isRateLimitError reports whether the provider error indicates throttling,
// which is worth a backoff and retry. Other errors fall through to the next
// provider immediately.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "429")
}

// backoffDelay returns the delay before retry number attempt (zero-based):
// base doubled per attempt, capped at the configured maximum.
func (s *IngestionService) backoffDelay(attempt int) time.Duration {
	delay := s.cfg.BaseDelay << uint(attempt)
	if delay > s.cfg.MaxDelay || delay <= 0 {
		delay = s.cfg.MaxDelay
	}
	return delay
}

// fetchWithFallback tries each provider in order. Rate-limited calls are
// retried up to MaxRetries times with exponential backoff; any other error
// moves straight to the next provider. Returns the candles and the name of
// the provider that served them.
func (s *IngestionService) fetchWithFallback(ctx context.Context, symbol string, fetch func(DataProvider) ([]entity.Candle, error)) ([]entity.Candle, string, error) {
	var lastErr error
	for _, p := range s.providers {
		for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
			candles, err := fetch(p)
			if err == nil {
				return candles, p.Name(), nil
			}
			lastErr = fmt.Errorf("%s: %w", p.Name(), err)

			if !isRateLimitError(err) {
				slog.Warn("provider fetch failed, falling back",
					"provider", p.Name(), "symbol", symbol, "error", err)
				break
			}

			if attempt < s.cfg.MaxRetries-1 {
				delay := s.backoffDelay(attempt)
				slog.Warn("provider rate limited, backing off",
					"provider", p.Name(), "symbol", symbol,
					"attempt", attempt+1, "delay", delay)
				s.sleep(delay)
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no providers configured")
	}
	return nil, "", fmt.Errorf("all providers failed for %s: %w", symbol, lastErr)
}

// validateAll runs the full validation suite over the fetched candles and
// splits them into storable candles and accumulated errors. Every violation
// on every candle is reported, not just the first.
func validateAll(candles []entity.Candle, timeframe string) ([]entity.Candle, []validation.Error) {
	valid := make([]entity.Candle, 0, len(candles))
	var errs []validation.Error

	for _, c := range candles {
		result := validation.ValidateCandle(c.Open, c.High, c.Low, c.Close, c.Volume, c.Timestamp, timeframe, false)
		if result.IsValid {
			valid = append(valid, c)
		} else {
			errs = append(errs, result.Errors...)
		}
	}
	return valid, errs
}

// ingest runs the shared pipeline: fetch with fallback, validate, stamp
// ownership, and upsert. Insert and update counts come from a pre-upsert
// existence check on the batch timestamps.
func (s *IngestionService) ingest(ctx context.Context, target IngestTarget, timeframe string, fetch func(DataProvider) ([]entity.Candle, error)) *IngestionResult {
	result := &IngestionResult{Symbol: target.Symbol, Timeframe: timeframe}

	candles, provider, err := s.fetchWithFallback(ctx, target.Symbol, fetch)
	if err != nil {
		result.ErrorMessage = err.Error()
		return result
	}
	result.ProviderUsed = provider
	result.FetchedCount = len(candles)

	valid, validationErrs := validateAll(candles, timeframe)
	result.ValidCount = len(valid)
	result.ValidationErrors = validationErrs

	if len(candles) > 0 && len(valid) == 0 {
		result.ErrorMessage = fmt.Sprintf("all %d fetched candles failed validation", len(candles))
		return result
	}

	for i := range valid {
		valid[i].InstrumentID = target.InstrumentID
		valid[i].Timeframe = timeframe
	}

	timestamps := make([]time.Time, 0, len(valid))
	for _, c := range valid {
		timestamps = append(timestamps, c.Timestamp)
	}
	existing, err := s.candle.ExistingTimestamps(ctx, target.InstrumentID, timeframe, timestamps)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("checking existing candles: %v", err)
		return result
	}

	if err := s.candle.UpsertBatch(ctx, valid); err != nil {
		result.ErrorMessage = fmt.Sprintf("storing candles: %v", err)
		return result
	}

	for _, ts := range timestamps {
		if existing[ts.UTC()] {
			result.UpdatedCount++
		} else {
			result.InsertedCount++
		}
	}
	result.StoredCount = len(valid)
	result.Success = true

	slog.Info("ingestion complete",
		"symbol", target.Symbol, "timeframe", timeframe, "provider", provider,
		"fetched", result.FetchedCount, "stored", result.StoredCount,
		"inserted", result.InsertedCount, "updated", result.UpdatedCount,
		"invalid", result.FetchedCount-result.ValidCount)
	return result
}

// IngestEOD fetches, validates, and stores daily candles for one instrument.
func (s *IngestionService) IngestEOD(ctx context.Context, target IngestTarget, start, end time.Time) *IngestionResult {
	return s.ingest(ctx, target, "1D", func(p DataProvider) ([]entity.Candle, error) {
		return p.FetchEOD(ctx, target.Symbol, start, end)
	})
}

// IngestIntraday fetches, validates, and stores intraday candles for one
// instrument at the given timeframe.
func (s *IngestionService) IngestIntraday(ctx context.Context, target IngestTarget, timeframe string, start, end time.Time) *IngestionResult {
	return s.ingest(ctx, target, timeframe, func(p DataProvider) ([]entity.Candle, error) {
		return p.FetchIntraday(ctx, target.Symbol, timeframe, start, end)
	})
}

// IngestAll runs EOD ingestion for every target over the given window,
// spacing provider calls through the rate limiter. A failed target is
// logged and does not stop the run.
func (s *IngestionService) IngestAll(ctx context.Context, targets []IngestTarget, start, end time.Time) []*IngestionResult {
	results := make([]*IngestionResult, 0, len(targets))
	for _, target := range targets {
		s.rateLimiter.WaitIfNeeded()

		result := s.IngestEOD(ctx, target, start, end)
		if !result.Success {
			slog.Error("failed to ingest data",
				"symbol", target.Symbol, "timeframe", result.Timeframe, "error", result.ErrorMessage)
		}
		results = append(results, result)
	}
	return results
}
