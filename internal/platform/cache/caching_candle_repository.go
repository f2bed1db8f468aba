// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/candles/usecase"
)

// CachingCandleRepository decorates a CandleRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Reads are cached; writes invalidate
// the affected instrument and timeframe.
type CachingCandleRepository struct {
	inner     usecase.CandleRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.CandleRepository = (*CachingCandleRepository)(nil)

// NewCachingCandleRepository decorates a CandleRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "candles".
func NewCachingCandleRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CandleRepository, namespace string) *CachingCandleRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "candles"
	}
	return &CachingCandleRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch writes through to the underlying repository and invalidates
// cache entries for every touched instrument and timeframe.
func (c *CachingCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if err := c.inner.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	if c.rdb == nil || len(candles) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, cd := range candles {
		prefix := c.cacheKeyPrefix(cd.InstrumentID, cd.Timeframe)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		// Best effort: a failed invalidation must not fail the write.
		_ = c.deleteByPattern(ctx, prefix+"*")
	}
	return nil
}

// Find retrieves candles, checking cache first then falling back to the
// database.
func (c *CachingCandleRepository) Find(ctx context.Context, instrumentID uint, timeframe string, limit int) ([]entity.Candle, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, instrumentID, timeframe, limit)
	}

	key := fmt.Sprintf("%sfind:%d", c.cacheKeyPrefix(instrumentID, timeframe), limit)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.Find(ctx, instrumentID, timeframe, limit)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// FindRange retrieves a candle window, checking cache first then falling
// back to the database.
func (c *CachingCandleRepository) FindRange(ctx context.Context, instrumentID uint, timeframe string, start, end time.Time) ([]entity.Candle, error) {
	if c.rdb == nil {
		return c.inner.FindRange(ctx, instrumentID, timeframe, start, end)
	}

	key := fmt.Sprintf("%srange:%d:%d", c.cacheKeyPrefix(instrumentID, timeframe), start.Unix(), end.Unix())

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindRange(ctx, instrumentID, timeframe, start, end)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// ExistingTimestamps is a consistency check for ingestion bookkeeping and
// always goes to the underlying repository.
func (c *CachingCandleRepository) ExistingTimestamps(ctx context.Context, instrumentID uint, timeframe string, timestamps []time.Time) (map[time.Time]bool, error) {
	return c.inner.ExistingTimestamps(ctx, instrumentID, timeframe, timestamps)
}

// cacheKeyPrefix generates the key prefix for one instrument and timeframe.
func (c *CachingCandleRepository) cacheKeyPrefix(instrumentID uint, timeframe string) string {
	return fmt.Sprintf("%s:%d:%s:", c.namespace, instrumentID, timeframe)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingCandleRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
