package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"trading_backend/internal/feature/candles/adapters"
	"trading_backend/internal/feature/candles/usecase"
	"trading_backend/internal/platform/cache"
)

// NewCandleRepository creates a CandleRepository implementation.
// If Redis is available, the database-backed repository is wrapped in a
// caching decorator whose entries expire at the next daily rollover.
// Otherwise queries go straight to the database.
func NewCandleRepository(rdb *redis.Client, db *gorm.DB) usecase.CandleRepository {
	repo := adapters.NewCandleRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingCandleRepository(rdb, cache.TimeUntilNextMidnightUTC(), repo, "candles")
}
