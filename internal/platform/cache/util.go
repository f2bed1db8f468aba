package cache

import (
	"time"
)

// TimeUntilNextMidnightUTC returns the duration until the next 00:00 UTC,
// when daily candles roll over and cached history goes stale.
func TimeUntilNextMidnightUTC() time.Duration {
	now := time.Now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return next.Sub(now)
}
