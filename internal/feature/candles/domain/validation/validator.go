// Package validation implements data-quality checks for OHLCV candles.
//
// Unlike entity.NewCandle, which rejects bad data outright, these checks
// accumulate every violated rule so that ingestion can filter and report
// partially bad batches without crashing the pipeline.
package validation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrorType classifies a validation failure.
type ErrorType string

const (
	OHLCInvalid           ErrorType = "ohlc_invalid"
	VolumeNegative        ErrorType = "volume_negative"
	TimestampFuture       ErrorType = "timestamp_future"
	TimeframeMisalignment ErrorType = "timeframe_misalignment"
)

// Error describes a single validation rule violation.
type Error struct {
	Type    ErrorType
	Message string
	Field   string
	Value   string
}

// Result collects the outcome of one or more validation checks.
// Every applicable check runs; errors accumulate rather than short-circuit.
type Result struct {
	IsValid bool
	Errors  []Error
}

func success() Result {
	return Result{IsValid: true}
}

func failure(errs []Error) Result {
	return Result{IsValid: false, Errors: errs}
}

// timeframeRules maps intraday timeframes to their minute quantum.
// Daily and higher timeframes have no minute alignment requirement.
var timeframeRules = map[string]int{
	"1m":  1,
	"5m":  5,
	"15m": 15,
	"30m": 30,
	"1h":  60,
	"4h":  240,
	"1D":  0,
	"1W":  0,
	"1M":  0,
}

// ValidateOHLC checks the OHLC price relationships, reporting every violated
// clause among Low<=High, Low<=Open<=High and Low<=Close<=High.
func ValidateOHLC(open, high, low, close decimal.Decimal) Result {
	var errs []Error

	if low.GreaterThan(high) {
		errs = append(errs, Error{
			Type:    OHLCInvalid,
			Message: fmt.Sprintf("low (%s) must be less than or equal to high (%s)", low, high),
			Field:   "low,high",
			Value:   fmt.Sprintf("low=%s high=%s", low, high),
		})
	}
	if open.LessThan(low) || open.GreaterThan(high) {
		errs = append(errs, Error{
			Type:    OHLCInvalid,
			Message: fmt.Sprintf("open (%s) must be between low (%s) and high (%s)", open, low, high),
			Field:   "open",
			Value:   open.String(),
		})
	}
	if close.LessThan(low) || close.GreaterThan(high) {
		errs = append(errs, Error{
			Type:    OHLCInvalid,
			Message: fmt.Sprintf("close (%s) must be between low (%s) and high (%s)", close, low, high),
			Field:   "close",
			Value:   close.String(),
		})
	}

	if len(errs) > 0 {
		return failure(errs)
	}
	return success()
}

// ValidateVolume checks that volume is non-negative.
func ValidateVolume(volume int64) Result {
	if volume < 0 {
		return failure([]Error{{
			Type:    VolumeNegative,
			Message: fmt.Sprintf("volume (%d) must be non-negative", volume),
			Field:   "volume",
			Value:   fmt.Sprintf("%d", volume),
		}})
	}
	return success()
}

// ValidateTimestamp checks that the timestamp is not strictly after the
// current UTC time, unless allowFuture is set.
func ValidateTimestamp(timestamp time.Time, allowFuture bool) Result {
	if allowFuture {
		return success()
	}

	now := time.Now().UTC()
	if timestamp.UTC().After(now) {
		return failure([]Error{{
			Type:    TimestampFuture,
			Message: fmt.Sprintf("timestamp (%s) cannot be in the future (now: %s)", timestamp.UTC().Format(time.RFC3339), now.Format(time.RFC3339)),
			Field:   "timestamp",
			Value:   timestamp.UTC().Format(time.RFC3339),
		}})
	}
	return success()
}

// ValidateTimeframeAlignment checks that the timestamp aligns with the
// declared timeframe: for intraday quanta the minute must be divisible by
// the quantum, and timeframes of one hour or more must also have zero
// seconds. Daily and higher timeframes, and unrecognized timeframe strings,
// pass unconditionally.
func ValidateTimeframeAlignment(timestamp time.Time, timeframe string) Result {
	quantum, ok := timeframeRules[timeframe]
	if !ok || quantum == 0 {
		return success()
	}

	ts := timestamp.UTC()
	if ts.Minute()%quantum != 0 {
		return failure([]Error{{
			Type: TimeframeMisalignment,
			Message: fmt.Sprintf("timestamp minute (%d) does not align with timeframe %s (must be divisible by %d)",
				ts.Minute(), timeframe, quantum),
			Field: "timestamp",
			Value: ts.Format(time.RFC3339),
		}})
	}
	if quantum >= 60 && ts.Second() != 0 {
		return failure([]Error{{
			Type: TimeframeMisalignment,
			Message: fmt.Sprintf("timestamp for %s timeframe must have zero seconds (got %d)",
				timeframe, ts.Second()),
			Field: "timestamp",
			Value: ts.Format(time.RFC3339),
		}})
	}
	return success()
}

// ValidateCandle runs every check (OHLC, volume, timestamp, timeframe
// alignment) and unions their errors into one result.
func ValidateCandle(open, high, low, close decimal.Decimal, volume int64, timestamp time.Time, timeframe string, allowFuture bool) Result {
	var errs []Error

	for _, r := range []Result{
		ValidateOHLC(open, high, low, close),
		ValidateVolume(volume),
		ValidateTimestamp(timestamp, allowFuture),
		ValidateTimeframeAlignment(timestamp, timeframe),
	} {
		errs = append(errs, r.Errors...)
	}

	if len(errs) > 0 {
		return failure(errs)
	}
	return success()
}
