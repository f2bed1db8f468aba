package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trading_backend/internal/feature/candles/adapters/alphavantage/dto"
	"trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/candles/usecase"
)

// timeframeToInterval maps internal timeframe codes to Alpha Vantage
// intraday interval strings. Alpha Vantage has no 4h series.
var timeframeToInterval = map[string]string{
	"1m":  "1min",
	"5m":  "5min",
	"15m": "15min",
	"30m": "30min",
	"1h":  "60min",
}

// Provider fetches candle data from the Alpha Vantage API.
type Provider struct {
	cfg    Config
	client *http.Client
}

// Compile-time check that Provider implements the DataProvider interface.
var _ usecase.DataProvider = (*Provider)(nil)

// NewProvider creates a new Alpha Vantage provider with the given settings
// and HTTP client.
func NewProvider(cfg Config, client *http.Client) *Provider {
	return &Provider{cfg: cfg, client: client}
}

// Name identifies this provider in logs and ingestion results.
func (p *Provider) Name() string { return "alphavantage" }

// FetchEOD returns daily candles for the symbol in [start, end]. Alpha
// Vantage returns its full history, so the window is filtered client-side.
func (p *Provider) FetchEOD(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", "full")
	return p.fetch(ctx, q, "2006-01-02", "1D", start, end)
}

// FetchIntraday returns intraday candles for the symbol and timeframe in
// [start, end].
func (p *Provider) FetchIntraday(ctx context.Context, symbol, timeframe string, start, end time.Time) ([]entity.Candle, error) {
	interval, ok := timeframeToInterval[timeframe]
	if !ok {
		return nil, fmt.Errorf("alphavantage: unsupported timeframe %q", timeframe)
	}
	q := url.Values{}
	q.Set("function", "TIME_SERIES_INTRADAY")
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", "full")
	return p.fetch(ctx, q, "2006-01-02 15:04:05", timeframe, start, end)
}

func (p *Provider) fetch(ctx context.Context, q url.Values, timeLayout, timeframe string, start, end time.Time) ([]entity.Candle, error) {
	q.Set("apikey", p.cfg.APIKey)
	u := fmt.Sprintf("%s/query?%s", p.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("alphavantage: rate limit exceeded (http 429)")
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("alphavantage: http %d", res.StatusCode)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, err
	}

	// Throttling and errors come back as HTTP 200 with a message field.
	if msg, ok := raw["Note"]; ok {
		return nil, fmt.Errorf("alphavantage: rate limit exceeded: %s", rawString(msg))
	}
	if msg, ok := raw["Information"]; ok {
		return nil, fmt.Errorf("alphavantage: rate limit exceeded: %s", rawString(msg))
	}
	if msg, ok := raw["Error Message"]; ok {
		return nil, fmt.Errorf("alphavantage: %s", rawString(msg))
	}

	series, err := findTimeSeries(raw)
	if err != nil {
		return nil, err
	}

	candles := make([]entity.Candle, 0, len(series))
	for datetime, bar := range series {
		tm, err := time.Parse(timeLayout, datetime)
		if err != nil {
			return nil, fmt.Errorf("parse time %q: %w", datetime, err)
		}
		tm = tm.UTC()
		if (!start.IsZero() && tm.Before(start)) || (!end.IsZero() && tm.After(end)) {
			continue
		}

		c, err := toCandle(tm, timeframe, bar)
		if err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}

	// Map iteration order is random; return oldest first.
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	return candles, nil
}

// findTimeSeries locates the one top-level key holding the series data,
// whose exact name varies by endpoint ("Time Series (Daily)",
// "Time Series (5min)", and so on).
func findTimeSeries(raw map[string]json.RawMessage) (map[string]dto.Bar, error) {
	for key, msg := range raw {
		if !strings.HasPrefix(key, "Time Series") {
			continue
		}
		var series map[string]dto.Bar
		if err := json.Unmarshal(msg, &series); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		return series, nil
	}
	return nil, fmt.Errorf("alphavantage: response contains no time series")
}

func toCandle(tm time.Time, timeframe string, bar dto.Bar) (entity.Candle, error) {
	open, err := decimal.NewFromString(bar.Open)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse open %q: %w", bar.Open, err)
	}
	high, err := decimal.NewFromString(bar.High)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse high %q: %w", bar.High, err)
	}
	low, err := decimal.NewFromString(bar.Low)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse low %q: %w", bar.Low, err)
	}
	close, err := decimal.NewFromString(bar.Close)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse close %q: %w", bar.Close, err)
	}
	volume := int64(0)
	if bar.Volume != "" {
		volume, err = strconv.ParseInt(bar.Volume, 10, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse volume %q: %w", bar.Volume, err)
		}
	}

	return entity.Candle{
		Timestamp: tm,
		Timeframe: timeframe,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}, nil
}

func rawString(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return string(msg)
	}
	return s
}
