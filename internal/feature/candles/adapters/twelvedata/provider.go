package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"trading_backend/internal/feature/candles/adapters/twelvedata/dto"
	"trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/candles/usecase"
)

// timeframeToInterval maps internal timeframe codes to Twelve Data interval
// strings.
var timeframeToInterval = map[string]string{
	"1m":  "1min",
	"5m":  "5min",
	"15m": "15min",
	"30m": "30min",
	"1h":  "1h",
	"4h":  "4h",
	"1D":  "1day",
	"1W":  "1week",
	"1M":  "1month",
}

// Provider fetches candle data from the Twelve Data API.
type Provider struct {
	cfg    Config
	client *http.Client
}

// Compile-time check that Provider implements the DataProvider interface.
var _ usecase.DataProvider = (*Provider)(nil)

// NewProvider creates a new Twelve Data provider with the given settings
// and HTTP client.
func NewProvider(cfg Config, client *http.Client) *Provider {
	return &Provider{cfg: cfg, client: client}
}

// Name identifies this provider in logs and ingestion results.
func (p *Provider) Name() string { return "twelvedata" }

// FetchEOD returns daily candles for the symbol in [start, end].
func (p *Provider) FetchEOD(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	return p.fetch(ctx, symbol, "1day", "1D", start, end)
}

// FetchIntraday returns intraday candles for the symbol and timeframe in
// [start, end].
func (p *Provider) FetchIntraday(ctx context.Context, symbol, timeframe string, start, end time.Time) ([]entity.Candle, error) {
	interval, ok := timeframeToInterval[timeframe]
	if !ok {
		return nil, fmt.Errorf("twelvedata: unsupported timeframe %q", timeframe)
	}
	return p.fetch(ctx, symbol, interval, timeframe, start, end)
}

func (p *Provider) fetch(ctx context.Context, symbol, interval, timeframe string, start, end time.Time) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("apikey", p.cfg.APIKey)
	if !start.IsZero() {
		q.Set("start_date", start.UTC().Format("2006-01-02 15:04:05"))
	}
	if !end.IsZero() {
		q.Set("end_date", end.UTC().Format("2006-01-02 15:04:05"))
	}

	u := fmt.Sprintf("%s/time_series?%s", p.cfg.BaseURL, q.Encode())

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
		return nil, fmt.Errorf("twelvedata: rate limit exceeded (http 429)")
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata: http %d", res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		// Credit exhaustion comes back as a JSON error with code 429.
		if body.Code == http.StatusTooManyRequests {
			return nil, fmt.Errorf("twelvedata: rate limit exceeded: %s", body.Message)
		}
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	candles := make([]entity.Candle, 0, len(body.Values))
	for _, v := range body.Values {
		tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			tm, err = time.Parse("2006-01-02", v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("parse time %q: %w", v.Datetime, err)
			}
		}
		tm = tm.UTC()

		open, err := decimal.NewFromString(v.Open)
		if err != nil {
			return nil, fmt.Errorf("parse open %q: %w", v.Open, err)
		}
		high, err := decimal.NewFromString(v.High)
		if err != nil {
			return nil, fmt.Errorf("parse high %q: %w", v.High, err)
		}
		low, err := decimal.NewFromString(v.Low)
		if err != nil {
			return nil, fmt.Errorf("parse low %q: %w", v.Low, err)
		}
		close, err := decimal.NewFromString(v.Close)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		volume := int64(0)
		if v.Volume != "" {
			volume, err = strconv.ParseInt(v.Volume, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse volume %q: %w", v.Volume, err)
			}
		}

		candles = append(candles, entity.Candle{
			Timestamp: tm,
			Timeframe: timeframe,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
		})
	}
	return candles, nil
}
