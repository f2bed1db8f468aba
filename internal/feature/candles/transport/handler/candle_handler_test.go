package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/candles/usecase"
	instrumententity "trading_backend/internal/feature/instruments/domain/entity"
	instrumentusecase "trading_backend/internal/feature/instruments/usecase"
)

type mockCandlesUsecase struct {
	GetCandlesFunc func(ctx context.Context, instrumentID uint, timeframe string, limit int) ([]entity.Candle, error)
}

func (m *mockCandlesUsecase) GetCandles(ctx context.Context, instrumentID uint, timeframe string, limit int) ([]entity.Candle, error) {
	if m.GetCandlesFunc != nil {
		return m.GetCandlesFunc(ctx, instrumentID, timeframe, limit)
	}
	return nil, nil
}

type mockIngestionUsecase struct {
	IngestEODFunc      func(ctx context.Context, target usecase.IngestTarget, start, end time.Time) *usecase.IngestionResult
	IngestIntradayFunc func(ctx context.Context, target usecase.IngestTarget, timeframe string, start, end time.Time) *usecase.IngestionResult
}

func (m *mockIngestionUsecase) IngestEOD(ctx context.Context, target usecase.IngestTarget, start, end time.Time) *usecase.IngestionResult {
	if m.IngestEODFunc != nil {
		return m.IngestEODFunc(ctx, target, start, end)
	}
	return &usecase.IngestionResult{Success: true, Symbol: target.Symbol, Timeframe: "1D"}
}

func (m *mockIngestionUsecase) IngestIntraday(ctx context.Context, target usecase.IngestTarget, timeframe string, start, end time.Time) *usecase.IngestionResult {
	if m.IngestIntradayFunc != nil {
		return m.IngestIntradayFunc(ctx, target, timeframe, start, end)
	}
	return &usecase.IngestionResult{Success: true, Symbol: target.Symbol, Timeframe: timeframe}
}

type mockInstrumentUsecase struct {
	GetInstrumentFunc func(ctx context.Context, id uint) (*instrumententity.Instrument, error)
}

func (m *mockInstrumentUsecase) GetInstrument(ctx context.Context, id uint) (*instrumententity.Instrument, error) {
	if m.GetInstrumentFunc != nil {
		return m.GetInstrumentFunc(ctx, id)
	}
	return &instrumententity.Instrument{ID: id, Symbol: "AAPL"}, nil
}

func newTestHandler(candles *mockCandlesUsecase, ingestion *mockIngestionUsecase, instruments *mockInstrumentUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if candles == nil {
		candles = &mockCandlesUsecase{}
	}
	if ingestion == nil {
		ingestion = &mockIngestionUsecase{}
	}
	if instruments == nil {
		instruments = &mockInstrumentUsecase{}
	}
	h := NewCandlesHandler(candles, ingestion, instruments)

	router := gin.New()
	router.GET("/instruments/:id/candles", h.GetCandles)
	router.POST("/instruments/:id/ingest", h.Ingest)
	return router
}

func TestCandlesHandler_GetCandles_Success(t *testing.T) {
	t.Parallel()

	candles := &mockCandlesUsecase{
		GetCandlesFunc: func(ctx context.Context, instrumentID uint, timeframe string, limit int) ([]entity.Candle, error) {
			assert.Equal(t, uint(1), instrumentID)
			assert.Equal(t, "1h", timeframe)
			assert.Equal(t, 50, limit)
			return []entity.Candle{
				{
					Timestamp: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
					Open:      decimal.RequireFromString("150.10"),
					High:      decimal.RequireFromString("155"),
					Low:       decimal.RequireFromString("149"),
					Close:     decimal.RequireFromString("154.50"),
					Volume:    1000000,
				},
			}, nil
		},
	}

	router := newTestHandler(candles, nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/instruments/1/candles?timeframe=1h&limit=50", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Prices serialize as strings so precision survives the wire.
	assert.JSONEq(t, `[{"time":"2025-01-15T10:00:00Z","open":"150.1","high":"155","low":"149","close":"154.5","volume":1000000}]`, w.Body.String())
}

func TestCandlesHandler_GetCandles_UnknownInstrument(t *testing.T) {
	t.Parallel()

	instruments := &mockInstrumentUsecase{
		GetInstrumentFunc: func(ctx context.Context, id uint) (*instrumententity.Instrument, error) {
			return nil, instrumentusecase.ErrInstrumentNotFound
		},
	}

	router := newTestHandler(nil, nil, instruments)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/instruments/42/candles", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCandlesHandler_GetCandles_InvalidID(t *testing.T) {
	t.Parallel()

	router := newTestHandler(nil, nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/instruments/abc/candles", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCandlesHandler_Ingest_EOD(t *testing.T) {
	t.Parallel()

	var gotTarget usecase.IngestTarget
	ingestion := &mockIngestionUsecase{
		IngestEODFunc: func(ctx context.Context, target usecase.IngestTarget, start, end time.Time) *usecase.IngestionResult {
			gotTarget = target
			return &usecase.IngestionResult{Success: true, Symbol: target.Symbol, Timeframe: "1D", StoredCount: 10}
		},
	}

	router := newTestHandler(nil, ingestion, nil)

	w := httptest.NewRecorder()
	body := `{"timeframe":"1D","start_date":"2025-01-01","end_date":"2025-01-31"}`
	req, _ := http.NewRequest(http.MethodPost, "/instruments/7/ingest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecase.IngestTarget{InstrumentID: 7, Symbol: "AAPL"}, gotTarget)
	assert.Contains(t, w.Body.String(), `"stored_count":10`)
}

func TestCandlesHandler_Ingest_IntradayRouting(t *testing.T) {
	t.Parallel()

	var gotTimeframe string
	ingestion := &mockIngestionUsecase{
		IngestIntradayFunc: func(ctx context.Context, target usecase.IngestTarget, timeframe string, start, end time.Time) *usecase.IngestionResult {
			gotTimeframe = timeframe
			return &usecase.IngestionResult{Success: true, Timeframe: timeframe}
		},
	}

	router := newTestHandler(nil, ingestion, nil)

	w := httptest.NewRecorder()
	body := `{"timeframe":"5m","start_date":"2025-01-01","end_date":"2025-01-02"}`
	req, _ := http.NewRequest(http.MethodPost, "/instruments/1/ingest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5m", gotTimeframe)
}

func TestCandlesHandler_Ingest_FailureStatus(t *testing.T) {
	t.Parallel()

	ingestion := &mockIngestionUsecase{
		IngestEODFunc: func(ctx context.Context, target usecase.IngestTarget, start, end time.Time) *usecase.IngestionResult {
			return &usecase.IngestionResult{Success: false, ErrorMessage: "all providers failed for AAPL"}
		},
	}

	router := newTestHandler(nil, ingestion, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/instruments/1/ingest", strings.NewReader(`{"timeframe":"1D"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// A failed run is reported in the body, not as a handler error.
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "all providers failed")
}

func TestCandlesHandler_Ingest_BadDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "error: malformed start_date", body: `{"timeframe":"1D","start_date":"Jan 1"}`},
		{name: "error: malformed end_date", body: `{"timeframe":"1D","end_date":"31-01-2025"}`},
		{name: "error: start after end", body: `{"timeframe":"1D","start_date":"2025-02-01","end_date":"2025-01-01"}`},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestHandler(nil, nil, nil)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/instruments/1/ingest", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
