// Package handler provides the HTTP handlers for the candles feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/candles/transport/http/dto"
	"trading_backend/internal/feature/candles/usecase"
	instrumententity "trading_backend/internal/feature/instruments/domain/entity"
	instrumentusecase "trading_backend/internal/feature/instruments/usecase"
)

// CandlesUsecase is the usecase interface for candle queries.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type CandlesUsecase interface {
	GetCandles(ctx context.Context, instrumentID uint, timeframe string, limit int) ([]entity.Candle, error)
}

// IngestionUsecase triggers ingestion runs for one instrument.
type IngestionUsecase interface {
	IngestEOD(ctx context.Context, target usecase.IngestTarget, start, end time.Time) *usecase.IngestionResult
	IngestIntraday(ctx context.Context, target usecase.IngestTarget, timeframe string, start, end time.Time) *usecase.IngestionResult
}

// InstrumentUsecase resolves instrument IDs from the catalog.
type InstrumentUsecase interface {
	GetInstrument(ctx context.Context, id uint) (*instrumententity.Instrument, error)
}

// CandlesHandler handles HTTP requests for candle data and ingestion.
type CandlesHandler struct {
	candles     CandlesUsecase
	ingestion   IngestionUsecase
	instruments InstrumentUsecase
}

// NewCandlesHandler creates a new CandlesHandler.
func NewCandlesHandler(candles CandlesUsecase, ingestion IngestionUsecase, instruments InstrumentUsecase) *CandlesHandler {
	return &CandlesHandler{candles: candles, ingestion: ingestion, instruments: instruments}
}

func (h *CandlesHandler) resolveInstrument(c *gin.Context) (*instrumententity.Instrument, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instrument id"})
		return nil, false
	}

	instrument, err := h.instruments.GetInstrument(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, instrumentusecase.ErrInstrumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return instrument, true
}

// GetCandles returns stored candle history for one instrument, newest
// first.
//
// GET /instruments/:id/candles?timeframe=1D&limit=200
func (h *CandlesHandler) GetCandles(c *gin.Context) {
	instrument, ok := h.resolveInstrument(c)
	if !ok {
		return
	}

	timeframe := c.DefaultQuery("timeframe", usecase.DefaultTimeframe)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultLimit)))

	candles, err := h.candles.GetCandles(c.Request.Context(), instrument.ID, timeframe, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]dto.CandleResponse, 0, len(candles))
	for _, x := range candles {
		out = append(out, dto.CandleResponse{
			Time:   x.Timestamp.UTC().Format(time.RFC3339),
			Open:   x.Open.String(),
			High:   x.High.String(),
			Low:    x.Low.String(),
			Close:  x.Close.String(),
			Volume: x.Volume,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Ingest triggers an ingestion run for one instrument and returns its
// result. The response status reflects the outcome: 200 on success, 502
// when fetching or validation defeated the run.
//
// POST /instruments/:id/ingest
func (h *CandlesHandler) Ingest(c *gin.Context) {
	instrument, ok := h.resolveInstrument(c)
	if !ok {
		return
	}

	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Timeframe == "" {
		req.Timeframe = usecase.DefaultTimeframe
	}

	end := time.Now().UTC()
	if req.EndDate != "" {
		var err error
		end, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, want YYYY-MM-DD"})
			return
		}
	}
	start := end.AddDate(0, 0, -30)
	if req.StartDate != "" {
		var err error
		start, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, want YYYY-MM-DD"})
			return
		}
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must not be after end_date"})
		return
	}

	target := usecase.IngestTarget{InstrumentID: instrument.ID, Symbol: instrument.Symbol}

	var result *usecase.IngestionResult
	if req.Timeframe == "1D" || req.Timeframe == "1W" || req.Timeframe == "1M" {
		result = h.ingestion.IngestEOD(c.Request.Context(), target, start, end)
	} else {
		result = h.ingestion.IngestIntraday(c.Request.Context(), target, req.Timeframe, start, end)
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, result)
}
