// Package handler provides the HTTP handlers for the indicators feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	instrumententity "trading_backend/internal/feature/instruments/domain/entity"
	instrumentusecase "trading_backend/internal/feature/instruments/usecase"

	"trading_backend/internal/feature/indicators/domain/entity"
	"trading_backend/internal/feature/indicators/engine"
	"trading_backend/internal/feature/indicators/transport/http/dto"
	"trading_backend/internal/feature/indicators/usecase"
)

// IndicatorsUsecase is the usecase interface for indicator operations.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type IndicatorsUsecase interface {
	ComputeAndStore(ctx context.Context, instrumentID uint, timeframe, indicatorName string) ([]entity.IndicatorValue, error)
	GetStoredValues(ctx context.Context, instrumentID uint, timeframe, indicatorName string, limit int) ([]entity.IndicatorValue, error)
	AvailableIndicators() []string
}

// InstrumentUsecase resolves instrument IDs from the catalog.
type InstrumentUsecase interface {
	GetInstrument(ctx context.Context, id uint) (*instrumententity.Instrument, error)
}

// IndicatorHandler handles HTTP requests for technical indicators.
type IndicatorHandler struct {
	indicators  IndicatorsUsecase
	instruments InstrumentUsecase
}

// NewIndicatorHandler creates a new IndicatorHandler.
func NewIndicatorHandler(indicators IndicatorsUsecase, instruments InstrumentUsecase) *IndicatorHandler {
	return &IndicatorHandler{indicators: indicators, instruments: instruments}
}

// List returns the names of all configured indicators.
//
// GET /indicators
func (h *IndicatorHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"indicators": h.indicators.AvailableIndicators()})
}

func (h *IndicatorHandler) resolveInstrument(c *gin.Context) (*instrumententity.Instrument, bool) {
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

// Compute computes the named indicator over an instrument's stored candles
// and returns the series, oldest first. Results are persisted as a side
// effect.
//
// GET /instruments/:id/indicators/:name?timeframe=1D
func (h *IndicatorHandler) Compute(c *gin.Context) {
	instrument, ok := h.resolveInstrument(c)
	if !ok {
		return
	}

	name := c.Param("name")
	timeframe := c.DefaultQuery("timeframe", "1D")

	values, err := h.indicators.ComputeAndStore(c.Request.Context(), instrument.ID, timeframe, name)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownIndicator):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, engine.ErrInsufficientData):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toSeriesResponse(name, timeframe, values))
}

// History returns previously computed values without recomputing, newest
// first.
//
// GET /instruments/:id/indicators/:name/history?timeframe=1D&limit=100
func (h *IndicatorHandler) History(c *gin.Context) {
	instrument, ok := h.resolveInstrument(c)
	if !ok {
		return
	}

	name := c.Param("name")
	timeframe := c.DefaultQuery("timeframe", "1D")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	values, err := h.indicators.GetStoredValues(c.Request.Context(), instrument.ID, timeframe, name, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toSeriesResponse(name, timeframe, values))
}

func toSeriesResponse(name, timeframe string, values []entity.IndicatorValue) dto.IndicatorSeriesResponse {
	out := dto.IndicatorSeriesResponse{
		Indicator: name,
		Timeframe: timeframe,
		Values:    make([]dto.IndicatorValueResponse, 0, len(values)),
	}
	for _, v := range values {
		out.Values = append(out.Values, dto.IndicatorValueResponse{
			Time:     v.Timestamp.UTC().Format(time.RFC3339),
			Value:    v.Value.String(),
			Metadata: v.Metadata,
		})
	}
	return out
}
