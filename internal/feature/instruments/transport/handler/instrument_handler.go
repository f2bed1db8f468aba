// Package handler provides the HTTP handlers for the instruments feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/feature/instruments/domain/entity"
	"trading_backend/internal/feature/instruments/transport/http/dto"
	"trading_backend/internal/feature/instruments/usecase"
)

// InstrumentUsecase is the usecase interface for instrument operations.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type InstrumentUsecase interface {
	ListActiveInstruments(ctx context.Context) ([]entity.Instrument, error)
	GetInstrument(ctx context.Context, id uint) (*entity.Instrument, error)
	CreateInstrument(ctx context.Context, instrument *entity.Instrument) error
}

// InstrumentHandler handles HTTP requests for the instrument catalog.
type InstrumentHandler struct {
	uc InstrumentUsecase
}

// NewInstrumentHandler creates a new InstrumentHandler.
func NewInstrumentHandler(uc InstrumentUsecase) *InstrumentHandler {
	return &InstrumentHandler{uc: uc}
}

func toItem(i entity.Instrument) dto.InstrumentItem {
	return dto.InstrumentItem{
		ID:             i.ID,
		Symbol:         i.Symbol,
		Name:           i.Name,
		InstrumentType: i.InstrumentType,
		Exchange:       i.Exchange,
		Currency:       i.Currency,
	}
}

// List returns all active instruments.
//
// GET /instruments
func (h *InstrumentHandler) List(c *gin.Context) {
	instruments, err := h.uc.ListActiveInstruments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.InstrumentItem, 0, len(instruments))
	for _, i := range instruments {
		out = append(out, toItem(i))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns a single instrument by ID.
//
// GET /instruments/:id
func (h *InstrumentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instrument id"})
		return
	}

	instrument, err := h.uc.GetInstrument(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, usecase.ErrInstrumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toItem(*instrument))
}

// Create registers a new instrument.
//
// POST /instruments
func (h *InstrumentHandler) Create(c *gin.Context) {
	var req dto.CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instrument := entity.Instrument{
		Symbol:         req.Symbol,
		Name:           req.Name,
		InstrumentType: req.InstrumentType,
		Exchange:       req.Exchange,
		Currency:       req.Currency,
		IsActive:       true,
	}
	if instrument.Currency == "" {
		instrument.Currency = "USD"
	}

	if err := h.uc.CreateInstrument(c.Request.Context(), &instrument); err != nil {
		if errors.Is(err, usecase.ErrDuplicateInstrument) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toItem(instrument))
}
