// Package adapters provides the repository implementations for the
// instruments feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trading_backend/internal/feature/instruments/domain/entity"
	"trading_backend/internal/feature/instruments/usecase"
)

// instrumentPostgres is the PostgreSQL implementation of the
// InstrumentRepository interface.
type instrumentPostgres struct {
	db *gorm.DB
}

var _ usecase.InstrumentRepository = (*instrumentPostgres)(nil)

// NewInstrumentRepository creates a new instrumentPostgres repository with
// the given DB connection.
func NewInstrumentRepository(db *gorm.DB) *instrumentPostgres {
	return &instrumentPostgres{db: db}
}

// ListActive returns all active instruments ordered by symbol.
func (r *instrumentPostgres) ListActive(ctx context.Context) ([]entity.Instrument, error) {
	var instruments []entity.Instrument
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("symbol ASC").
		Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}

// GetByID returns the instrument with the given primary key, or
// ErrInstrumentNotFound.
func (r *instrumentPostgres) GetByID(ctx context.Context, id uint) (*entity.Instrument, error) {
	var instrument entity.Instrument
	if err := r.db.WithContext(ctx).First(&instrument, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrInstrumentNotFound
		}
		return nil, err
	}
	return &instrument, nil
}

// GetBySymbolAndType returns the instrument matching the unique
// (symbol, instrument_type) pair, or ErrInstrumentNotFound.
func (r *instrumentPostgres) GetBySymbolAndType(ctx context.Context, symbol, instrumentType string) (*entity.Instrument, error) {
	var instrument entity.Instrument
	if err := r.db.WithContext(ctx).
		Where("symbol = ? AND instrument_type = ?", symbol, instrumentType).
		First(&instrument).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrInstrumentNotFound
		}
		return nil, err
	}
	return &instrument, nil
}

// Create inserts a new instrument row.
func (r *instrumentPostgres) Create(ctx context.Context, instrument *entity.Instrument) error {
	return r.db.WithContext(ctx).Create(instrument).Error
}
