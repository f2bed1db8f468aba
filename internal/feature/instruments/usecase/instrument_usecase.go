// Package usecase implements the business logic for instrument catalog
// operations.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trading_backend/internal/feature/instruments/domain/entity"
)

// ErrInstrumentNotFound is returned when a lookup matches no instrument.
var ErrInstrumentNotFound = errors.New("instrument not found")

// ErrDuplicateInstrument is returned when creating an instrument whose
// (symbol, instrument_type) pair already exists.
var ErrDuplicateInstrument = errors.New("instrument already exists")

// InstrumentRepository abstracts the persistence layer for instrument data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type InstrumentRepository interface {
	ListActive(ctx context.Context) ([]entity.Instrument, error)
	GetByID(ctx context.Context, id uint) (*entity.Instrument, error)
	GetBySymbolAndType(ctx context.Context, symbol, instrumentType string) (*entity.Instrument, error)
	Create(ctx context.Context, instrument *entity.Instrument) error
}

// InstrumentUsecase provides business logic for instrument operations.
type InstrumentUsecase struct {
	repo InstrumentRepository
}

// NewInstrumentUsecase creates a new InstrumentUsecase with the given repository.
func NewInstrumentUsecase(r InstrumentRepository) *InstrumentUsecase {
	return &InstrumentUsecase{repo: r}
}

// ListActiveInstruments returns all active instruments from the repository.
func (u *InstrumentUsecase) ListActiveInstruments(ctx context.Context) ([]entity.Instrument, error) {
	return u.repo.ListActive(ctx)
}

// GetInstrument returns the instrument with the given ID.
func (u *InstrumentUsecase) GetInstrument(ctx context.Context, id uint) (*entity.Instrument, error) {
	return u.repo.GetByID(ctx, id)
}

// CreateInstrument registers a new instrument after normalizing the symbol
// to upper case and checking the type is one of the supported values.
func (u *InstrumentUsecase) CreateInstrument(ctx context.Context, instrument *entity.Instrument) error {
	instrument.Symbol = strings.ToUpper(strings.TrimSpace(instrument.Symbol))
	if instrument.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}

	switch instrument.InstrumentType {
	case entity.TypeStock, entity.TypeCrypto, entity.TypeForex:
	default:
		return fmt.Errorf("unsupported instrument type %q", instrument.InstrumentType)
	}

	existing, err := u.repo.GetBySymbolAndType(ctx, instrument.Symbol, instrument.InstrumentType)
	if err != nil && !errors.Is(err, ErrInstrumentNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s (%s)", ErrDuplicateInstrument, instrument.Symbol, instrument.InstrumentType)
	}

	return u.repo.Create(ctx, instrument)
}
