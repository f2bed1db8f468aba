package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trading_backend/internal/feature/instruments/domain/entity"
	"trading_backend/internal/feature/instruments/usecase"
)

// setupTestDB prepares an in-memory SQLite database for tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.Instrument{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// seedInstrument creates an instrument row for tests.
func seedInstrument(t *testing.T, db *gorm.DB, symbol, name, instrumentType string) *entity.Instrument {
	t.Helper()

	instrument := &entity.Instrument{
		Symbol:         symbol,
		Name:           name,
		InstrumentType: instrumentType,
		Currency:       "USD",
		IsActive:       true,
	}
	err := db.Create(instrument).Error
	require.NoError(t, err, "failed to seed instrument")

	return instrument
}

// deactivateInstrument flips is_active off via an explicit update, since
// SQLite treats booleans differently on insert.
func deactivateInstrument(t *testing.T, db *gorm.DB, instrument *entity.Instrument) {
	t.Helper()
	err := db.Model(instrument).Update("is_active", false).Error
	require.NoError(t, err, "failed to deactivate instrument")
}

func TestInstrumentPostgres_ListActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		setupFunc       func(t *testing.T, db *gorm.DB)
		expectedSymbols []string
	}{
		{
			name: "success: returns active instruments sorted by symbol",
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedInstrument(t, db, "MSFT", "Microsoft Corporation", entity.TypeStock)
				seedInstrument(t, db, "AAPL", "Apple Inc.", entity.TypeStock)
				seedInstrument(t, db, "BTC/USD", "Bitcoin", entity.TypeCrypto)
			},
			expectedSymbols: []string{"AAPL", "BTC/USD", "MSFT"},
		},
		{
			name: "success: excludes inactive instruments",
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedInstrument(t, db, "AAPL", "Apple Inc.", entity.TypeStock)
				delisted := seedInstrument(t, db, "TWTR", "Twitter Inc.", entity.TypeStock)
				deactivateInstrument(t, db, delisted)
			},
			expectedSymbols: []string{"AAPL"},
		},
		{
			name:            "success: returns empty list when no instruments",
			setupFunc:       func(t *testing.T, db *gorm.DB) {},
			expectedSymbols: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewInstrumentRepository(db)

			tt.setupFunc(t, db)

			instruments, err := repo.ListActive(context.Background())
			require.NoError(t, err)
			require.Len(t, instruments, len(tt.expectedSymbols))

			for i, symbol := range tt.expectedSymbols {
				assert.Equal(t, symbol, instruments[i].Symbol)
			}
		})
	}
}

func TestInstrumentPostgres_GetByID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewInstrumentRepository(db)

	seeded := seedInstrument(t, db, "AAPL", "Apple Inc.", entity.TypeStock)

	t.Run("success: returns instrument by id", func(t *testing.T) {
		got, err := repo.GetByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "AAPL", got.Symbol)
		assert.Equal(t, "Apple Inc.", got.Name)
		assert.Equal(t, entity.TypeStock, got.InstrumentType)
	})

	t.Run("error: unknown id", func(t *testing.T) {
		_, err := repo.GetByID(context.Background(), 9999)
		assert.ErrorIs(t, err, usecase.ErrInstrumentNotFound)
	})
}

func TestInstrumentPostgres_GetBySymbolAndType(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewInstrumentRepository(db)

	seedInstrument(t, db, "BTC/USD", "Bitcoin", entity.TypeCrypto)

	t.Run("success: matches symbol and type", func(t *testing.T) {
		got, err := repo.GetBySymbolAndType(context.Background(), "BTC/USD", entity.TypeCrypto)
		require.NoError(t, err)
		assert.Equal(t, "Bitcoin", got.Name)
	})

	t.Run("error: same symbol different type", func(t *testing.T) {
		_, err := repo.GetBySymbolAndType(context.Background(), "BTC/USD", entity.TypeStock)
		assert.ErrorIs(t, err, usecase.ErrInstrumentNotFound)
	})
}

func TestInstrumentPostgres_Create(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewInstrumentRepository(db)

	instrument := &entity.Instrument{
		Symbol:         "EUR/USD",
		Name:           "Euro / US Dollar",
		InstrumentType: entity.TypeForex,
		Currency:       "USD",
		IsActive:       true,
	}

	err := repo.Create(context.Background(), instrument)
	require.NoError(t, err)
	assert.NotZero(t, instrument.ID)
	assert.False(t, instrument.CreatedAt.IsZero())

	got, err := repo.GetByID(context.Background(), instrument.ID)
	require.NoError(t, err)
	assert.Equal(t, "EUR/USD", got.Symbol)
}
