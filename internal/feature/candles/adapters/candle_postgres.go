// Package adapters provides the repository implementations for the candles
// feature.
package adapters

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trading_backend/internal/feature/candles/domain/entity"
	"trading_backend/internal/feature/candles/usecase"
	instrumententity "trading_backend/internal/feature/instruments/domain/entity"
)

// candlePostgres is the PostgreSQL implementation of the CandleRepository
// interface.
type candlePostgres struct {
	db *gorm.DB
}

var _ usecase.CandleRepository = (*candlePostgres)(nil)

// NewCandleRepository creates a new candlePostgres repository.
func NewCandleRepository(db *gorm.DB) *candlePostgres {
	return &candlePostgres{db: db}
}

// PriceModel is the persistence model for a stored candle. Prices are
// numeric columns so no precision is lost between ingestion and indicator
// computation.
type PriceModel struct {
	ID           uint      `gorm:"primaryKey"`
	InstrumentID uint      `gorm:"not null;uniqueIndex:price_inst_tf_time,priority:1"`
	Timeframe    string    `gorm:"size:16;not null;uniqueIndex:price_inst_tf_time,priority:2"`
	Timestamp    time.Time `gorm:"not null;uniqueIndex:price_inst_tf_time,priority:3"`

	Open   decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	High   decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Low    decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Close  decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Volume int64           `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// Rows are removed together with their instrument.
	Instrument instrumententity.Instrument `gorm:"constraint:OnDelete:CASCADE"`
}

func (PriceModel) TableName() string {
	return "prices"
}

func toModel(e entity.Candle) PriceModel {
	return PriceModel{
		InstrumentID: e.InstrumentID,
		Timeframe:    e.Timeframe,
		Timestamp:    e.Timestamp,
		Open:         e.Open,
		High:         e.High,
		Low:          e.Low,
		Close:        e.Close,
		Volume:       e.Volume,
	}
}

func toEntity(m PriceModel) entity.Candle {
	return entity.Candle{
		InstrumentID: m.InstrumentID,
		Timeframe:    m.Timeframe,
		Timestamp:    m.Timestamp,
		Open:         m.Open,
		High:         m.High,
		Low:          m.Low,
		Close:        m.Close,
		Volume:       m.Volume,
	}
}

// UpsertBatch inserts candles in one statement. Rows that collide on
// (instrument_id, timeframe, timestamp) get their OHLCV updated in place,
// which makes re-ingesting the same window idempotent.
func (r *candlePostgres) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	ms := make([]PriceModel, 0, len(candles))
	for _, e := range candles {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "instrument_id"}, {Name: "timeframe"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume", "updated_at"}),
	}).Create(&ms).Error
}

// Find returns up to limit candles for the instrument and timeframe, newest
// first.
func (r *candlePostgres) Find(ctx context.Context, instrumentID uint, timeframe string, limit int) ([]entity.Candle, error) {
	var rows []PriceModel
	q := r.db.WithContext(ctx).
		Where("instrument_id = ? AND timeframe = ?", instrumentID, timeframe).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Candle, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// FindRange returns all candles with timestamps in [start, end], oldest
// first.
func (r *candlePostgres) FindRange(ctx context.Context, instrumentID uint, timeframe string, start, end time.Time) ([]entity.Candle, error) {
	var rows []PriceModel
	if err := r.db.WithContext(ctx).
		Where("instrument_id = ? AND timeframe = ? AND timestamp >= ? AND timestamp <= ?",
			instrumentID, timeframe, start, end).
		Order("timestamp ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Candle, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// ExistingTimestamps reports which of the given timestamps already have a
// stored candle. Callers use it to split an upsert into insert and update
// counts before the batch runs.
func (r *candlePostgres) ExistingTimestamps(ctx context.Context, instrumentID uint, timeframe string, timestamps []time.Time) (map[time.Time]bool, error) {
	existing := make(map[time.Time]bool, len(timestamps))
	if len(timestamps) == 0 {
		return existing, nil
	}

	var stored []time.Time
	if err := r.db.WithContext(ctx).
		Model(&PriceModel{}).
		Where("instrument_id = ? AND timeframe = ? AND timestamp IN ?", instrumentID, timeframe, timestamps).
		Pluck("timestamp", &stored).Error; err != nil {
		return nil, err
	}
	for _, ts := range stored {
		existing[ts.UTC()] = true
	}
	return existing, nil
}
