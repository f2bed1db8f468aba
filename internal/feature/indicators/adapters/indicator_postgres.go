// Package adapters provides the repository implementations for the
// indicators feature.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trading_backend/internal/feature/indicators/domain/entity"
	"trading_backend/internal/feature/indicators/usecase"
	instrumententity "trading_backend/internal/feature/instruments/domain/entity"
)

// indicatorPostgres is the PostgreSQL implementation of the
// IndicatorRepository interface.
type indicatorPostgres struct {
	db *gorm.DB
}

var _ usecase.IndicatorRepository = (*indicatorPostgres)(nil)

// NewIndicatorRepository creates a new indicatorPostgres repository.
func NewIndicatorRepository(db *gorm.DB) *indicatorPostgres {
	return &indicatorPostgres{db: db}
}

// IndicatorModel is the persistence model for one computed indicator value.
// The primary value is a numeric column; auxiliary series (signal line,
// bands, true range) live in a JSON metadata column.
type IndicatorModel struct {
	ID            uint      `gorm:"primaryKey"`
	InstrumentID  uint      `gorm:"not null;uniqueIndex:indicator_inst_tf_time_name,priority:1"`
	Timeframe     string    `gorm:"size:16;not null;uniqueIndex:indicator_inst_tf_time_name,priority:2"`
	Timestamp     time.Time `gorm:"not null;uniqueIndex:indicator_inst_tf_time_name,priority:3"`
	IndicatorName string    `gorm:"size:64;not null;uniqueIndex:indicator_inst_tf_time_name,priority:4"`

	Value    decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Metadata string          `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// Rows are removed together with their instrument.
	Instrument instrumententity.Instrument `gorm:"constraint:OnDelete:CASCADE"`
}

func (IndicatorModel) TableName() string {
	return "indicator_values"
}

func toModel(e entity.IndicatorValue) (IndicatorModel, error) {
	m := IndicatorModel{
		InstrumentID:  e.InstrumentID,
		Timeframe:     e.Timeframe,
		Timestamp:     e.Timestamp,
		IndicatorName: e.IndicatorName,
		Value:         e.Value,
	}
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return IndicatorModel{}, fmt.Errorf("encoding metadata: %w", err)
		}
		m.Metadata = string(raw)
	}
	return m, nil
}

func toEntity(m IndicatorModel) (entity.IndicatorValue, error) {
	e := entity.IndicatorValue{
		InstrumentID:  m.InstrumentID,
		Timeframe:     m.Timeframe,
		Timestamp:     m.Timestamp,
		IndicatorName: m.IndicatorName,
		Value:         m.Value,
	}
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &e.Metadata); err != nil {
			return entity.IndicatorValue{}, fmt.Errorf("decoding metadata: %w", err)
		}
	}
	return e, nil
}

// UpsertBatch inserts values in one statement. Rows that collide on
// (instrument_id, timeframe, timestamp, indicator_name) get their value and
// metadata updated in place, so recomputation is idempotent.
func (r *indicatorPostgres) UpsertBatch(ctx context.Context, values []entity.IndicatorValue) error {
	if len(values) == 0 {
		return nil
	}
	ms := make([]IndicatorModel, 0, len(values))
	for _, e := range values {
		m, err := toModel(e)
		if err != nil {
			return err
		}
		ms = append(ms, m)
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "instrument_id"}, {Name: "timeframe"},
			{Name: "timestamp"}, {Name: "indicator_name"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"value", "metadata", "updated_at"}),
	}).Create(&ms).Error
}

// Find returns up to limit stored values for the instrument, timeframe, and
// indicator, newest first.
func (r *indicatorPostgres) Find(ctx context.Context, instrumentID uint, timeframe, indicatorName string, limit int) ([]entity.IndicatorValue, error) {
	var rows []IndicatorModel
	q := r.db.WithContext(ctx).
		Where("instrument_id = ? AND timeframe = ? AND indicator_name = ?", instrumentID, timeframe, indicatorName).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.IndicatorValue, 0, len(rows))
	for _, m := range rows {
		e, err := toEntity(m)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
