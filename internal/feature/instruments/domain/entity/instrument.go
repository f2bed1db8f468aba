// Package entity defines the domain models for the instruments feature.
package entity

import "time"

// Instrument represents a tradable security in the catalog: an equity, a
// crypto pair, or a currency pair. The same symbol may exist under different
// instrument types ("BTC/USD" as crypto next to a hypothetical equity
// ticker), so uniqueness is over the (symbol, instrument_type) pair.
type Instrument struct {
	ID             uint      `gorm:"primaryKey"`
	Symbol         string    `gorm:"size:32;not null;uniqueIndex:instrument_sym_type,priority:1"`
	Name           string    `gorm:"size:255;not null"`
	InstrumentType string    `gorm:"size:32;not null;uniqueIndex:instrument_sym_type,priority:2"`
	Exchange       string    `gorm:"size:100"`
	Currency       string    `gorm:"size:10;not null;default:USD"`
	IsActive       bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Instrument type values stored in InstrumentType.
const (
	TypeStock  = "stock"
	TypeCrypto = "crypto"
	TypeForex  = "forex"
)
