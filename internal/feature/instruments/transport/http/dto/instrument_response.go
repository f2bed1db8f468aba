// Package dto defines data transfer objects for the instruments HTTP API.
package dto

// InstrumentItem represents an instrument in the API response.
// It contains only the public-facing fields needed by clients.
type InstrumentItem struct {
	ID             uint   `json:"id"`
	Symbol         string `json:"symbol"`
	Name           string `json:"name"`
	InstrumentType string `json:"instrument_type"`
	Exchange       string `json:"exchange,omitempty"`
	Currency       string `json:"currency"`
}

// CreateInstrumentRequest is the request body for registering an instrument.
type CreateInstrumentRequest struct {
	Symbol         string `json:"symbol" binding:"required"`
	Name           string `json:"name" binding:"required"`
	InstrumentType string `json:"instrument_type" binding:"required"`
	Exchange       string `json:"exchange"`
	Currency       string `json:"currency"`
}
