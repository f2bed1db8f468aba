// Package dto defines data transfer objects for the candles HTTP API.
package dto

// CandleResponse is the response DTO for one candle. Prices are serialized
// as strings so clients get the exact stored decimals.
type CandleResponse struct {
	Time   string `json:"time"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume int64  `json:"volume"`
}

// IngestRequest is the request body for triggering an ingestion run.
type IngestRequest struct {
	Timeframe string `json:"timeframe"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
