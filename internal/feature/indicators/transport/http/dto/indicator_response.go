// Package dto defines data transfer objects for the indicators HTTP API.
package dto

// IndicatorValueResponse is the response DTO for one computed indicator
// value. The primary value is serialized as a string so clients get the
// exact decimal; auxiliary series ride in metadata.
type IndicatorValueResponse struct {
	Time     string             `json:"time"`
	Value    string             `json:"value"`
	Metadata map[string]float64 `json:"metadata,omitempty"`
}

// IndicatorSeriesResponse wraps one indicator's values with its identity.
type IndicatorSeriesResponse struct {
	Indicator string                   `json:"indicator"`
	Timeframe string                   `json:"timeframe"`
	Values    []IndicatorValueResponse `json:"values"`
}
