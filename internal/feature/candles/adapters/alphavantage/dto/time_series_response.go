// Package dto defines data transfer objects for Alpha Vantage API
// responses.
package dto

// Envelope carries the out-of-band fields Alpha Vantage mixes into every
// response. A throttled call comes back as HTTP 200 with a Note or
// Information field instead of data.
type Envelope struct {
	Note         string `json:"Note,omitempty"`
	Information  string `json:"Information,omitempty"`
	ErrorMessage string `json:"Error Message,omitempty"`
}

// Bar is one OHLCV entry in a time series map, keyed by the numbered field
// names Alpha Vantage uses.
type Bar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}
