package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
)

// Upstream endpoint paths. Also used as the "endpoint" metrics label.
const (
	EndpointSymbolSearch = "/symbol_search"
	EndpointStocks       = "/stocks"
	EndpointQuote        = "/quote"
	EndpointTimeSeries   = "/time_series"
)

// TimeSeriesOutputSize is the number of points requested per series.
const TimeSeriesOutputSize = 30

// Stock is one row of the /stocks reference listing.
type Stock struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
	Exchange string `json:"exchange,omitempty"`
	Country  string `json:"country,omitempty"`
	Type     string `json:"type,omitempty"`
}

// APIError is returned when the provider answers with a non-2xx status or
// with an in-band {"status":"error"} payload.
type APIError struct {
	Endpoint   string
	StatusCode int // HTTP status
	Code       int // provider code from the payload, 0 if absent
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("twelvedata: %s: upstream %d (code %d): %s", e.Endpoint, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("twelvedata: %s: upstream %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Client is the subset of the Twelve Data API the gateway proxies.
// Raw bodies are returned untouched so they can be relayed as-is.
type Client interface {
	// SymbolSearch returns the "data" array of /symbol_search, or [] if absent.
	SymbolSearch(ctx context.Context, query string) (json.RawMessage, error)
	// Stocks returns the /stocks reference listing.
	Stocks(ctx context.Context) ([]Stock, error)
	// Quote returns the raw /quote object.
	Quote(ctx context.Context, symbol string) (json.RawMessage, error)
	// TimeSeries returns the raw /time_series object, last TimeSeriesOutputSize points.
	TimeSeries(ctx context.Context, symbol, interval string) (json.RawMessage, error)
}
