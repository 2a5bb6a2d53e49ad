package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"stockdash-gateway/internal/metrics"
)

// The /stocks listing runs to several megabytes.
const maxResponseSize = 32 * 1024 * 1024

var emptyArray = json.RawMessage(`[]`)

func (c *client) SymbolSearch(ctx context.Context, query string) (json.RawMessage, error) {
	body, err := c.get(ctx, EndpointSymbolSearch, url.Values{"symbol": {query}})
	if err != nil {
		return nil, err
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return emptyArray, nil
	}
	return json.RawMessage(data.Raw), nil
}

func (c *client) Stocks(ctx context.Context) ([]Stock, error) {
	body, err := c.get(ctx, EndpointStocks, url.Values{})
	if err != nil {
		return nil, err
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return []Stock{}, nil
	}

	stocks := make([]Stock, 0, len(data.Array()))
	if err := json.Unmarshal([]byte(data.Raw), &stocks); err != nil {
		return nil, fmt.Errorf("twelvedata: decode %s data: %w", EndpointStocks, err)
	}
	return stocks, nil
}

func (c *client) Quote(ctx context.Context, symbol string) (json.RawMessage, error) {
	body, err := c.get(ctx, EndpointQuote, url.Values{"symbol": {symbol}})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *client) TimeSeries(ctx context.Context, symbol, interval string) (json.RawMessage, error) {
	body, err := c.get(ctx, EndpointTimeSeries, url.Values{
		"symbol":     {symbol},
		"interval":   {interval},
		"format":     {"JSON"},
		"outputsize": {strconv.Itoa(TimeSeriesOutputSize)},
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// get performs one GET against the provider. There is no retry: every
// failure goes straight back to the caller.
func (c *client) get(parentCtx context.Context, endpoint string, params url.Values) (body []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream(endpoint, start, err)
	}()

	// Per-request timeout (0 = only use parentCtx)
	ctx := parentCtx
	if c.cfg.UpstreamTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parentCtx, c.cfg.UpstreamTimeout)
		defer cancel()
	}

	params.Set("apikey", c.cfg.APIKey)
	reqURL := c.cfg.BaseURL + endpoint + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("twelvedata: build HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug("upstream request starting",
		zap.String("endpoint", endpoint),
		zap.String("symbol", params.Get("symbol")),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("upstream request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, fmt.Errorf("twelvedata: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("twelvedata: %s: read body: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(body), 200),
		}
		if msg := gjson.GetBytes(body, "message"); msg.Exists() {
			apiErr.Message = msg.String()
			apiErr.Code = int(gjson.GetBytes(body, "code").Int())
		}
		c.logger.Error("upstream error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	if !gjson.ValidBytes(body) {
		c.logger.Error("upstream returned invalid JSON",
			zap.String("endpoint", endpoint),
			zap.String("body", truncate(string(body), 200)),
		)
		return nil, fmt.Errorf("twelvedata: %s: invalid JSON response", endpoint)
	}

	// Twelve Data reports most failures (bad key, unknown symbol, rate limit)
	// with HTTP 200 and {"status":"error","code":...,"message":...}.
	if gjson.GetBytes(body, "status").String() == "error" {
		apiErr := &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Code:       int(gjson.GetBytes(body, "code").Int()),
			Message:    gjson.GetBytes(body, "message").String(),
		}
		c.logger.Error("upstream error payload",
			zap.String("endpoint", endpoint),
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	c.logger.Debug("upstream request completed",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)

	return body, nil
}

// truncate limits string length for logging
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
