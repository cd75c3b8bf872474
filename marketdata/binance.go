package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is Binance's public spot REST endpoint.
const DefaultBaseURL = "https://api.binance.com"

// Client fetches spot ticker prices over Binance's public REST API. The
// ticker endpoint needs no credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a ticker client. An empty baseURL selects the public
// endpoint; tests point it at a local server.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// tickerResponse is Binance's /api/v3/ticker/price payload. The price comes
// back as a string.
type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// CurrentPrice returns the latest ticker price for symbol (e.g. "ETHUSDT").
// Transport, status, and parse failures all surface as errors; the caller
// skips the tick and retries next cycle.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	if symbol == "" {
		return 0, fmt.Errorf("symbol is required")
	}

	apiURL := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", c.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch ticker: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("ticker API error (status %d): %s", resp.StatusCode, string(body))
	}

	var tr tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return 0, fmt.Errorf("decode ticker response: %w", err)
	}

	price, err := strconv.ParseFloat(tr.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", tr.Price, err)
	}
	return price, nil
}
