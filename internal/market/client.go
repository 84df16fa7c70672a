// Package market is a thin client over the external quote API the journal
// proxies for its snapshot view.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jpillora/backoff"
	"github.com/quantlog/quantlog/internal/domain/dto"
)

const maxAttempts = 3

// Client fetches market snapshots for a symbol.
type Client interface {
	Snapshot(ctx context.Context, symbol string) (*dto.MarketSnapshotResponse, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a Client against the configured quote API.
func NewClient(baseURL, apiKey string) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// quote is the upstream response shape.
type quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        int64   `json:"volume"`
	Timestamp     string  `json:"timestamp"`
}

// Snapshot fetches the current quote for symbol. Transport errors and 5xx
// responses are retried with exponential backoff up to maxAttempts; 4xx
// responses fail immediately since retrying cannot fix them.
func (c *httpClient) Snapshot(ctx context.Context, symbol string) (*dto.MarketSnapshotResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/quote?symbol=%s", c.baseURL, url.QueryEscape(symbol))

	b := &backoff.Backoff{
		Min:    200 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.Duration()):
			}
		}

		q, retryable, err := c.fetch(ctx, endpoint)
		if err == nil {
			return &dto.MarketSnapshotResponse{
				Symbol:        q.Symbol,
				Price:         q.Price,
				ChangePercent: q.ChangePercent,
				High:          q.High,
				Low:           q.Low,
				Volume:        q.Volume,
				AsOf:          q.Timestamp,
			}, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("quote for %s after %d attempts: %w", symbol, maxAttempts, lastErr)
}

func (c *httpClient) fetch(ctx context.Context, endpoint string) (*quote, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("quote API status %d: %s", resp.StatusCode, body)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("quote API status %d: %s", resp.StatusCode, body)
	}

	var q quote
	if err := json.Unmarshal(body, &q); err != nil {
		return nil, false, fmt.Errorf("decode quote: %w", err)
	}
	return &q, false, nil
}
