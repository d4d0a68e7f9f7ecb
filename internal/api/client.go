package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AbdulWasayUl/country-cache-api/internal/logger"
	"github.com/AbdulWasayUl/country-cache-api/models"
)

type Client struct {
	httpClient *http.Client
	rateLimit  models.RateLimitSettings
	limiter    *time.Ticker
}

func NewClient(rl models.RateLimitSettings) *Client {
	interval := rl.PerDuration / time.Duration(rl.MaxRequests)

	ticker := time.NewTicker(interval)

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		rateLimit:  rl,
		limiter:    ticker,
	}
}

// Do performs a rate-limited GET with retries on transport errors and 429s.
// Any other non-2xx status fails immediately.
func (c *Client) Do(ctx context.Context, url string, headers map[string]string) ([]byte, error) {

	select {
	case <-c.limiter.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	const maxRetries = 3
	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		logger.Debug("Making request to %s (attempt %d)", url, i+1)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			logger.Error("HTTP request failed (attempt %d): %v", i+1, err)
			if err := sleepCtx(ctx, 2*time.Second); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, readErr

		case resp.StatusCode == http.StatusTooManyRequests:
			logger.Error("API returned 429 Too Many Requests (attempt %d)", i+1)
			if err := sleepCtx(ctx, 5*time.Second); err != nil {
				return nil, err
			}

		case resp.StatusCode >= 400:
			logger.Error("API returned status code %d. Body: %s", resp.StatusCode, string(body))
			return nil, errors.New("API returned non-OK status: " + resp.Status)
		}
	}

	return nil, errors.New("failed to fetch data after max retries")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
