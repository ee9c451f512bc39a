package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/ebaybot/internal/domain"
)

const (
	// El feed se consulta una vez por ciclo; el limiter solo protege
	// contra reintentos agresivos y usos manuales seguidos.
	feedRatePerSec = 1

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client obtiene los listings activos desde el feed JSON del scraper,
// con rate limiting y retries.
type Client struct {
	http    *http.Client
	url     string
	limiter *rate.Limiter
	now     func() time.Time
}

// NewClient crea un Client para el URL de feed dado.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		url:     url,
		limiter: rate.NewLimiter(feedRatePerSec, 2),
		now:     time.Now,
	}
}

// FetchListings implementa ports.ListingProvider: descarga el feed,
// descarta registros malformados y devuelve los listings del ciclo.
func (c *Client) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	var records []listingRecord
	if err := c.get(ctx, &records); err != nil {
		return nil, fmt.Errorf("feed.FetchListings: %w", err)
	}
	return mapListings(records, c.now()), nil
}

// get hace un GET con rate limiting y retries sobre 429/5xx.
func (c *Client) get(ctx context.Context, out any) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()

			switch {
			case readErr != nil:
				lastErr = readErr
			case resp.StatusCode == http.StatusOK:
				if err := json.Unmarshal(body, out); err != nil {
					return fmt.Errorf("decode response: %w", err)
				}
				return nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = fmt.Errorf("GET %s: status %d", c.url, resp.StatusCode)
			default:
				// 4xx que no sea rate limit no se reintenta
				return fmt.Errorf("GET %s: status %d", c.url, resp.StatusCode)
			}
		}

		// Backoff exponencial entre intentos
		if attempt < maxRetries-1 {
			wait := baseRetryWait << attempt
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	return fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
