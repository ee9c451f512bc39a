package telegram

import (
	"bytes"
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
	defaultBase = "https://api.telegram.org"

	// Telegram limita ~1 mensaje/segundo por chat; los batches son chicos
	// así que con esto alcanza de sobra.
	messagesPerSec = 1

	maxRetries    = 3
	baseRetryWait = 1 * time.Second
)

// Client implementa ports.Notifier enviando un mensaje Markdown por
// listing vía la API sendMessage de Telegram.
type Client struct {
	http    *http.Client
	base    string
	token   string
	chatID  string
	limiter *rate.Limiter
}

// NewClient crea un Client con el token y chat de destino dados.
func NewClient(token, chatID string) *Client {
	return NewClientBase(defaultBase, token, chatID)
}

// NewClientBase permite apuntar a otro base URL (tests).
func NewClientBase(base, token, chatID string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		base:    base,
		token:   token,
		chatID:  chatID,
		limiter: rate.NewLimiter(messagesPerSec, 1),
	}
}

// sendMessageRequest es el body de la llamada sendMessage.
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// apiResponse es la respuesta genérica de la Bot API.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// Send entrega la notificación del resultado. Devuelve error si Telegram
// no confirmó la entrega: el llamador decide no commitear y reintentar.
func (c *Client) Send(ctx context.Context, res domain.EvaluationResult) error {
	body := sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  formatMessage(res),
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	}
	if err := c.post(ctx, body); err != nil {
		return fmt.Errorf("telegram.Send: listing %s: %w", res.Listing.ID, err)
	}
	return nil
}

// post hace la llamada sendMessage con rate limiting y retries sobre
// 429 (respetando retry_after) y 5xx.
func (c *Client) post(ctx context.Context, body sendMessageRequest) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.base, c.token)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		wait := baseRetryWait << attempt

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
		} else {
			raw, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = readErr
			} else {
				var api apiResponse
				if err := json.Unmarshal(raw, &api); err != nil {
					lastErr = fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
				} else if api.OK {
					return nil
				} else if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
					lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, api.Description)
					if api.Parameters.RetryAfter > 0 {
						wait = time.Duration(api.Parameters.RetryAfter) * time.Second
					}
				} else {
					// 4xx definitivo: chat inexistente, markdown roto, etc.
					return fmt.Errorf("status %d: %s", resp.StatusCode, api.Description)
				}
			}
		}

		if attempt < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	return fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
