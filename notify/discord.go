// Package notify delivers Discord webhook notifications as embeds. Delivery
// is fire-and-forget: callers get a bool, never an error.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Webhook posts embeds to a Discord webhook URL.
type Webhook struct {
	URL        string
	HTTPClient *http.Client
}

// NewWebhook returns a Webhook, or nil when url is empty so callers can pass
// the result straight to the watch loop.
func NewWebhook(url string) *Webhook {
	if url == "" {
		return nil
	}
	return &Webhook{URL: url}
}

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp"`
}

type payload struct {
	Embeds []embed `json:"embeds"`
}

// Send delivers one embed. Returns true on a 2xx response; all failures are
// logged at debug level and reported as false.
func (w *Webhook) Send(ctx context.Context, title, message string, color int) bool {
	body, err := json.Marshal(payload{Embeds: []embed{{
		Title:       title,
		Description: message,
		Color:       color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}}})
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	hc := w.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		slog.Debug("discord webhook request failed", slog.Any("err", err))
		return false
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	// Discord returns 204 No Content on success.
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
