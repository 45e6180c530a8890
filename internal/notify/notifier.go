// Package notify delivers best-effort order notifications to the shop's
// Telegram bot relay. Delivery failures never affect order placement.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Notifier defines the interface for outbound order notifications.
type Notifier interface {
	// OrderPlaced sends a human-readable description of a new order.
	OrderPlaced(ctx context.Context, text string) error
}

// message is the payload the bot relay expects.
type message struct {
	Message string `json:"message"`
}

// botNotifier implements Notifier over HTTP against the bot relay endpoint.
type botNotifier struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewBotNotifier creates an HTTP notifier with a bounded request timeout.
func NewBotNotifier(url string, timeout time.Duration, logger zerolog.Logger) Notifier {
	return &botNotifier{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "bot-notifier").Logger(),
	}
}

// OrderPlaced posts the order text to the bot relay.
func (n *botNotifier) OrderPlaced(ctx context.Context, text string) error {
	payload, err := json.Marshal(message{Message: text})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn().Err(err).Str("url", n.url).Msg("failed to deliver order notification")
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.logger.Warn().
			Int("status", resp.StatusCode).
			Str("url", n.url).
			Msg("bot relay rejected order notification")
		return fmt.Errorf("bot relay returned status %d", resp.StatusCode)
	}

	n.logger.Debug().Msg("order notification delivered")
	return nil
}

// noopNotifier is used when notifications are disabled.
type noopNotifier struct{}

// NewNoopNotifier creates a notifier that silently drops every message.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

// OrderPlaced discards the message.
func (noopNotifier) OrderPlaced(ctx context.Context, text string) error {
	return nil
}
