// Package notify delivers plain text notifications to a chat webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	ErrWebhookNotConfigured = errors.New("notify: webhook url not configured")
	ErrUnexpectedStatus     = errors.New("notify: unexpected webhook status")
)

// Sender 傳送一則文字訊息
type Sender interface {
	Send(ctx context.Context, message string) error
}

// SlackSender 以 Slack incoming webhook 傳送訊息
type SlackSender struct {
	url    string
	client *http.Client
}

func NewSlackSender(url string, timeout time.Duration) *SlackSender {
	return &SlackSender{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type slackPayload struct {
	Text string `json:"text"`
}

// Send 只在 2xx 時回傳 nil，不重試
func (s *SlackSender) Send(ctx context.Context, message string) error {
	if s.url == "" {
		return ErrWebhookNotConfigured
	}

	body, err := json.Marshal(slackPayload{Text: message})
	if err != nil {
		return fmt.Errorf("notify: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}
