package reminder

//go:generate go run go.uber.org/mock/mockgen -source=./sender.go -destination=./mocks/sender_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"scheduleright/config"
)

type Sender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

type httpSender struct {
	client   *http.Client
	endpoint string
	apiKey   string
	from     string
}

func NewSender(cfg *config.Config) Sender {
	return &httpSender{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: cfg.SMS.Endpoint,
		apiKey:   cfg.SMS.APIKey,
		from:     cfg.SMS.Sender,
	}
}

func (s *httpSender) SendSMS(ctx context.Context, to, message string) error {
	body, err := json.Marshal(smsRequest{
		To:      to,
		From:    s.from,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sms provider: %w", err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}

	return nil
}
