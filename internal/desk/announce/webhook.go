package announce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/service"
	"go.uber.org/zap"
)

// webhookResponse chat bot reply; code 0 is success.
type webhookResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// WebhookAnnouncer posts acceptance cards to a chat group bot webhook.
type WebhookAnnouncer struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewWebhookAnnouncer(url string, logger *zap.Logger) *WebhookAnnouncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookAnnouncer{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// AnnounceAcceptance implements service.Announcer.
func (w *WebhookAnnouncer) AnnounceAcceptance(ctx context.Context, a service.Acceptance) error {
	err := w.send(ctx, NewAcceptanceCard(a))
	if err == nil {
		w.logger.Debug("acceptance card sent", zap.String("quote_request_id", a.RequestID))
	}
	return err
}

func (w *WebhookAnnouncer) send(ctx context.Context, card InteractiveCard) error {
	body, err := json.Marshal(map[string]interface{}{
		"msg_type": "interactive",
		"card":     card,
	})
	if err != nil {
		return fmt.Errorf("encode card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read webhook response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}

	var result webhookResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("decode webhook response: %w", err)
		}
	}
	if result.Code != 0 {
		return fmt.Errorf("webhook error[%d]: %s", result.Code, result.Msg)
	}
	return nil
}
