package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"guild-ledger/services"
)

// WebhookAnnouncer posts achievement announcements to an external webhook
// (the chat gateway renders them). Delivery is fire-and-forget: AnnounceUnlock
// queues and returns immediately, and a full queue drops the announcement
// rather than stalling the unlock path.
type WebhookAnnouncer struct {
	URL        string
	Token      string
	HTTPClient *http.Client

	queue chan services.Announcement
}

func NewWebhookAnnouncer(url, token string) *WebhookAnnouncer {
	return &WebhookAnnouncer{
		URL:   url,
		Token: token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		queue: make(chan services.Announcement, 128),
	}
}

// AnnounceUnlock implements services.Announcer.
func (w *WebhookAnnouncer) AnnounceUnlock(a services.Announcement) error {
	select {
	case w.queue <- a:
		return nil
	default:
		return fmt.Errorf("announcement queue full, dropped %s", a.Code)
	}
}

// Start drains the queue until ctx is cancelled. Run it in its own goroutine.
func (w *WebhookAnnouncer) Start(ctx context.Context) {
	log.Printf("Starting announcement worker → %s", w.URL)
	for {
		select {
		case <-ctx.Done():
			log.Println("Announcement worker stopped.")
			return
		case a := <-w.queue:
			if err := w.post(ctx, a); err != nil {
				log.Printf("❌ Failed to deliver announcement %s: %v", a.Code, err)
			}
		}
	}
}

func (w *WebhookAnnouncer) post(ctx context.Context, a services.Announcement) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode announcement: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.Token != "" {
		req.Header.Set("X-Service-Token", w.Token)
	}

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
