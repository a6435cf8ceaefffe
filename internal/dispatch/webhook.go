package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/example/guriri-dispatch/internal/models"
)

// Dispatcher delivers assignment offers to couriers.
type Dispatcher interface {
	Offer(offer models.AssignmentOffer) error
}

// WebhookDispatcher tries the courier's live websocket session first and
// falls back to POSTing the offer to a configured webhook endpoint. With no
// endpoint configured the fallback is a no-op.
type WebhookDispatcher struct {
	Endpoint string
	Client   *http.Client
	WS       *WSRegistry
}

func NewWebhookDispatcher(endpoint string, ws *WSRegistry) *WebhookDispatcher {
	return &WebhookDispatcher{Endpoint: endpoint, Client: &http.Client{Timeout: 3 * time.Second}, WS: ws}
}

func (d *WebhookDispatcher) Offer(offer models.AssignmentOffer) error {
	if d.WS != nil {
		if err := d.WS.Offer(offer.MotoboyID, offer); err == nil {
			return nil
		}
	}
	if d.Endpoint == "" {
		return nil
	}
	b, err := json.Marshal(offer)
	if err != nil {
		return err
	}
	resp, err := d.Client.Post(d.Endpoint, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook dispatch: status %d", resp.StatusCode)
	}
	return nil
}
