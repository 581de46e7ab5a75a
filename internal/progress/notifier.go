package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Notifier posts progress snapshots to an optional webhook. Delivery is
// best effort: a dead webhook must never slow down or fail the run.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// NewNotifier creates a webhook notifier. An empty URL disables it.
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook is configured.
func (n *Notifier) Enabled() bool {
	return n.webhookURL != ""
}

// Notify sends the snapshot with a headline message. Errors are logged and
// swallowed.
func (n *Notifier) Notify(ctx context.Context, snap Snapshot, message string) {
	if !n.Enabled() {
		return
	}
	if err := n.post(ctx, snap, message); err != nil {
		zap.L().Warn("progress webhook delivery failed", zap.Error(err))
	}
}

func (n *Notifier) post(ctx context.Context, snap Snapshot, message string) error {
	payload := struct {
		Message  string   `json:"message"`
		Snapshot Snapshot `json:"snapshot"`
	}{Message: message, Snapshot: snap}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "progress: marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "progress: build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "progress: post webhook")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return eris.Errorf("progress: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
