package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultRelayTimeout = 5 * time.Second

var ErrRelayNotConfigured = errors.New("relay webhook URL not configured")

type GoalSummary struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// NotificationRequest is the summary relayed to the user's phone after a call.
type NotificationRequest struct {
	OwnerID     int64         `json:"ownerId"`
	DisplayName string        `json:"displayName"`
	PhoneNumber string        `json:"phoneNumber"`
	Summary     string        `json:"summary"`
	Goals       []GoalSummary `json:"goals"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Notifier delivers a NotificationRequest once. It does not retry.
type Notifier interface {
	Notify(ctx context.Context, req NotificationRequest) error
}

type RelayConfig struct {
	URL           string
	Timeout       time.Duration
	SigningSecret string // optional, signs the body with Standard Webhooks headers
	Client        *http.Client
}

// RelayNotifier posts notifications as JSON to a messaging relay, such as a
// workflow that forwards them over WhatsApp.
type RelayNotifier struct {
	url     string
	timeout time.Duration
	client  *http.Client
	signer  *standardwebhooks.Webhook
}

func NewRelayNotifier(cfg RelayConfig) (*RelayNotifier, error) {
	n := &RelayNotifier{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		client:  cfg.Client,
	}
	if n.timeout <= 0 {
		n.timeout = DefaultRelayTimeout
	}
	if n.client == nil {
		n.client = &http.Client{}
	}

	if cfg.SigningSecret != "" {
		wh, err := standardwebhooks.NewWebhookRaw([]byte(cfg.SigningSecret))
		if err != nil {
			return nil, fmt.Errorf("failed to create relay signer: %w", err)
		}
		n.signer = wh
	}

	return n, nil
}

type relayBody struct {
	NotificationRequest
	Message string `json:"message"`
}

func (n *RelayNotifier) Notify(ctx context.Context, req NotificationRequest) error {
	if n.url == "" {
		return ErrRelayNotConfigured
	}

	payload, err := json.Marshal(relayBody{NotificationRequest: req, Message: RenderMessage(req)})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if n.signer != nil {
		msgID := "msg_" + uuid.NewString()
		now := time.Now()
		signature, err := n.signer.Sign(msgID, now, payload)
		if err != nil {
			return fmt.Errorf("failed to sign notification: %w", err)
		}
		httpReq.Header.Set("webhook-id", msgID)
		httpReq.Header.Set("webhook-timestamp", fmt.Sprintf("%d", now.Unix()))
		httpReq.Header.Set("webhook-signature", signature)
	}

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay responded with status %d", resp.StatusCode)
	}

	return nil
}

// RenderMessage formats the notification as a chat message.
func RenderMessage(req NotificationRequest) string {
	var b strings.Builder

	name := req.DisplayName
	if name == "" {
		name = "there"
	}
	caser := cases.Title(language.English)
	fmt.Fprintf(&b, "Hi %s! Here is a recap of your voice session.\n\n%s\n\nNew goals:\n", name, req.Summary)
	for _, g := range req.Goals {
		fmt.Fprintf(&b, "- %s (%s)\n", g.Title, caser.String(g.Category))
	}

	return strings.TrimRight(b.String(), "\n")
}
