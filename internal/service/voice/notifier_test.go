package voice_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalvoice/internal/service/voice"
)

func notification() voice.NotificationRequest {
	return voice.NotificationRequest{
		OwnerID:     7,
		DisplayName: "Ada",
		PhoneNumber: "+15550100",
		Summary:     "Talked about fitness",
		Goals:       []voice.GoalSummary{{Title: "run a 10k", Category: "health"}},
		Timestamp:   time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestRelayNotifier_PostsJSON(t *testing.T) {
	var got map[string]any
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("webhook-signature"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := voice.NewRelayNotifier(voice.RelayConfig{URL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, n.Notify(context.Background(), notification()))

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, float64(7), got["ownerId"])
	assert.Equal(t, "Ada", got["displayName"])
	assert.Equal(t, "+15550100", got["phoneNumber"])
	assert.Equal(t, "Talked about fitness", got["summary"])
	assert.Equal(t, "2025-03-01T09:30:00Z", got["timestamp"])
	assert.Equal(t, []any{map[string]any{"title": "run a 10k", "category": "health"}}, got["goals"])
	assert.Contains(t, got["message"], "run a 10k (Health)")
}

func TestRelayNotifier_SignsBody(t *testing.T) {
	secret := []byte("relay-signing-secret")
	verifier, err := standardwebhooks.NewWebhookRaw(secret)
	require.NoError(t, err)

	var verifyErr error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		verifyErr = verifier.Verify(body, r.Header)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n, err := voice.NewRelayNotifier(voice.RelayConfig{URL: srv.URL, SigningSecret: string(secret)})
	require.NoError(t, err)
	require.NoError(t, n.Notify(context.Background(), notification()))
	assert.NoError(t, verifyErr)
}

func TestRelayNotifier_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n, err := voice.NewRelayNotifier(voice.RelayConfig{URL: srv.URL})
	require.NoError(t, err)

	err = n.Notify(context.Background(), notification())
	assert.ErrorContains(t, err, "502")
}

func TestRelayNotifier_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	n, err := voice.NewRelayNotifier(voice.RelayConfig{URL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	err = n.Notify(context.Background(), notification())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRelayNotifier_NotConfigured(t *testing.T) {
	n, err := voice.NewRelayNotifier(voice.RelayConfig{})
	require.NoError(t, err)

	err = n.Notify(context.Background(), notification())
	assert.ErrorIs(t, err, voice.ErrRelayNotConfigured)
}

func TestRenderMessage(t *testing.T) {
	req := notification()
	req.DisplayName = ""
	req.Goals = append(req.Goals, voice.GoalSummary{Title: "save 1k", Category: "financial"})

	msg := voice.RenderMessage(req)
	assert.Contains(t, msg, "Hi there!")
	assert.Contains(t, msg, "Talked about fitness")
	assert.Contains(t, msg, "- run a 10k (Health)")
	assert.Contains(t, msg, "- save 1k (Financial)")
}

func TestVerifier(t *testing.T) {
	none, err := voice.NewVerifier("")
	require.NoError(t, err)
	assert.NoError(t, none.Verify([]byte("{}"), http.Header{}))

	secret := "inbound-secret"
	v, err := voice.NewVerifier(secret)
	require.NoError(t, err)

	signer, err := standardwebhooks.NewWebhookRaw([]byte(secret))
	require.NoError(t, err)

	body := []byte(`{"call":{"id":"c1"}}`)
	now := time.Now()
	sig, err := signer.Sign("msg_1", now, body)
	require.NoError(t, err)

	headers := http.Header{}
	headers.Set("webhook-id", "msg_1")
	headers.Set("webhook-timestamp", strconv.FormatInt(now.Unix(), 10))
	headers.Set("webhook-signature", sig)
	assert.NoError(t, v.Verify(body, headers))

	assert.ErrorIs(t, v.Verify([]byte(`{"call":{"id":"c2"}}`), headers), voice.ErrInvalidSignature)
	assert.ErrorIs(t, v.Verify(body, http.Header{}), voice.ErrInvalidSignature)
}
