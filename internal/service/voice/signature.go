package voice

import (
	"errors"
	"fmt"
	"net/http"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// Verifier checks Standard Webhooks signatures on inbound call webhooks.
// A nil Verifier accepts everything.
type Verifier struct {
	wh *standardwebhooks.Webhook
}

// NewVerifier returns nil when secret is empty.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, nil
	}

	wh, err := standardwebhooks.NewWebhookRaw([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook verifier: %w", err)
	}

	return &Verifier{wh: wh}, nil
}

func (v *Verifier) Verify(payload []byte, headers http.Header) error {
	if v == nil {
		return nil
	}

	err := v.wh.Verify(payload, headers)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return nil
}
