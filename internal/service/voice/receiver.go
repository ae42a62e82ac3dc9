package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/templui/goalvoice/internal/model"
	"github.com/templui/goalvoice/internal/repository"
)

var (
	ErrInvalidPayload = errors.New("missing userId in metadata")
	ErrUnknownUser    = errors.New("user not found")
)

// CallPayload is the end-of-call webhook body sent by the voice provider.
type CallPayload struct {
	Call struct {
		ID string `json:"id"`
	} `json:"call"`
	Transcript string         `json:"transcript"`
	Summary    string         `json:"summary"`
	Metadata   map[string]any `json:"metadata"`
}

// UserLookup resolves a user id to contact details.
type UserLookup interface {
	Contact(ctx context.Context, id int64) (*model.Contact, error)
}

// Call is a validated payload with its resolved user.
type Call struct {
	User       model.Contact
	CallID     string
	Transcript string
	Summary    string
}

type Receiver struct {
	users UserLookup
}

func NewReceiver(users UserLookup) *Receiver {
	return &Receiver{users: users}
}

// Receive validates the payload and resolves its user. It fails with
// ErrInvalidPayload or ErrUnknownUser and performs no writes.
func (r *Receiver) Receive(ctx context.Context, p CallPayload) (*Call, error) {
	userID, err := parseUserID(p.Metadata["userId"])
	if err != nil {
		return nil, err
	}

	contact, err := r.users.Contact(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUser, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return &Call{
		User:       *contact,
		CallID:     p.Call.ID,
		Transcript: p.Transcript,
		Summary:    p.Summary,
	}, nil
}

// parseUserID accepts the user id as a JSON string or number.
func parseUserID(v any) (int64, error) {
	var id int64

	switch val := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: userId %q is not an integer", ErrInvalidPayload, val)
		}
		id = n
	case float64:
		if val != math.Trunc(val) || val > math.MaxInt64 {
			return 0, fmt.Errorf("%w: userId %v is not an integer", ErrInvalidPayload, val)
		}
		id = int64(val)
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: userId %q is not an integer", ErrInvalidPayload, val)
		}
		id = n
	case nil:
		return 0, ErrInvalidPayload
	default:
		return 0, fmt.Errorf("%w: userId has type %T", ErrInvalidPayload, v)
	}

	if id <= 0 {
		return 0, fmt.Errorf("%w: userId must be positive", ErrInvalidPayload)
	}

	return id, nil
}
