package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/goalvoice/internal/response"
	"github.com/templui/goalvoice/internal/service/voice"
	"github.com/templui/goalvoice/internal/validation"
)

type WebhookHandler struct {
	pipeline *voice.Pipeline
	verifier *voice.Verifier
}

// NewWebhookHandler takes a nil verifier to accept unsigned webhooks.
func NewWebhookHandler(pipeline *voice.Pipeline, verifier *voice.Verifier) *WebhookHandler {
	return &WebhookHandler{
		pipeline: pipeline,
		verifier: verifier,
	}
}

type createdGoal struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

type conversationEndResponse struct {
	GoalsCreated          []createdGoal `json:"goalsCreated"`
	TotalGoals            int           `json:"totalGoals"`
	NotificationAttempted bool          `json:"notificationAttempted"`
	ConversationSaved     bool          `json:"conversationSaved"`
}

// ConversationEnd runs the voice pipeline for a finished call.
func (h *WebhookHandler) ConversationEnd(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, validation.MaxBodyBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	err = h.verifier.Verify(body, r.Header)
	if err != nil {
		slog.Warn("rejected voice webhook", "error", err)
		response.Error(w, http.StatusUnauthorized, "Invalid webhook signature")
		return
	}

	var payload voice.CallPayload
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	err = dec.Decode(&payload)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	slog.Info("voice webhook received", "call_id", payload.Call.ID)

	res, err := h.pipeline.Run(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, voice.ErrInvalidPayload):
			response.Error(w, http.StatusBadRequest, "Missing userId in metadata")
		case errors.Is(err, voice.ErrUnknownUser):
			response.Error(w, http.StatusNotFound, "User not found")
		default:
			slog.Error("voice webhook failed", "error", err, "call_id", payload.Call.ID)
			response.Error(w, http.StatusInternalServerError, "Server error processing webhook")
		}
		return
	}

	goals := make([]createdGoal, 0, len(res.Goals))
	for _, g := range res.Goals {
		goals = append(goals, createdGoal{ID: g.ID, Title: g.Title, Category: g.Category})
	}

	response.OK(w, http.StatusOK, conversationEndResponse{
		GoalsCreated:          goals,
		TotalGoals:            len(goals),
		NotificationAttempted: res.NotificationAttempted,
		ConversationSaved:     res.ConversationSaved,
	})
}
