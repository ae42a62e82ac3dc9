package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/goalvoice/internal/ctxkeys"
	"github.com/templui/goalvoice/internal/response"
	"github.com/templui/goalvoice/internal/service"
)

type ConversationHandler struct {
	conversationService *service.ConversationService
}

func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
	}
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	limit, err := intParam(r.URL.Query().Get("limit"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	limit = min(limit, 100)

	views, err := h.conversationService.Conversations(r.Context(), user.ID, limit)
	if err != nil {
		slog.Error("failed to list conversations", "error", err, "user_id", user.ID)
		response.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	out := make([]conversationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, conversationResponse{
			ID:            v.ID,
			CallID:        v.CallID,
			Summary:       v.Summary,
			GoalsCreated:  v.GoalsCreated,
			TranscriptURL: v.TranscriptURL,
			CreatedAt:     v.CreatedAt,
		})
	}

	response.OK(w, http.StatusOK, out)
}
