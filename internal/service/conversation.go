package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalvoice/internal/model"
	"github.com/templui/goalvoice/internal/repository"
	"github.com/templui/goalvoice/internal/storage"
)

const (
	DefaultConversationLimit = 20
	transcriptURLExpiry      = time.Hour
)

type RecordConversationInput struct {
	UserID       int64
	CallID       string
	Summary      string
	Transcript   string
	GoalsCreated int
}

// ConversationView is a recorded call plus a temporary transcript link when
// the transcript was archived.
type ConversationView struct {
	*model.Conversation
	TranscriptURL string
}

type ConversationService struct {
	repo    repository.ConversationRepository
	archive storage.Storage // nil: transcripts are not archived
}

func NewConversationService(repo repository.ConversationRepository, archive storage.Storage) *ConversationService {
	return &ConversationService{repo: repo, archive: archive}
}

// Record stores one completed call. The transcript upload is best-effort: a
// failed upload still records the conversation without a transcript key.
func (s *ConversationService) Record(ctx context.Context, in RecordConversationInput) (*model.Conversation, error) {
	callID := in.CallID
	if callID == "" {
		callID = uuid.NewString()
	}

	c := &model.Conversation{
		UserID:       in.UserID,
		CallID:       callID,
		GoalsCreated: in.GoalsCreated,
		CreatedAt:    time.Now().UTC(),
	}
	if summary := strings.TrimSpace(in.Summary); summary != "" {
		c.Summary = &summary
	}

	if s.archive != nil && in.Transcript != "" {
		key := fmt.Sprintf("transcripts/%d/%s.txt", in.UserID, callID)
		err := s.archive.Save(ctx, key, "text/plain; charset=utf-8", strings.NewReader(in.Transcript))
		if err != nil {
			slog.Warn("failed to archive transcript", "error", err, "user_id", in.UserID, "call_id", callID)
		} else {
			c.TranscriptKey = &key
		}
	}

	err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to record conversation: %w", err)
	}

	return c, nil
}

func (s *ConversationService) Conversations(ctx context.Context, userID int64, limit int) ([]ConversationView, error) {
	if limit <= 0 {
		limit = DefaultConversationLimit
	}

	conversations, err := s.repo.ByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, c := range conversations {
		view := ConversationView{Conversation: c}
		if c.TranscriptKey != nil && s.archive != nil {
			url, err := s.archive.PresignedURL(ctx, *c.TranscriptKey, transcriptURLExpiry)
			if err != nil {
				slog.Warn("failed to presign transcript", "error", err, "conversation_id", c.ID)
			} else {
				view.TranscriptURL = url
			}
		}
		views = append(views, view)
	}

	return views, nil
}
