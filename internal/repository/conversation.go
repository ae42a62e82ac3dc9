package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalvoice/internal/model"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *model.Conversation) error
	ByUser(ctx context.Context, userID int64, limit int) ([]*model.Conversation, error)
}

type conversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, c *model.Conversation) error {
	query := `INSERT INTO conversations (user_id, call_id, summary, transcript_key, goals_created, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	return r.db.QueryRowxContext(ctx, query,
		c.UserID,
		c.CallID,
		c.Summary,
		c.TranscriptKey,
		c.GoalsCreated,
		c.CreatedAt,
	).Scan(&c.ID)
}

func (r *conversationRepository) ByUser(ctx context.Context, userID int64, limit int) ([]*model.Conversation, error) {
	query := `SELECT id, user_id, call_id, summary, transcript_key, goals_created, created_at
	          FROM conversations
	          WHERE user_id = $1
	          ORDER BY created_at DESC, id DESC
	          LIMIT $2`

	conversations := []*model.Conversation{}
	err := r.db.SelectContext(ctx, &conversations, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return conversations, nil
}
