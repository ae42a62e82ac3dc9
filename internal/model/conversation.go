package model

import "time"

// Conversation records one completed voice call and what it produced.
type Conversation struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	CallID        string    `db:"call_id"`
	Summary       *string   `db:"summary"`
	TranscriptKey *string   `db:"transcript_key"` // object storage key, nil when not archived
	GoalsCreated  int       `db:"goals_created"`
	CreatedAt     time.Time `db:"created_at"`
}
