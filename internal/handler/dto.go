package handler

import (
	"time"

	"github.com/templui/goalvoice/internal/model"
	"github.com/templui/goalvoice/internal/service"
)

type userResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	PhoneNumber *string   `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUserResponse(a *model.Account) userResponse {
	res := userResponse{
		ID:        a.User.ID,
		Email:     a.User.Email,
		CreatedAt: a.User.CreatedAt,
	}
	if a.Profile != nil {
		res.FullName = a.Profile.FullName
		res.PhoneNumber = a.Profile.PhoneNumber
	}
	return res
}

type goalResponse struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"userId"`
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	Category         string     `json:"category"`
	Status           string     `json:"status"`
	CreatedFromVoice bool       `json:"createdFromVoice"`
	CallID           *string    `json:"callId"`
	TargetDate       *time.Time `json:"targetDate"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func toGoalResponse(g *model.Goal) goalResponse {
	return goalResponse{
		ID:               g.ID,
		UserID:           g.UserID,
		Title:            g.Title,
		Description:      g.Description,
		Category:         g.Category,
		Status:           g.Status,
		CreatedFromVoice: g.CreatedFromVoice,
		CallID:           g.CallID,
		TargetDate:       g.TargetDate,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

type goalListResponse struct {
	Goals  []goalResponse `json:"goals"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func toGoalListResponse(l *service.GoalList) goalListResponse {
	goals := make([]goalResponse, 0, len(l.Goals))
	for _, g := range l.Goals {
		goals = append(goals, toGoalResponse(g))
	}
	return goalListResponse{Goals: goals, Total: l.Total, Limit: l.Limit, Offset: l.Offset}
}

type conversationResponse struct {
	ID            int64     `json:"id"`
	CallID        string    `json:"callId"`
	Summary       *string   `json:"summary"`
	GoalsCreated  int       `json:"goalsCreated"`
	TranscriptURL string    `json:"transcriptUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
