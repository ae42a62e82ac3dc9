package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/templui/goalvoice/internal/model"
	"github.com/templui/goalvoice/internal/repository"
)

const (
	DefaultGoalLimit = 10
	MaxGoalLimit     = 100
	MaxTitleLength   = 200
)

var (
	ErrGoalForbidden   = errors.New("not your goal")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title is too long")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidStatus   = errors.New("invalid status")
)

type CreateGoalInput struct {
	UserID           int64
	Title            string
	Description      *string
	Category         string
	TargetDate       *time.Time
	CreatedFromVoice bool
	CallID           *string
}

// UpdateGoalInput changes only the non-nil fields.
type UpdateGoalInput struct {
	Title       *string
	Description *string
	Category    *string
	Status      *string
	TargetDate  *time.Time
}

type GoalQuery struct {
	Status   string
	Category string
	Limit    int
	Offset   int
}

type GoalList struct {
	Goals  []*model.Goal
	Total  int
	Limit  int
	Offset int
}

type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

func (s *GoalService) Create(ctx context.Context, in CreateGoalInput) (*model.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len([]rune(title)) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if !model.IsGoalCategory(in.Category) {
		return nil, ErrInvalidCategory
	}

	now := time.Now().UTC()
	goal := &model.Goal{
		UserID:           in.UserID,
		Title:            title,
		Description:      in.Description,
		Category:         in.Category,
		Status:           model.GoalStatusActive,
		CreatedFromVoice: in.CreatedFromVoice,
		CallID:           in.CallID,
		TargetDate:       in.TargetDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

// ByID returns the goal if it belongs to userID.
func (s *GoalService) ByID(ctx context.Context, userID, goalID int64) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if goal.UserID != userID {
		return nil, ErrGoalForbidden
	}

	return goal, nil
}

func (s *GoalService) List(ctx context.Context, userID int64, q GoalQuery) (*GoalList, error) {
	if q.Status != "" && !model.IsGoalStatus(q.Status) {
		return nil, ErrInvalidStatus
	}
	if q.Category != "" && !model.IsGoalCategory(q.Category) {
		return nil, ErrInvalidCategory
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultGoalLimit
	}
	limit = min(limit, MaxGoalLimit)
	offset := max(q.Offset, 0)

	goals, total, err := s.repo.Goals(ctx, userID, repository.GoalFilter{
		Status:   q.Status,
		Category: q.Category,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}

	return &GoalList{Goals: goals, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *GoalService) Update(ctx context.Context, userID, goalID int64, in UpdateGoalInput) (*model.Goal, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if len([]rune(title)) > MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		in.Title = &title
	}
	if in.Category != nil && !model.IsGoalCategory(*in.Category) {
		return nil, ErrInvalidCategory
	}
	if in.Status != nil && !model.IsGoalStatus(*in.Status) {
		return nil, ErrInvalidStatus
	}

	// Verify ownership
	_, err := s.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, goalID, repository.GoalUpdate{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      in.Status,
		TargetDate:  in.TargetDate,
	})
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID int64) error {
	// Verify ownership
	_, err := s.ByID(ctx, userID, goalID)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, goalID)
}
