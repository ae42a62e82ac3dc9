package model

import (
	"slices"
	"time"
)

const (
	GoalCategoryCareer        = "career"
	GoalCategoryHealth        = "health"
	GoalCategoryFinancial     = "financial"
	GoalCategoryEducation     = "education"
	GoalCategoryRelationships = "relationships"
	GoalCategoryPersonal      = "personal"
	GoalCategoryCreative      = "creative"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusAbandoned = "abandoned"
	GoalStatusOnHold    = "on_hold"
)

var GoalCategories = []string{
	GoalCategoryCareer,
	GoalCategoryHealth,
	GoalCategoryFinancial,
	GoalCategoryEducation,
	GoalCategoryRelationships,
	GoalCategoryPersonal,
	GoalCategoryCreative,
}

var GoalStatuses = []string{
	GoalStatusActive,
	GoalStatusCompleted,
	GoalStatusAbandoned,
	GoalStatusOnHold,
}

func IsGoalCategory(category string) bool {
	return slices.Contains(GoalCategories, category)
}

func IsGoalStatus(status string) bool {
	return slices.Contains(GoalStatuses, status)
}

type Goal struct {
	ID               int64      `db:"id"`
	UserID           int64      `db:"user_id"`
	Title            string     `db:"title"`
	Description      *string    `db:"description"`
	Category         string     `db:"category"`
	Status           string     `db:"status"`
	CreatedFromVoice bool       `db:"created_from_voice"`
	CallID           *string    `db:"call_id"`
	TargetDate       *time.Time `db:"target_date"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}
