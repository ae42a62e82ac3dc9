package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/templui/goalvoice/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

var goalColumns = []string{
	"id", "user_id", "title", "description", "category", "status",
	"created_from_voice", "call_id", "target_date", "created_at", "updated_at",
}

// psql builds statements with $n placeholders, understood by both pgx and sqlite.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// GoalFilter narrows and pages a user's goal list. Empty strings mean "any".
type GoalFilter struct {
	Status   string
	Category string
	Limit    int
	Offset   int
}

// GoalUpdate carries the fields to change; nil fields are left untouched.
type GoalUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Status      *string
	TargetDate  *time.Time
}

func (u GoalUpdate) empty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil && u.Status == nil && u.TargetDate == nil
}

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, goalID int64) (*model.Goal, error)
	Goals(ctx context.Context, userID int64, filter GoalFilter) ([]*model.Goal, int, error)
	Update(ctx context.Context, goalID int64, update GoalUpdate) (*model.Goal, error)
	Delete(ctx context.Context, goalID int64) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

// Create inserts the goal and sets goal.ID from the database.
func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (user_id, title, description, category, status, created_from_voice, call_id, target_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	return r.db.QueryRowxContext(ctx, query,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.Status,
		goal.CreatedFromVoice,
		goal.CallID,
		goal.TargetDate,
		goal.CreatedAt,
		goal.UpdatedAt,
	).Scan(&goal.ID)
}

func (r *goalRepository) ByID(ctx context.Context, goalID int64) (*model.Goal, error) {
	query, args, err := psql.Select(goalColumns...).From("goals").Where(sq.Eq{"id": goalID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build goal query: %w", err)
	}

	goal := &model.Goal{}
	err = r.db.GetContext(ctx, goal, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Goals returns one page of the user's goals, newest first, and the total
// number of goals matching the filter.
func (r *goalRepository) Goals(ctx context.Context, userID int64, filter GoalFilter) ([]*model.Goal, int, error) {
	where := sq.Eq{"user_id": userID}
	if filter.Status != "" {
		where["status"] = filter.Status
	}
	if filter.Category != "" {
		where["category"] = filter.Category
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("goals").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build goal count: %w", err)
	}

	var total int
	err = r.db.GetContext(ctx, &total, countQuery, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("count goals: %w", err)
	}

	sel := psql.Select(goalColumns...).
		From("goals").
		Where(where).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		sel = sel.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		sel = sel.Offset(uint64(filter.Offset))
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build goal list: %w", err)
	}

	goals := []*model.Goal{}
	err = r.db.SelectContext(ctx, &goals, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list goals: %w", err)
	}

	return goals, total, nil
}

func (r *goalRepository) Update(ctx context.Context, goalID int64, update GoalUpdate) (*model.Goal, error) {
	if update.empty() {
		return r.ByID(ctx, goalID)
	}

	upd := psql.Update("goals").Where(sq.Eq{"id": goalID})
	if update.Title != nil {
		upd = upd.Set("title", *update.Title)
	}
	if update.Description != nil {
		upd = upd.Set("description", *update.Description)
	}
	if update.Category != nil {
		upd = upd.Set("category", *update.Category)
	}
	if update.Status != nil {
		upd = upd.Set("status", *update.Status)
	}
	if update.TargetDate != nil {
		upd = upd.Set("target_date", *update.TargetDate)
	}
	upd = upd.Set("updated_at", time.Now().UTC())

	query, args, err := upd.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build goal update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		return nil, ErrGoalNotFound
	}

	return r.ByID(ctx, goalID)
}

func (r *goalRepository) Delete(ctx context.Context, goalID int64) error {
	query := `DELETE FROM goals WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, goalID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
