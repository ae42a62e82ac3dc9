package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/templui/goalvoice/internal/ctxkeys"
	"github.com/templui/goalvoice/internal/repository"
	"github.com/templui/goalvoice/internal/response"
	"github.com/templui/goalvoice/internal/service"
	"github.com/templui/goalvoice/internal/validation"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type createGoalRequest struct {
	Title            string  `json:"title" validate:"required,max=200"`
	Description      *string `json:"description"`
	Category         string  `json:"category" validate:"required,goal_category"`
	TargetDate       *string `json:"targetDate"`
	CreatedFromVoice bool    `json:"createdFromVoice"`
}

type updateGoalRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,goal_category"`
	Status      *string `json:"status" validate:"omitempty,goal_status"`
	TargetDate  *string `json:"targetDate"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	req, err := validation.DecodeJSON[createGoalRequest](r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	targetDate, err := parseTargetDate(req.TargetDate)
	if err != nil {
		response.Invalid(w, "Validation failed", err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), service.CreateGoalInput{
		UserID:           user.ID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		TargetDate:       targetDate,
		CreatedFromVoice: req.CreatedFromVoice,
	})
	if err != nil {
		h.writeError(w, err, "failed to create goal", user.ID)
		return
	}

	response.OK(w, http.StatusCreated, toGoalResponse(goal))
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "offset must be an integer")
		return
	}

	list, err := h.goalService.List(r.Context(), user.ID, service.GoalQuery{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.writeError(w, err, "failed to list goals", user.ID)
		return
	}

	response.OK(w, http.StatusOK, toGoalListResponse(list))
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, ok := goalIDParam(w, r)
	if !ok {
		return
	}

	goal, err := h.goalService.ByID(r.Context(), user.ID, goalID)
	if err != nil {
		h.writeError(w, err, "failed to get goal", user.ID)
		return
	}

	response.OK(w, http.StatusOK, toGoalResponse(goal))
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, ok := goalIDParam(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeJSON[updateGoalRequest](r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	targetDate, err := parseTargetDate(req.TargetDate)
	if err != nil {
		response.Invalid(w, "Validation failed", err)
		return
	}

	goal, err := h.goalService.Update(r.Context(), user.ID, goalID, service.UpdateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      req.Status,
		TargetDate:  targetDate,
	})
	if err != nil {
		h.writeError(w, err, "failed to update goal", user.ID)
		return
	}

	response.OK(w, http.StatusOK, toGoalResponse(goal))
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, ok := goalIDParam(w, r)
	if !ok {
		return
	}

	err := h.goalService.Delete(r.Context(), user.ID, goalID)
	if err != nil {
		h.writeError(w, err, "failed to delete goal", user.ID)
		return
	}

	response.Message(w, http.StatusOK, "Goal deleted successfully")
}

func (h *GoalHandler) writeError(w http.ResponseWriter, err error, msg string, userID int64) {
	switch {
	case errors.Is(err, repository.ErrGoalNotFound):
		response.Error(w, http.StatusNotFound, "Goal not found")
	case errors.Is(err, service.ErrGoalForbidden):
		response.Error(w, http.StatusForbidden, "Not your goal")
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrTitleTooLong),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidStatus):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(msg, "error", err, "user_id", userID)
		response.Error(w, http.StatusInternalServerError, "Server error")
	}
}

func goalIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, http.StatusBadRequest, "Invalid goal id")
		return 0, false
	}
	return id, true
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// parseTargetDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseTargetDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		t, err := time.Parse(layout, *s)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, validation.Errors{{Field: "targetDate", Message: "targetDate must be an ISO 8601 date"}}
}
