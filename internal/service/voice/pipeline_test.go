package voice_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalvoice/internal/metrics"
	"github.com/templui/goalvoice/internal/model"
	"github.com/templui/goalvoice/internal/repository"
	"github.com/templui/goalvoice/internal/service"
	"github.com/templui/goalvoice/internal/service/voice"
)

type fakeUsers map[int64]*model.Contact

func (f fakeUsers) Contact(_ context.Context, id int64) (*model.Contact, error) {
	c, ok := f[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return c, nil
}

type fakeGoals struct {
	calls   int
	failOn  map[int]bool // 1-based insert attempt
	created []service.CreateGoalInput
}

func (f *fakeGoals) Create(_ context.Context, in service.CreateGoalInput) (*model.Goal, error) {
	f.calls++
	if f.failOn[f.calls] {
		return nil, errors.New("disk full")
	}
	f.created = append(f.created, in)
	return &model.Goal{
		ID:               int64(len(f.created)),
		UserID:           in.UserID,
		Title:            in.Title,
		Description:      in.Description,
		Category:         in.Category,
		Status:           model.GoalStatusActive,
		CreatedFromVoice: in.CreatedFromVoice,
		CallID:           in.CallID,
	}, nil
}

type fakeNotifier struct {
	requests []voice.NotificationRequest
	err      error
}

func (f *fakeNotifier) Notify(_ context.Context, req voice.NotificationRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

type fakeRecorder struct {
	records []service.RecordConversationInput
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, in service.RecordConversationInput) (*model.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.records = append(f.records, in)
	return &model.Conversation{ID: 1, UserID: in.UserID, CallID: in.CallID}, nil
}

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type harness struct {
	goals    *fakeGoals
	notifier *fakeNotifier
	recorder *fakeRecorder
	pipeline *voice.Pipeline
}

func newHarness(t *testing.T, opts ...voice.ExtractorOption) *harness {
	t.Helper()

	users := fakeUsers{
		1: {UserID: 1, DisplayName: "Ada", PhoneNumber: "+15550100"},
		2: {UserID: 2, DisplayName: "Bob"},
	}
	h := &harness{
		goals:    &fakeGoals{failOn: map[int]bool{}},
		notifier: &fakeNotifier{},
		recorder: &fakeRecorder{},
	}
	h.pipeline = voice.NewPipeline(
		voice.NewReceiver(users),
		voice.NewExtractor(opts...),
		h.goals,
		h.notifier,
		voice.WithConversations(h.recorder),
		voice.WithClock(func() time.Time { return fixedNow }),
	)
	return h
}

func payload(userID any, transcript, summary string) voice.CallPayload {
	p := voice.CallPayload{Transcript: transcript, Summary: summary}
	p.Call.ID = "call-123"
	if userID != nil {
		p.Metadata = map[string]any{"userId": userID}
	}
	return p
}

func TestPipeline_CreatesGoalsAndNotifies(t *testing.T) {
	h := newHarness(t)

	res, err := h.pipeline.Run(context.Background(), payload("1", "I want to learn Spanish. I will go to the gym.", ""))
	require.NoError(t, err)

	assert.Equal(t, voice.StateCompleted, res.State)
	assert.Equal(t, []voice.State{
		voice.StateReceived,
		voice.StateValidated,
		voice.StateExtracted,
		voice.StatePersisted,
		voice.StateNotified,
		voice.StateCompleted,
	}, res.Trace)
	assert.Equal(t, 2, res.Extracted)
	require.Len(t, res.Goals, 2)
	assert.True(t, res.NotificationAttempted)
	assert.True(t, res.ConversationSaved)

	for _, in := range h.goals.created {
		assert.Equal(t, int64(1), in.UserID)
		assert.True(t, in.CreatedFromVoice)
		require.NotNil(t, in.CallID)
		assert.Equal(t, "call-123", *in.CallID)
	}

	require.Len(t, h.notifier.requests, 1)
	req := h.notifier.requests[0]
	assert.Equal(t, int64(1), req.OwnerID)
	assert.Equal(t, "Ada", req.DisplayName)
	assert.Equal(t, "+15550100", req.PhoneNumber)
	assert.Equal(t, voice.DefaultSummary, req.Summary)
	assert.Equal(t, fixedNow, req.Timestamp)
	assert.Equal(t, []voice.GoalSummary{
		{Title: "learn Spanish", Category: model.GoalCategoryEducation},
		{Title: "go to the gym", Category: model.GoalCategoryHealth},
	}, req.Goals)

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, 2, h.recorder.records[0].GoalsCreated)
}

func TestPipeline_RejectsMissingOrBadUserID(t *testing.T) {
	for name, userID := range map[string]any{
		"missing":  nil,
		"empty":    "",
		"text":     "abc",
		"fraction": 1.5,
		"negative": "-3",
		"bool":     true,
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)

			res, err := h.pipeline.Run(context.Background(), payload(userID, "I want to run.", "summary"))
			assert.ErrorIs(t, err, voice.ErrInvalidPayload)
			assert.Equal(t, voice.StateRejected, res.State)
			assert.Zero(t, h.goals.calls)
			assert.Empty(t, h.notifier.requests)
			assert.Empty(t, h.recorder.records)
		})
	}
}

func TestPipeline_RejectsUnknownUser(t *testing.T) {
	h := newHarness(t)

	res, err := h.pipeline.Run(context.Background(), payload("99", "I want to run.", ""))
	assert.ErrorIs(t, err, voice.ErrUnknownUser)
	assert.Equal(t, voice.StateRejected, res.State)
	assert.Zero(t, h.goals.calls)
}

func TestPipeline_AcceptsNumericUserID(t *testing.T) {
	for name, userID := range map[string]any{
		"float":  float64(1),
		"number": json.Number("1"),
		"padded": " 1 ",
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.pipeline.Run(context.Background(), payload(userID, "I want to run.", ""))
			require.NoError(t, err)
			assert.Equal(t, 1, h.goals.calls)
		})
	}
}

func TestPipeline_PartialPersistFailure(t *testing.T) {
	h := newHarness(t)
	h.goals.failOn[2] = true

	res, err := h.pipeline.Run(context.Background(), payload("1", "I want to read. I need to sleep. I plan to cook.", ""))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Extracted)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Goals, 2)
	assert.Equal(t, "read", res.Goals[0].Title)
	assert.Equal(t, "cook", res.Goals[1].Title)
	assert.Contains(t, res.Trace, voice.StatePartialPersistFailure)
	assert.NotContains(t, res.Trace, voice.StatePersisted)
	assert.Equal(t, voice.StateCompleted, res.State)
	assert.True(t, res.NotificationAttempted)
	assert.Len(t, h.notifier.requests[0].Goals, 2)
}

func TestPipeline_SkipsNotificationWithoutPhone(t *testing.T) {
	h := newHarness(t)

	res, err := h.pipeline.Run(context.Background(), payload("2", "I want to run.", ""))
	require.NoError(t, err)

	assert.Len(t, res.Goals, 1)
	assert.False(t, res.NotificationAttempted)
	assert.Contains(t, res.Trace, voice.StateSkipped)
	assert.Empty(t, h.notifier.requests)
}

func TestPipeline_SkipsNotificationWithoutGoals(t *testing.T) {
	h := newHarness(t)

	res, err := h.pipeline.Run(context.Background(), payload("1", "Nothing to see here.", ""))
	require.NoError(t, err)

	assert.Empty(t, res.Goals)
	assert.False(t, res.NotificationAttempted)
	assert.Empty(t, h.notifier.requests)
	assert.True(t, res.ConversationSaved)
}

func TestPipeline_SkipsNotificationWhenEveryInsertFails(t *testing.T) {
	h := newHarness(t)
	h.goals.failOn[1] = true

	res, err := h.pipeline.Run(context.Background(), payload("1", "I want to run.", ""))
	require.NoError(t, err)

	assert.Empty(t, res.Goals)
	assert.False(t, res.NotificationAttempted)
	assert.Empty(t, h.notifier.requests)
}

func TestPipeline_NotifierFailureIsSwallowed(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = voice.ErrRelayNotConfigured

	res, err := h.pipeline.Run(context.Background(), payload("1", "", "I will call my sister"))
	require.NoError(t, err)

	assert.True(t, res.NotificationAttempted)
	assert.Equal(t, voice.StateCompleted, res.State)
	assert.Equal(t, "I will call my sister", h.notifier.requests[0].Summary)
}

func TestPipeline_RecorderFailureIsSwallowed(t *testing.T) {
	h := newHarness(t)
	h.recorder.err = errors.New("db down")

	res, err := h.pipeline.Run(context.Background(), payload("1", "I want to run.", ""))
	require.NoError(t, err)

	assert.False(t, res.ConversationSaved)
	assert.Len(t, res.Goals, 1)
}

func TestPipeline_FallbackGoalFromSummary(t *testing.T) {
	h := newHarness(t)

	res, err := h.pipeline.Run(context.Background(), payload("1", "", "Discussed wanting a healthier lifestyle"))
	require.NoError(t, err)

	require.Len(t, res.Goals, 1)
	assert.Equal(t, "Discussed wanting a healthier lifestyle", res.Goals[0].Title)
	assert.Equal(t, model.GoalCategoryPersonal, res.Goals[0].Category)
}

func TestPipeline_FirstMatchOnly(t *testing.T) {
	h := newHarness(t, voice.WithFirstMatchOnly(true))

	res, err := h.pipeline.Run(context.Background(), payload("1", "I want to say I will run", ""))
	require.NoError(t, err)
	assert.Len(t, res.Goals, 1)
}

func TestPipeline_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newHarness(t)
	h.goals.failOn[2] = true
	p := voice.NewPipeline(
		voice.NewReceiver(fakeUsers{1: {UserID: 1, PhoneNumber: "+15550100"}}),
		voice.NewExtractor(),
		h.goals,
		h.notifier,
		voice.WithMetrics(metrics.MustNew(reg)),
	)

	_, err := p.Run(context.Background(), payload("1", "I want to a. I want to b.", ""))
	require.NoError(t, err)
	_, err = p.Run(context.Background(), payload(nil, "", ""))
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			key := f.GetName()
			for _, l := range m.GetLabel() {
				key += "|" + l.GetValue()
			}
			counts[key] = m.GetCounter().GetValue()
		}
	}

	assert.Equal(t, float64(2), counts["goalvoice_voice_goals_extracted_total"])
	assert.Equal(t, float64(1), counts["goalvoice_voice_goals_persisted_total|success"])
	assert.Equal(t, float64(1), counts["goalvoice_voice_goals_persisted_total|failure"])
	assert.Equal(t, float64(1), counts["goalvoice_voice_notifications_total|success"])
	assert.Equal(t, float64(1), counts["goalvoice_voice_webhooks_total|partial_persist_failure"])
	assert.Equal(t, float64(1), counts["goalvoice_voice_webhooks_total|rejected"])
}
