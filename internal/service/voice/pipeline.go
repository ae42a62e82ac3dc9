package voice

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/goalvoice/internal/metrics"
	"github.com/templui/goalvoice/internal/model"
	"github.com/templui/goalvoice/internal/service"
)

// DefaultSummary is relayed when the call came without a summary.
const DefaultSummary = "Goals discussed in voice session"

type State string

const (
	StateReceived              State = "received"
	StateValidated             State = "validated"
	StateRejected              State = "rejected"
	StateExtracted             State = "extracted"
	StatePersisted             State = "persisted"
	StatePartialPersistFailure State = "partial_persist_failure"
	StateNotified              State = "notified"
	StateSkipped               State = "skipped"
	StateCompleted             State = "completed"
)

// GoalStore inserts one goal.
type GoalStore interface {
	Create(ctx context.Context, in service.CreateGoalInput) (*model.Goal, error)
}

// ConversationRecorder keeps a record of each processed call.
type ConversationRecorder interface {
	Record(ctx context.Context, in service.RecordConversationInput) (*model.Conversation, error)
}

// Result reports what one webhook invocation did.
type Result struct {
	State                 State
	Trace                 []State
	Extracted             int
	Goals                 []*model.Goal
	Failed                int
	NotificationAttempted bool
	ConversationSaved     bool
}

func (r *Result) enter(s State) {
	r.State = s
	r.Trace = append(r.Trace, s)
}

// Pipeline runs receive, extract, persist and notify for one call at a time.
// Invocations share nothing mutable and may run concurrently.
type Pipeline struct {
	receiver      *Receiver
	extractor     *Extractor
	goals         GoalStore
	notifier      Notifier
	conversations ConversationRecorder
	metrics       *metrics.Metrics
	now           func() time.Time
}

type PipelineOption func(*Pipeline)

// WithConversations records each completed call.
func WithConversations(rec ConversationRecorder) PipelineOption {
	return func(p *Pipeline) {
		p.conversations = rec
	}
}

func WithMetrics(m *metrics.Metrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

func NewPipeline(receiver *Receiver, extractor *Extractor, goals GoalStore, notifier Notifier, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		receiver:  receiver,
		extractor: extractor,
		goals:     goals,
		notifier:  notifier,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one call. The only errors returned are rejections of the
// payload (ErrInvalidPayload, ErrUnknownUser) and user lookup faults; every
// later failure is logged and reflected in the Result.
func (p *Pipeline) Run(ctx context.Context, payload CallPayload) (*Result, error) {
	res := &Result{}
	res.enter(StateReceived)

	call, err := p.receiver.Receive(ctx, payload)
	if err != nil {
		res.enter(StateRejected)
		p.metrics.Webhook(string(StateRejected))
		return res, err
	}
	res.enter(StateValidated)

	log := slog.With("user_id", call.User.UserID, "call_id", call.CallID)

	extracted := p.extractor.Extract(call.Transcript, call.Summary)
	res.Extracted = len(extracted)
	p.metrics.GoalsExtracted(len(extracted))
	res.enter(StateExtracted)
	log.Info("goals extracted", "count", len(extracted))

	var callID *string
	if call.CallID != "" {
		callID = &call.CallID
	}

	res.Goals = make([]*model.Goal, 0, len(extracted))
	for _, eg := range extracted {
		description := eg.Description
		goal, err := p.goals.Create(ctx, service.CreateGoalInput{
			UserID:           call.User.UserID,
			Title:            eg.Title,
			Description:      &description,
			Category:         eg.Category,
			CreatedFromVoice: true,
			CallID:           callID,
		})
		p.metrics.GoalPersisted(err == nil)
		if err != nil {
			res.Failed++
			log.Error("failed to persist extracted goal", "error", err, "title", eg.Title)
			continue
		}
		res.Goals = append(res.Goals, goal)
	}

	if res.Failed > 0 {
		res.enter(StatePartialPersistFailure)
	} else {
		res.enter(StatePersisted)
	}

	if p.conversations != nil {
		_, err := p.conversations.Record(ctx, service.RecordConversationInput{
			UserID:       call.User.UserID,
			CallID:       call.CallID,
			Summary:      call.Summary,
			Transcript:   call.Transcript,
			GoalsCreated: len(res.Goals),
		})
		if err != nil {
			log.Warn("failed to record conversation", "error", err)
		} else {
			res.ConversationSaved = true
		}
	}

	if call.User.PhoneNumber != "" && len(res.Goals) > 0 {
		res.NotificationAttempted = true
		p.notify(ctx, log, call, res.Goals)
		res.enter(StateNotified)
	} else {
		res.enter(StateSkipped)
	}

	final := StateCompleted
	if res.Failed > 0 {
		final = StatePartialPersistFailure
	}
	p.metrics.Webhook(string(final))

	res.enter(StateCompleted)
	return res, nil
}

// notify makes one delivery attempt. Its outcome never reaches the caller.
func (p *Pipeline) notify(ctx context.Context, log *slog.Logger, call *Call, goals []*model.Goal) {
	summary := strings.TrimSpace(call.Summary)
	if summary == "" {
		summary = DefaultSummary
	}

	req := NotificationRequest{
		OwnerID:     call.User.UserID,
		DisplayName: call.User.DisplayName,
		PhoneNumber: call.User.PhoneNumber,
		Summary:     summary,
		Goals:       make([]GoalSummary, 0, len(goals)),
		Timestamp:   p.now().UTC(),
	}
	for _, g := range goals {
		req.Goals = append(req.Goals, GoalSummary{Title: g.Title, Category: g.Category})
	}

	// The relay has its own deadline; a client disconnect must not cut it short.
	err := p.notifier.Notify(context.WithoutCancel(ctx), req)
	p.metrics.Notification(err == nil)
	if err != nil {
		log.Warn("failed to relay goal summary", "error", err)
		return
	}
	log.Info("goal summary relayed", "goals", len(goals))
}
