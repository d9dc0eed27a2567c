package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	registrationevents "github.com/open-bracket/discord-reg-bot/app/events/registration"
	"github.com/open-bracket/discord-reg-bot/app/registration/form"
	"github.com/open-bracket/discord-reg-bot/app/registration/store"
	messagecreator "github.com/open-bracket/discord-reg-bot/app/shared/utils"
)

// NoReasonProvided is recorded when a reviewer rejects without supplying a
// reason inside the collection window.
const NoReasonProvided = "No reason provided"

// Outcome is a reviewer's verdict on a pending registration.
type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
)

// Notification is what the caller delivers to the applicant after a
// decision. The decision is final once recorded, whatever happens to the
// delivery.
type Notification struct {
	Applicant string
	Status    store.Status
	Reason    string
}

// Config tunes the workflow.
type Config struct {
	// ReasonTimeout bounds the wait for a rejection reason from the
	// reviewer. On expiry the rejection proceeds with a placeholder.
	ReasonTimeout time.Duration
}

// Workflow bridges completed answer sets and reviewer actions to store
// transitions, and publishes the resulting events.
type Workflow struct {
	store     store.Store
	publisher message.Publisher
	cfg       Config
	logger    *slog.Logger

	mu          sync.Mutex
	reasonWaits map[string]chan string
}

// New creates a Workflow.
func New(st store.Store, publisher message.Publisher, cfg Config, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:       st,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
		reasonWaits: make(map[string]chan string),
	}
}

// Submit records a completed answer set as a pending registration and asks
// the review side to post it. DuplicateOpenRegistration surfaces unchanged.
func (w *Workflow) Submit(ctx context.Context, applicant, guildID string, answers form.AnswerSet) (store.Record, error) {
	rec, err := w.store.CreatePending(ctx, applicant, answers)
	if err != nil {
		return store.Record{}, err
	}

	msg, err := messagecreator.NewEventMessage(registrationevents.ReviewRequested, registrationevents.IntakeSubmittedPayload{
		ApplicantID: applicant,
		GuildID:     guildID,
		Answers:     answers,
		SubmittedAt: rec.SubmittedAt,
	})
	if err != nil {
		return rec, err
	}
	msg.Metadata.Set("user_id", applicant)
	if err := w.publisher.Publish(registrationevents.ReviewRequested, msg); err != nil {
		return rec, fmt.Errorf("failed to publish review request: %w", err)
	}
	return rec, nil
}

// Decide applies a reviewer's verdict to the applicant's pending record. For
// rejections it first waits (bounded) for a reason via HandleReviewerReply.
// NotFound and AlreadyDecided surface for the caller to report; nothing is
// retried.
func (w *Workflow) Decide(ctx context.Context, applicant, reviewer string, outcome Outcome) (Notification, error) {
	var target store.Status
	var reason string

	switch outcome {
	case OutcomeApprove:
		target = store.StatusApproved
	case OutcomeReject:
		target = store.StatusRejected
		reason = w.awaitReason(ctx, reviewer)
	default:
		return Notification{}, fmt.Errorf("unknown outcome %q", outcome)
	}

	rec, err := w.store.Transition(ctx, applicant, target, store.Decision{
		By:     reviewer,
		Reason: reason,
	})
	if err != nil {
		return Notification{}, err
	}

	payload := registrationevents.ReviewDecidedPayload{
		ApplicantID: applicant,
		ReviewerID:  reviewer,
		Approved:    target == store.StatusApproved,
		Reason:      reason,
		DecidedAt:   rec.Decision.At,
	}
	topic := registrationevents.ReviewApproved
	if target == store.StatusRejected {
		topic = registrationevents.ReviewRejected
	}
	msg, err := messagecreator.NewEventMessage(topic, payload)
	if err != nil {
		return Notification{}, err
	}
	msg.Metadata.Set("user_id", applicant)
	if err := w.publisher.Publish(topic, msg); err != nil {
		// The transition is recorded and final; a failed publish only
		// degrades notification.
		w.logger.ErrorContext(ctx, "Failed to publish decision event",
			slog.String("applicant", applicant),
			slog.Any("error", err),
		)
	}

	return Notification{Applicant: applicant, Status: target, Reason: reason}, nil
}

// HandleReviewerReply routes a reviewer's channel message into their pending
// reason wait, if any. It reports whether the reply was consumed.
func (w *Workflow) HandleReviewerReply(reviewer, text string) bool {
	w.mu.Lock()
	ch, waiting := w.reasonWaits[reviewer]
	w.mu.Unlock()
	if !waiting {
		return false
	}
	select {
	case ch <- text:
		return true
	default:
		return false
	}
}

// AwaitingReason reports whether the reviewer has an open reason wait.
func (w *Workflow) AwaitingReason(reviewer string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, waiting := w.reasonWaits[reviewer]
	return waiting
}

func (w *Workflow) awaitReason(ctx context.Context, reviewer string) string {
	w.mu.Lock()
	if _, waiting := w.reasonWaits[reviewer]; waiting {
		// A reviewer handles one rejection at a time; a second concurrent
		// wait would race for the same reply.
		w.mu.Unlock()
		return NoReasonProvided
	}
	ch := make(chan string)
	w.reasonWaits[reviewer] = ch
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.reasonWaits, reviewer)
		w.mu.Unlock()
	}()

	timer := time.NewTimer(w.cfg.ReasonTimeout)
	defer timer.Stop()
	select {
	case reason := <-ch:
		if reason == "" {
			return NoReasonProvided
		}
		return reason
	case <-timer.C:
		return NoReasonProvided
	case <-ctx.Done():
		return NoReasonProvided
	}
}
