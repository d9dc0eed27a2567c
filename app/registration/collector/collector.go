package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/open-bracket/discord-reg-bot/app/registration/form"
)

// ErrAlreadyInProgress is returned when the applicant already has an active
// collection run.
var ErrAlreadyInProgress = errors.New("collection already in progress for applicant")

// AbortReason says why a run ended without a completed answer set.
type AbortReason string

const (
	AbortCancelled AbortReason = "cancelled"
	AbortTimedOut  AbortReason = "timed_out"
)

// Result is the outcome of one collection run. Either Answers is a complete
// set, or Aborted is true and Reason says why. Aborts are normal
// terminations, not errors.
type Result struct {
	Answers form.AnswerSet
	Aborted bool
	Reason  AbortReason
}

// Prompter delivers a question to the applicant. Transport concern; the
// collector only cares that the prompt went out.
type Prompter interface {
	PromptApplicant(ctx context.Context, applicant string, q form.Question) error
}

// Config tunes a collector.
type Config struct {
	// QuestionTimeout bounds the wait for a text answer.
	QuestionTimeout time.Duration
	// SelectTimeout bounds the wait for a single-choice answer.
	SelectTimeout time.Duration
	// CancelWord aborts the run when received (case-insensitive).
	CancelWord string
}

// Collector drives applicants through forms one question at a time. Each
// applicant has at most one active run; runs for different applicants
// proceed independently.
type Collector struct {
	cfg    Config
	logger *slog.Logger

	mu   sync.Mutex
	runs map[string]*run
}

type run struct {
	// replies is unbuffered; HandleReply drops values when the run is not
	// suspended on a question, so at most one resume fires per suspension.
	replies chan string
}

// New creates a Collector.
func New(cfg Config, logger *slog.Logger) *Collector {
	return &Collector{
		cfg:    cfg,
		logger: logger,
		runs:   make(map[string]*run),
	}
}

// InProgress reports whether the applicant has an active run.
func (c *Collector) InProgress(applicant string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, active := c.runs[applicant]
	return active
}

// HandleReply routes a reply from the applicant into their active run. It
// reports whether the reply was consumed; replies from applicants without a
// suspended run are dropped.
func (c *Collector) HandleReply(applicant, value string) bool {
	c.mu.Lock()
	r, active := c.runs[applicant]
	c.mu.Unlock()
	if !active {
		return false
	}
	select {
	case r.replies <- value:
		return true
	default:
		return false
	}
}

// Run walks the applicant through the form in order and blocks until the run
// completes, aborts, or ctx is cancelled. Answers of an aborted run are
// discarded. No retry happens on timeout; a fresh run must be started.
func (c *Collector) Run(ctx context.Context, applicant string, f *form.Form, prompter Prompter) (Result, error) {
	c.mu.Lock()
	if _, active := c.runs[applicant]; active {
		c.mu.Unlock()
		return Result{}, ErrAlreadyInProgress
	}
	r := &run{replies: make(chan string)}
	c.runs[applicant] = r
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.runs, applicant)
		c.mu.Unlock()
	}()

	runID := uuid.New().String()
	c.logger.InfoContext(ctx, "Collection run started",
		slog.String("run_id", runID),
		slog.String("applicant", applicant),
	)

	answers := make(form.AnswerSet, len(f.Questions))
	for _, q := range f.Questions {
		if err := prompter.PromptApplicant(ctx, applicant, q); err != nil {
			return Result{}, fmt.Errorf("failed to prompt applicant: %w", err)
		}

		timer := time.NewTimer(c.questionTimeout(q))
		select {
		case value := <-r.replies:
			timer.Stop()
			if strings.EqualFold(strings.TrimSpace(value), c.cfg.CancelWord) {
				c.logger.InfoContext(ctx, "Collection run cancelled",
					slog.String("run_id", runID),
					slog.String("applicant", applicant),
					slog.String("question", q.ID),
				)
				return Result{Aborted: true, Reason: AbortCancelled}, nil
			}
			answers[q.ID] = value
		case <-timer.C:
			c.logger.InfoContext(ctx, "Collection run timed out",
				slog.String("run_id", runID),
				slog.String("applicant", applicant),
				slog.String("question", q.ID),
			)
			return Result{Aborted: true, Reason: AbortTimedOut}, nil
		case <-ctx.Done():
			timer.Stop()
			return Result{}, ctx.Err()
		}
	}

	return Result{Answers: answers}, nil
}

func (c *Collector) questionTimeout(q form.Question) time.Duration {
	if q.Timeout > 0 {
		return q.Timeout
	}
	if q.Kind == form.KindSingleChoice {
		return c.cfg.SelectTimeout
	}
	return c.cfg.QuestionTimeout
}
