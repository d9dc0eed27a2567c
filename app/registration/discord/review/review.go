package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	registrationevents "github.com/open-bracket/discord-reg-bot/app/events/registration"
	"github.com/open-bracket/discord-reg-bot/app/registration/form"
	"github.com/open-bracket/discord-reg-bot/app/registration/store"
	"github.com/open-bracket/discord-reg-bot/app/registration/workflow"
	"github.com/open-bracket/discord-reg-bot/app/shared/metrics"
	"github.com/open-bracket/discord-reg-bot/config"
	"github.com/open-bracket/discord-reg-bot/discord"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ReviewManager drives the staff-facing side: posting submissions for
// review, the Approve/Reject buttons, and outcome delivery.
type ReviewManager interface {
	PostForReview(ctx context.Context, payload registrationevents.IntakeSubmittedPayload) (ReviewOperationResult, error)
	HandleDecisionButtonPress(ctx context.Context, i *discordgo.InteractionCreate) (ReviewOperationResult, error)
	HandleReviewChannelMessage(ctx context.Context, m *discordgo.MessageCreate) bool
	NotifyDecision(ctx context.Context, payload registrationevents.ReviewDecidedPayload) (ReviewOperationResult, error)
}

type reviewManager struct {
	operations discord.Operations
	logger     *slog.Logger
	config     *config.Config
	form       *form.Form
	workflow   *workflow.Workflow
	store      store.Store
	tracer     trace.Tracer
	metrics    metrics.DiscordMetrics

	operationWrapper func(ctx context.Context, opName string, fn func(ctx context.Context) (ReviewOperationResult, error)) (ReviewOperationResult, error)
}

// NewReviewManager creates a new ReviewManager instance.
func NewReviewManager(
	operations discord.Operations,
	logger *slog.Logger,
	cfg *config.Config,
	f *form.Form,
	wf *workflow.Workflow,
	st store.Store,
	tracer trace.Tracer,
	discordMetrics metrics.DiscordMetrics,
) ReviewManager {
	return &reviewManager{
		operations: operations,
		logger:     logger,
		config:     cfg,
		form:       f,
		workflow:   wf,
		store:      st,
		tracer:     tracer,
		metrics:    discordMetrics,
		operationWrapper: func(ctx context.Context, opName string, fn func(ctx context.Context) (ReviewOperationResult, error)) (ReviewOperationResult, error) {
			return wrapReviewOperation(ctx, opName, fn, logger, tracer, discordMetrics)
		},
	}
}

// wrapReviewOperation is the shared tracing/logging/metrics wrapper.
func wrapReviewOperation(
	ctx context.Context,
	operationName string,
	fn func(ctx context.Context) (ReviewOperationResult, error),
	logger *slog.Logger,
	tracer trace.Tracer,
	discordMetrics metrics.DiscordMetrics,
) (result ReviewOperationResult, err error) {
	if fn == nil {
		return ReviewOperationResult{}, errors.New("operation function is nil")
	}

	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}

	ctx, span := tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	start := time.Now()

	defer func() {
		if discordMetrics != nil {
			discordMetrics.RecordAPIRequestDuration(ctx, operationName, time.Since(start))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			if logger != nil {
				logger.ErrorContext(ctx, "Recovered from panic", slog.Any("error", err))
			}
			span.RecordError(err)
			if discordMetrics != nil {
				discordMetrics.RecordAPIError(ctx, operationName, "panic")
			}
		}
	}()

	result, err = fn(ctx)
	if err != nil {
		wrapped := fmt.Errorf("%s operation error: %w", operationName, err)
		if logger != nil {
			logger.ErrorContext(ctx, fmt.Sprintf("Error in %s", operationName), slog.Any("error", wrapped))
		}
		span.RecordError(wrapped)
		if discordMetrics != nil {
			discordMetrics.RecordAPIError(ctx, operationName, "operation_error")
		}
		return ReviewOperationResult{}, wrapped
	}

	if result.Error != nil {
		span.RecordError(result.Error)
		if discordMetrics != nil {
			discordMetrics.RecordAPIError(ctx, operationName, "result_error")
		}
	} else if discordMetrics != nil {
		discordMetrics.RecordAPIRequest(ctx, operationName)
	}

	return result, nil
}

// ReviewOperationResult carries success/failure detail out of a manager
// operation.
type ReviewOperationResult struct {
	Success interface{}
	Failure interface{}
	Error   error
}
