package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"
	"github.com/open-bracket/discord-reg-bot/app/registration/collector"
	"github.com/open-bracket/discord-reg-bot/app/registration/form"
	"github.com/open-bracket/discord-reg-bot/app/registration/store"
	"github.com/open-bracket/discord-reg-bot/app/registration/workflow"
	"github.com/open-bracket/discord-reg-bot/app/shared/metrics"
	"github.com/open-bracket/discord-reg-bot/app/shared/storage"
	messagecreator "github.com/open-bracket/discord-reg-bot/app/shared/utils"
	"github.com/open-bracket/discord-reg-bot/config"
	"github.com/open-bracket/discord-reg-bot/discord"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// IntakeManager drives the applicant-facing side of registration: the
// registration-channel trigger, the DM form run, and status queries.
type IntakeManager interface {
	HandleRegistrationChannelMessage(ctx context.Context, m *discordgo.MessageCreate) (IntakeOperationResult, error)
	HandleRegisterCommand(ctx context.Context, i *discordgo.InteractionCreate) (IntakeOperationResult, error)
	HandleRegisterButtonPress(ctx context.Context, i *discordgo.InteractionCreate) (IntakeOperationResult, error)
	HandleDMMessage(ctx context.Context, m *discordgo.MessageCreate) bool
	HandleSelectAnswer(ctx context.Context, i *discordgo.InteractionCreate) (IntakeOperationResult, error)
}

type intakeManager struct {
	operations discord.Operations
	publisher  message.Publisher
	logger     *slog.Logger
	config     *config.Config
	form       *form.Form
	collector  *collector.Collector
	workflow   *workflow.Workflow
	store      store.Store
	tracer     trace.Tracer
	metrics    metrics.DiscordMetrics

	// activePrompts tracks which select question each applicant is currently
	// being asked, so stale menu interactions are rejected.
	activePrompts storage.ISInterface[string]

	operationWrapper func(ctx context.Context, opName string, fn func(ctx context.Context) (IntakeOperationResult, error)) (IntakeOperationResult, error)
}

// NewIntakeManager creates a new IntakeManager instance.
func NewIntakeManager(
	operations discord.Operations,
	publisher message.Publisher,
	logger *slog.Logger,
	cfg *config.Config,
	f *form.Form,
	col *collector.Collector,
	wf *workflow.Workflow,
	st store.Store,
	tracer trace.Tracer,
	discordMetrics metrics.DiscordMetrics,
) IntakeManager {
	return &intakeManager{
		operations:    operations,
		publisher:     publisher,
		logger:        logger,
		config:        cfg,
		form:          f,
		collector:     col,
		workflow:      wf,
		store:         st,
		tracer:        tracer,
		metrics:       discordMetrics,
		activePrompts: storage.NewInteractionStore[string](cfg.Intake.SelectTimeout),
		operationWrapper: func(ctx context.Context, opName string, fn func(ctx context.Context) (IntakeOperationResult, error)) (IntakeOperationResult, error) {
			return wrapIntakeOperation(ctx, opName, fn, logger, tracer, discordMetrics)
		},
	}
}

// wrapIntakeOperation is the shared tracing/logging/metrics wrapper.
func wrapIntakeOperation(
	ctx context.Context,
	operationName string,
	fn func(ctx context.Context) (IntakeOperationResult, error),
	logger *slog.Logger,
	tracer trace.Tracer,
	discordMetrics metrics.DiscordMetrics,
) (result IntakeOperationResult, err error) {
	if fn == nil {
		return IntakeOperationResult{}, errors.New("operation function is nil")
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
		duration := time.Since(start)
		if discordMetrics != nil {
			discordMetrics.RecordAPIRequestDuration(ctx, operationName, duration)
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
		return IntakeOperationResult{}, wrapped
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

// IntakeOperationResult carries success/failure detail out of a manager
// operation without collapsing transport-level problems into errors.
type IntakeOperationResult struct {
	Success interface{}
	Failure interface{}
	Error   error
}

func (im *intakeManager) publishEvent(ctx context.Context, topic string, payload interface{}) {
	msg, err := messagecreator.NewEventMessage(topic, payload)
	if err != nil {
		im.logger.ErrorContext(ctx, "Failed to create event message", slog.Any("error", err))
		return
	}
	im.publish(ctx, topic, msg)
}

// publishInteractionEvent stamps the originating interaction onto the event
// so downstream consumers can respond to it.
func (im *intakeManager) publishInteractionEvent(ctx context.Context, topic string, payload interface{}, i *discordgo.InteractionCreate) {
	msg, err := messagecreator.FromInteraction(topic, payload, i)
	if err != nil {
		im.logger.ErrorContext(ctx, "Failed to create event message", slog.Any("error", err))
		return
	}
	im.publish(ctx, topic, msg)
}

func (im *intakeManager) publish(ctx context.Context, topic string, msg *message.Message) {
	if err := im.publisher.Publish(topic, msg); err != nil {
		im.logger.ErrorContext(ctx, "Failed to publish event",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}
