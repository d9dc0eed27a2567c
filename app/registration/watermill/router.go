package registrationrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	registrationevents "github.com/open-bracket/discord-reg-bot/app/events/registration"
	registrationhandlers "github.com/open-bracket/discord-reg-bot/app/registration/watermill/handlers"
	"github.com/open-bracket/discord-reg-bot/app/shared/eventbus"
	"github.com/prometheus/client_golang/prometheus"
)

// RegistrationRouter binds registration event topics to their handlers.
type RegistrationRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	registry   prometheus.Registerer
}

// NewRegistrationRouter creates a new RegistrationRouter.
func NewRegistrationRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	registry prometheus.Registerer,
) *RegistrationRouter {
	return &RegistrationRouter{
		logger:     logger,
		Router:     router,
		subscriber: bus,
		publisher:  bus,
		registry:   registry,
	}
}

// Configure sets up middleware and registers the handlers.
func (r *RegistrationRouter) Configure(ctx context.Context, handlers registrationhandlers.Handler) error {
	if reg, ok := r.registry.(*prometheus.Registry); ok {
		metricsBuilder := metrics.NewPrometheusMetricsBuilder(reg, "", "")
		metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	if err := r.RegisterHandlers(ctx, handlers); err != nil {
		return fmt.Errorf("failed to register registration handlers: %w", err)
	}
	return nil
}

// RegisterHandlers wires all event handlers.
func (r *RegistrationRouter) RegisterHandlers(ctx context.Context, handlers registrationhandlers.Handler) error {
	r.logger.InfoContext(ctx, "Registering Registration Handlers")

	eventsToHandlers := map[string]message.HandlerFunc{
		registrationevents.ReviewRequested: handlers.HandleReviewRequested,
		registrationevents.ReviewApproved:  handlers.HandleReviewDecided,
		registrationevents.ReviewRejected:  handlers.HandleReviewDecided,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("discord-registration.%s", topic)
		handlerFunc := handlerFunc
		r.Router.AddHandler(
			handlerName,
			topic,
			r.subscriber,
			"",
			nil,
			func(msg *message.Message) ([]*message.Message, error) {
				messages, err := handlerFunc(msg)
				if err != nil {
					r.logger.ErrorContext(ctx, "Error processing registration message",
						slog.String("message_id", msg.UUID),
						slog.Any("error", err),
					)
					return nil, err
				}
				for _, m := range messages {
					publishTopic := m.Metadata.Get("topic")
					if publishTopic == "" {
						continue
					}
					if err := r.publisher.Publish(publishTopic, m); err != nil {
						return nil, fmt.Errorf("failed to publish to %s: %w", publishTopic, err)
					}
				}
				return nil, nil
			},
		)
	}
	return nil
}
