package registrationhandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	registrationevents "github.com/open-bracket/discord-reg-bot/app/events/registration"
	"github.com/open-bracket/discord-reg-bot/app/registration/discord/review"
)

// Handler defines the registration event handlers the router binds.
type Handler interface {
	HandleReviewRequested(msg *message.Message) ([]*message.Message, error)
	HandleReviewDecided(msg *message.Message) ([]*message.Message, error)
}

// RegistrationHandlers handles registration events.
type RegistrationHandlers struct {
	logger *slog.Logger
	review review.ReviewManager
}

// NewRegistrationHandlers creates a new RegistrationHandlers struct.
func NewRegistrationHandlers(logger *slog.Logger, reviewManager review.ReviewManager) Handler {
	return &RegistrationHandlers{
		logger: logger,
		review: reviewManager,
	}
}

// HandleReviewRequested posts a freshly submitted registration into the
// review channel.
func (h *RegistrationHandlers) HandleReviewRequested(msg *message.Message) ([]*message.Message, error) {
	ctx := context.Background()

	var payload registrationevents.IntakeSubmittedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review request: %w", err)
	}

	h.logger.InfoContext(ctx, "Posting registration for review",
		slog.String("applicant", payload.ApplicantID),
		slog.String("message_id", msg.UUID),
	)

	if _, err := h.review.PostForReview(ctx, payload); err != nil {
		return nil, err
	}
	return nil, nil
}

// HandleReviewDecided relays a recorded decision: review buttons disabled,
// applicant notified.
func (h *RegistrationHandlers) HandleReviewDecided(msg *message.Message) ([]*message.Message, error) {
	ctx := context.Background()

	var payload registrationevents.ReviewDecidedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decision: %w", err)
	}

	h.logger.InfoContext(ctx, "Relaying review decision",
		slog.String("applicant", payload.ApplicantID),
		slog.Bool("approved", payload.Approved),
	)

	if _, err := h.review.NotifyDecision(ctx, payload); err != nil {
		return nil, err
	}
	return nil, nil
}
