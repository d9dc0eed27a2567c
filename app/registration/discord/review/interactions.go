package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	registrationevents "github.com/open-bracket/discord-reg-bot/app/events/registration"
	"github.com/open-bracket/discord-reg-bot/app/registration/store"
	"github.com/open-bracket/discord-reg-bot/app/registration/workflow"
	"github.com/open-bracket/discord-reg-bot/discord"
)

// PostForReview posts a submitted registration into the review channel and
// records the message reference on the record.
func (rm *reviewManager) PostForReview(ctx context.Context, payload registrationevents.IntakeSubmittedPayload) (ReviewOperationResult, error) {
	return rm.operationWrapper(ctx, "post_for_review", func(ctx context.Context) (ReviewOperationResult, error) {
		msg := buildReviewMessage(rm.form, payload.ApplicantID, payload.Answers, payload.SubmittedAt)
		sent, err := rm.operations.SendChannelMessageComplex(ctx, rm.config.Discord.ReviewChannelID, msg)
		if err != nil {
			return ReviewOperationResult{Error: fmt.Errorf("failed to post review message: %w", err)}, nil
		}
		if err := rm.store.SetReviewMessage(ctx, payload.ApplicantID, sent.ChannelID, sent.ID); err != nil {
			rm.logger.WarnContext(ctx, "Failed to record review message reference",
				slog.String("applicant", payload.ApplicantID),
				slog.Any("error", err),
			)
		}
		return ReviewOperationResult{Success: sent.ID}, nil
	})
}

// HandleDecisionButtonPress handles an Approve/Reject press in the review
// channel, gated on the approver role.
func (rm *reviewManager) HandleDecisionButtonPress(ctx context.Context, i *discordgo.InteractionCreate) (ReviewOperationResult, error) {
	return rm.operationWrapper(ctx, "decision_button_press", func(ctx context.Context) (ReviewOperationResult, error) {
		if i == nil || i.Interaction == nil || i.Member == nil || i.Member.User == nil {
			return ReviewOperationResult{Error: errors.New("interaction or member is nil")}, nil
		}
		if i.ChannelID != rm.config.Discord.ReviewChannelID {
			return ReviewOperationResult{Failure: "not the review channel"}, nil
		}
		if !discord.MemberHasRole(i.Member, rm.config.Discord.ApproverRoleID) {
			if err := rm.operations.RespondEphemeral(ctx, i.Interaction, "❌ You are not allowed to approve/reject."); err != nil {
				return ReviewOperationResult{Error: err}, nil
			}
			return ReviewOperationResult{Failure: "missing approver role"}, nil
		}

		customID := i.MessageComponentData().CustomID
		reviewerID := i.Member.User.ID

		var applicantID string
		var outcome workflow.Outcome
		switch {
		case strings.HasPrefix(customID, approvePrefix):
			applicantID = strings.TrimPrefix(customID, approvePrefix)
			outcome = workflow.OutcomeApprove
		case strings.HasPrefix(customID, rejectPrefix):
			applicantID = strings.TrimPrefix(customID, rejectPrefix)
			outcome = workflow.OutcomeReject
		default:
			return ReviewOperationResult{Failure: "unknown custom id"}, nil
		}
		if applicantID == "" {
			if err := rm.operations.RespondEphemeral(ctx, i.Interaction, "Invalid action."); err != nil {
				return ReviewOperationResult{Error: err}, nil
			}
			return ReviewOperationResult{Failure: "missing applicant id"}, nil
		}

		if rec, ok := rm.store.Get(ctx, applicantID); !ok || rec.Status != store.StatusPending {
			if err := rm.operations.RespondEphemeral(ctx, i.Interaction, "ℹ️ This request was already processed or not found."); err != nil {
				return ReviewOperationResult{Error: err}, nil
			}
			return ReviewOperationResult{Failure: "no pending record"}, nil
		}

		if outcome == workflow.OutcomeApprove {
			return rm.approve(ctx, i, applicantID, reviewerID)
		}
		return rm.reject(ctx, i, applicantID, reviewerID)
	})
}

func (rm *reviewManager) approve(ctx context.Context, i *discordgo.InteractionCreate, applicantID, reviewerID string) (ReviewOperationResult, error) {
	if _, err := rm.workflow.Decide(ctx, applicantID, reviewerID, workflow.OutcomeApprove); err != nil {
		return rm.reportDecisionError(ctx, i, err)
	}
	if err := rm.operations.RespondMessage(ctx, i.Interaction, fmt.Sprintf("✅ Approved by <@%s>", reviewerID)); err != nil {
		return ReviewOperationResult{Error: err}, nil
	}
	return ReviewOperationResult{Success: "approved"}, nil
}

func (rm *reviewManager) reject(ctx context.Context, i *discordgo.InteractionCreate, applicantID, reviewerID string) (ReviewOperationResult, error) {
	prompt := fmt.Sprintf("✉️ Please send a rejection reason in this channel (you have %s).", rm.config.Intake.RejectReasonTimeout)
	if err := rm.operations.RespondEphemeral(ctx, i.Interaction, prompt); err != nil {
		return ReviewOperationResult{Error: err}, nil
	}

	// Decide blocks waiting for the reviewer's reason; run it off the
	// interaction handler and follow up once the decision lands.
	go func() {
		ctx := context.WithoutCancel(ctx)
		notification, err := rm.workflow.Decide(ctx, applicantID, reviewerID, workflow.OutcomeReject)
		if err != nil {
			if _, repErr := rm.reportDecisionError(ctx, i, err); repErr != nil {
				rm.logger.ErrorContext(ctx, "Failed to report decision error", slog.Any("error", repErr))
			}
			return
		}
		followup := fmt.Sprintf("❌ Rejected with reason: %s", notification.Reason)
		if err := rm.operations.FollowupEphemeral(ctx, i.Interaction, followup); err != nil {
			rm.logger.WarnContext(ctx, "Failed to send rejection followup", slog.Any("error", err))
		}
	}()

	return ReviewOperationResult{Success: "rejection pending reason"}, nil
}

// reportDecisionError surfaces NotFound/AlreadyDecided to the reviewer
// without touching any state.
func (rm *reviewManager) reportDecisionError(ctx context.Context, i *discordgo.InteractionCreate, err error) (ReviewOperationResult, error) {
	if errors.Is(err, store.ErrAlreadyDecided) || errors.Is(err, store.ErrNotFound) {
		if respErr := rm.operations.FollowupEphemeral(ctx, i.Interaction, "ℹ️ This request was already processed or not found."); respErr != nil {
			if respErr2 := rm.operations.RespondEphemeral(ctx, i.Interaction, "ℹ️ This request was already processed or not found."); respErr2 != nil {
				return ReviewOperationResult{Error: respErr2}, nil
			}
		}
		return ReviewOperationResult{Failure: err.Error()}, nil
	}
	return ReviewOperationResult{Error: err}, nil
}

// HandleReviewChannelMessage feeds a reviewer's message into their open
// reason wait, then deletes it for cleanliness. Returns true when consumed.
func (rm *reviewManager) HandleReviewChannelMessage(ctx context.Context, m *discordgo.MessageCreate) bool {
	if m == nil || m.Author == nil || m.ChannelID != rm.config.Discord.ReviewChannelID {
		return false
	}
	if !rm.workflow.HandleReviewerReply(m.Author.ID, m.Content) {
		return false
	}
	if err := rm.operations.DeleteMessage(ctx, m.ChannelID, m.ID); err != nil {
		rm.logger.DebugContext(ctx, "Failed to delete reviewer reason message", slog.Any("error", err))
	}
	return true
}

// NotifyDecision disables the review buttons and DMs the applicant the
// outcome. Delivery failure never affects the recorded decision.
func (rm *reviewManager) NotifyDecision(ctx context.Context, payload registrationevents.ReviewDecidedPayload) (ReviewOperationResult, error) {
	return rm.operationWrapper(ctx, "notify_decision", func(ctx context.Context) (ReviewOperationResult, error) {
		rec, ok := rm.store.Get(ctx, payload.ApplicantID)
		if ok && rec.ReviewMessageID != "" {
			err := rm.operations.EditMessageComponents(ctx, rec.ReviewChannelID, rec.ReviewMessageID, decisionButtons(payload.ApplicantID, true))
			if err != nil {
				rm.logger.WarnContext(ctx, "Failed to disable review buttons",
					slog.String("applicant", payload.ApplicantID),
					slog.Any("error", err),
				)
			}
		}

		var content string
		if payload.Approved {
			team := ""
			if ok {
				team = rec.Answers["teamName"]
			}
			if team == "" {
				team = "the tournament"
			}
			content = fmt.Sprintf("🎉 Your registration for **%s** has been **approved**!", team)
		} else {
			content = fmt.Sprintf("❌ Your registration has been rejected.\n**Reason:** %s", payload.Reason)
		}

		if _, err := rm.operations.SendDM(ctx, payload.ApplicantID, content); err != nil {
			rm.logger.WarnContext(ctx, "Failed to DM decision to applicant",
				slog.String("applicant", payload.ApplicantID),
				slog.Any("error", err),
			)
			return ReviewOperationResult{Failure: "DM delivery failed"}, nil
		}
		return ReviewOperationResult{Success: "notified"}, nil
	})
}
