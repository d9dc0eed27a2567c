package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	registrationevents "github.com/open-bracket/discord-reg-bot/app/events/registration"
	"github.com/open-bracket/discord-reg-bot/app/registration/collector"
	"github.com/open-bracket/discord-reg-bot/app/registration/form"
	"github.com/open-bracket/discord-reg-bot/app/registration/store"
	"github.com/open-bracket/discord-reg-bot/discord"
)

// HandleRegistrationChannelMessage reacts to any human message in the
// registration channel with the Register Now prompt, gated on the required
// role and on registration status.
func (im *intakeManager) HandleRegistrationChannelMessage(ctx context.Context, m *discordgo.MessageCreate) (IntakeOperationResult, error) {
	return im.operationWrapper(ctx, "registration_channel_message", func(ctx context.Context) (IntakeOperationResult, error) {
		if m == nil || m.Author == nil {
			return IntakeOperationResult{Error: errors.New("message or author is nil")}, nil
		}

		if roleID := im.config.Discord.RequiredRoleID; roleID != "" {
			if !discord.MemberHasRole(m.Member, roleID) {
				_, err := im.operations.SendChannelMessageComplex(ctx, m.ChannelID, &discordgo.MessageSend{
					Content:   "❌ You don't have the required role to start registration.",
					Reference: m.Reference(),
				})
				if err != nil {
					return IntakeOperationResult{Error: err}, nil
				}
				return IntakeOperationResult{Failure: "missing required role"}, nil
			}
		}

		if rec, ok := im.store.Get(ctx, m.Author.ID); ok && blocksNewSubmission(rec, im.config.Intake.BlockReapplyAfterRejection) {
			_, err := im.operations.SendChannelMessageComplex(ctx, m.ChannelID, &discordgo.MessageSend{
				Content:   "❌ You already submitted a registration or it's approved.",
				Reference: m.Reference(),
			})
			if err != nil {
				return IntakeOperationResult{Error: err}, nil
			}
			return IntakeOperationResult{Failure: "already registered"}, nil
		}

		prompt := buildRegistrationPrompt(m.Author.ID)
		prompt.Reference = m.Reference()
		if _, err := im.operations.SendChannelMessageComplex(ctx, m.ChannelID, prompt); err != nil {
			return IntakeOperationResult{Error: err}, nil
		}
		return IntakeOperationResult{Success: "prompt sent"}, nil
	})
}

// HandleRegisterCommand handles the /register slash command the same way as
// a button press.
func (im *intakeManager) HandleRegisterCommand(ctx context.Context, i *discordgo.InteractionCreate) (IntakeOperationResult, error) {
	return im.operationWrapper(ctx, "register_command", func(ctx context.Context) (IntakeOperationResult, error) {
		userID := interactionUserID(i)
		if userID == "" {
			return IntakeOperationResult{Error: errors.New("unable to determine user id")}, nil
		}
		return im.beginDMFlow(ctx, i, userID)
	})
}

// HandleRegisterButtonPress handles the Register Now button. The custom id
// carries the user the button was offered to; nobody else may press it.
func (im *intakeManager) HandleRegisterButtonPress(ctx context.Context, i *discordgo.InteractionCreate) (IntakeOperationResult, error) {
	return im.operationWrapper(ctx, "register_button_press", func(ctx context.Context) (IntakeOperationResult, error) {
		userID := interactionUserID(i)
		if userID == "" {
			return IntakeOperationResult{Error: errors.New("unable to determine user id")}, nil
		}

		ownerID := strings.TrimPrefix(i.MessageComponentData().CustomID, registerButtonPrefix)
		if ownerID != userID {
			if err := im.operations.RespondEphemeral(ctx, i.Interaction, "❌ This button is not for you."); err != nil {
				return IntakeOperationResult{Error: err}, nil
			}
			return IntakeOperationResult{Failure: "button owned by another user"}, nil
		}

		return im.beginDMFlow(ctx, i, userID)
	})
}

// beginDMFlow acknowledges the interaction, opens the DM, and launches the
// collection run.
func (im *intakeManager) beginDMFlow(ctx context.Context, i *discordgo.InteractionCreate, userID string) (IntakeOperationResult, error) {
	// Both entry points (slash command and button) pass through here, so the
	// role gate cannot be sidestepped by picking the other one.
	if roleID := im.config.Discord.RequiredRoleID; roleID != "" {
		if !discord.MemberHasRole(i.Member, roleID) {
			if err := im.operations.RespondEphemeral(ctx, i.Interaction, "❌ You don't have the required role to start registration."); err != nil {
				return IntakeOperationResult{Error: err}, nil
			}
			return IntakeOperationResult{Failure: "missing required role"}, nil
		}
	}

	if im.collector.InProgress(userID) {
		if err := im.operations.RespondEphemeral(ctx, i.Interaction, "ℹ️ You already have a registration in progress. Check your DMs."); err != nil {
			return IntakeOperationResult{Error: err}, nil
		}
		return IntakeOperationResult{Failure: collector.ErrAlreadyInProgress.Error()}, nil
	}

	if rec, ok := im.store.Get(ctx, userID); ok && blocksNewSubmission(rec, im.config.Intake.BlockReapplyAfterRejection) {
		if err := im.operations.RespondEphemeral(ctx, i.Interaction, "❌ You already submitted a registration or it's approved."); err != nil {
			return IntakeOperationResult{Error: err}, nil
		}
		return IntakeOperationResult{Failure: "already registered"}, nil
	}

	if err := im.operations.RespondEphemeral(ctx, i.Interaction, "📩 Check your DMs — starting registration."); err != nil {
		return IntakeOperationResult{Error: err}, nil
	}

	if _, err := im.operations.SendDMComplex(ctx, userID, buildWelcomeDM(im.form.Title, im.config.Intake.CancelWord)); err != nil {
		followErr := im.operations.FollowupEphemeral(ctx, i.Interaction, "❌ I can't DM you. Please enable DMs from server members.")
		if followErr != nil {
			im.logger.WarnContext(ctx, "Failed to send DM-failure followup", slog.Any("error", followErr))
		}
		return IntakeOperationResult{Failure: "cannot DM user"}, nil
	}

	guildID := ""
	if i.Interaction != nil {
		guildID = i.Interaction.GuildID
	}
	im.publishInteractionEvent(ctx, registrationevents.IntakeStarted, registrationevents.IntakeStartedPayload{
		ApplicantID: userID,
		GuildID:     guildID,
	}, i)

	// The run outlives this interaction; it suspends on each question.
	go im.runForm(context.WithoutCancel(ctx), userID, guildID)

	return IntakeOperationResult{Success: "collection started"}, nil
}

// runForm drives one collection run to completion and hands the result to
// the workflow.
func (im *intakeManager) runForm(ctx context.Context, userID, guildID string) {
	result, err := im.collector.Run(ctx, userID, im.form, im)
	if err != nil {
		if !errors.Is(err, collector.ErrAlreadyInProgress) {
			im.logger.ErrorContext(ctx, "Collection run failed",
				slog.String("applicant", userID),
				slog.Any("error", err),
			)
			im.sendDMBestEffort(ctx, userID, "❌ Something went wrong with your registration. Try again later.")
		}
		return
	}

	if result.Aborted {
		switch result.Reason {
		case collector.AbortCancelled:
			im.sendDMBestEffort(ctx, userID, "❌ Registration cancelled.")
			im.publishEvent(ctx, registrationevents.IntakeCancelled, registrationevents.IntakeAbortedPayload{
				ApplicantID: userID,
				Reason:      string(result.Reason),
			})
		case collector.AbortTimedOut:
			im.sendDMBestEffort(ctx, userID, "⌛ Time out: you took too long to answer. Please start again in the registration channel.")
			im.publishEvent(ctx, registrationevents.IntakeTimedOut, registrationevents.IntakeAbortedPayload{
				ApplicantID: userID,
				Reason:      string(result.Reason),
			})
		}
		return
	}

	rec, err := im.workflow.Submit(ctx, userID, guildID, result.Answers)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateOpenRegistration) {
			im.sendDMBestEffort(ctx, userID, "ℹ️ You already have a pending request. Wait for approval or use `status`.")
			im.publishEvent(ctx, registrationevents.IntakeDuplicate, registrationevents.IntakeAbortedPayload{
				ApplicantID: userID,
				Reason:      "duplicate",
			})
			return
		}
		im.logger.ErrorContext(ctx, "Failed to submit registration",
			slog.String("applicant", userID),
			slog.Any("error", err),
		)
		im.sendDMBestEffort(ctx, userID, "⚠️ Unable to submit registration. Contact admins.")
		return
	}

	im.publishEvent(ctx, registrationevents.IntakeSubmitted, registrationevents.IntakeSubmittedPayload{
		ApplicantID: userID,
		GuildID:     guildID,
		Answers:     result.Answers,
		SubmittedAt: rec.SubmittedAt,
	})
	im.sendDMBestEffort(ctx, userID, "✅ Your registration was submitted. Await approval in the server. Use `status` in DM to check.")
}

// PromptApplicant implements collector.Prompter by DMing the question.
func (im *intakeManager) PromptApplicant(ctx context.Context, applicant string, q form.Question) error {
	var payload *discordgo.MessageSend
	if q.Kind == form.KindSingleChoice {
		payload = buildSelectDM(applicant, q)
		// The prompt must outlive the collector's wait on this question, so a
		// per-question timeout override stretches the TTL with it.
		ttl := im.config.Intake.SelectTimeout
		if q.Timeout > 0 {
			ttl = q.Timeout
		}
		im.activePrompts.Set(applicant, q.ID, ttl)
	} else {
		payload = buildQuestionDM(q)
		im.activePrompts.Delete(applicant)
	}
	if _, err := im.operations.SendDMComplex(ctx, applicant, payload); err != nil {
		return fmt.Errorf("failed to prompt %s: %w", applicant, err)
	}
	return nil
}

// HandleDMMessage routes a DM either into the author's active collection run
// or the status query. Returns true when consumed.
func (im *intakeManager) HandleDMMessage(ctx context.Context, m *discordgo.MessageCreate) bool {
	if m == nil || m.Author == nil {
		return false
	}
	if im.collector.HandleReply(m.Author.ID, m.Content) {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(m.Content), "status") {
		im.respondStatus(ctx, m.Author.ID)
		return true
	}
	return false
}

// HandleSelectAnswer feeds a select-menu choice into the applicant's active
// run. The custom id carries the applicant the menu was sent to.
func (im *intakeManager) HandleSelectAnswer(ctx context.Context, i *discordgo.InteractionCreate) (IntakeOperationResult, error) {
	return im.operationWrapper(ctx, "select_answer", func(ctx context.Context) (IntakeOperationResult, error) {
		userID := interactionUserID(i)
		data := i.MessageComponentData()
		parts := strings.Split(data.CustomID, "|")
		if len(parts) != 3 || parts[1] != userID {
			return IntakeOperationResult{Failure: "select not owned by user"}, nil
		}
		if len(data.Values) == 0 {
			return IntakeOperationResult{Failure: "no value selected"}, nil
		}
		value := data.Values[0]

		// A menu from an earlier question may still be clickable; only the
		// prompt the run is suspended on counts.
		if current, ok := im.activePrompts.Get(userID); !ok || current != parts[2] {
			if err := im.operations.RespondEphemeral(ctx, i.Interaction, "ℹ️ That menu is no longer active."); err != nil {
				return IntakeOperationResult{Error: err}, nil
			}
			return IntakeOperationResult{Failure: "stale select prompt"}, nil
		}

		if !im.collector.HandleReply(userID, value) {
			if err := im.operations.RespondEphemeral(ctx, i.Interaction, "ℹ️ No registration in progress."); err != nil {
				return IntakeOperationResult{Error: err}, nil
			}
			return IntakeOperationResult{Failure: "no active run"}, nil
		}

		im.activePrompts.Delete(userID)
		if err := im.operations.RespondEphemeral(ctx, i.Interaction, fmt.Sprintf("You selected: **%s**", value)); err != nil {
			return IntakeOperationResult{Error: err}, nil
		}
		return IntakeOperationResult{Success: value}, nil
	})
}

// blocksNewSubmission applies the duplicate policy to an existing record.
func blocksNewSubmission(rec store.Record, blockReapply bool) bool {
	switch rec.Status {
	case store.StatusPending, store.StatusApproved:
		return true
	case store.StatusRejected:
		return blockReapply
	}
	return false
}

// interactionUserID extracts the user id whether the interaction came from a
// guild or a DM.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i == nil || i.Interaction == nil {
		return ""
	}
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
