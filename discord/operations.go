package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/open-bracket/discord-reg-bot/config"
)

// Operations defines an interface for higher-level Discord operations.
type Operations interface {
	SendDM(ctx context.Context, userID, content string) (*discordgo.Message, error)
	SendDMComplex(ctx context.Context, userID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	SendChannelMessageComplex(ctx context.Context, channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	RespondMessage(ctx context.Context, i *discordgo.Interaction, content string) error
	RespondEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error
	FollowupEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error
	EditMessageComponents(ctx context.Context, channelID, messageID string, components []discordgo.MessageComponent) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}

type discordOperations struct {
	session Session
	logger  *slog.Logger
	config  *config.Config
}

// NewOperations creates a new Operations instance.
func NewOperations(session Session, logger *slog.Logger, cfg *config.Config) Operations {
	return &discordOperations{
		session: session,
		logger:  logger,
		config:  cfg,
	}
}

// SendDM opens (or reuses) a DM channel with the user and sends content.
func (o *discordOperations) SendDM(ctx context.Context, userID, content string) (*discordgo.Message, error) {
	return o.SendDMComplex(ctx, userID, &discordgo.MessageSend{Content: content})
}

// SendDMComplex sends a full message payload to the user's DM channel.
func (o *discordOperations) SendDMComplex(ctx context.Context, userID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	channel, err := o.session.UserChannelCreate(userID)
	if err != nil {
		o.logger.WarnContext(ctx, "Failed to open DM channel",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to open DM channel: %w", err)
	}
	msg, err := o.session.ChannelMessageSendComplex(channel.ID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to send DM: %w", err)
	}
	return msg, nil
}

func (o *discordOperations) SendChannelMessageComplex(ctx context.Context, channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	msg, err := o.session.ChannelMessageSendComplex(channelID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to send channel message: %w", err)
	}
	return msg, nil
}

// RespondMessage answers an interaction with a regular channel message.
func (o *discordOperations) RespondMessage(_ context.Context, i *discordgo.Interaction, content string) error {
	return o.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

// RespondEphemeral answers an interaction with an ephemeral message.
func (o *discordOperations) RespondEphemeral(_ context.Context, i *discordgo.Interaction, content string) error {
	return o.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// FollowupEphemeral sends an ephemeral follow-up to an already-acknowledged
// interaction.
func (o *discordOperations) FollowupEphemeral(_ context.Context, i *discordgo.Interaction, content string) error {
	_, err := o.session.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

// EditMessageComponents replaces the components of an existing message, used
// to disable review buttons after a decision.
func (o *discordOperations) EditMessageComponents(_ context.Context, channelID, messageID string, components []discordgo.MessageComponent) error {
	_, err := o.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Components: &components,
	})
	return err
}

func (o *discordOperations) DeleteMessage(_ context.Context, channelID, messageID string) error {
	return o.session.ChannelMessageDelete(channelID, messageID)
}

// MemberHasRole reports whether the member carries the role.
func MemberHasRole(member *discordgo.Member, roleID string) bool {
	if member == nil || roleID == "" {
		return false
	}
	for _, r := range member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// DisabledComponents returns a copy of the message's action rows with every
// button disabled.
func DisabledComponents(components []discordgo.MessageComponent) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(components))
	for _, comp := range components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			out = append(out, comp)
			continue
		}
		newRow := discordgo.ActionsRow{}
		for _, inner := range row.Components {
			if btn, ok := inner.(*discordgo.Button); ok {
				disabled := *btn
				disabled.Disabled = true
				newRow.Components = append(newRow.Components, disabled)
				continue
			}
			newRow.Components = append(newRow.Components, inner)
		}
		out = append(out, newRow)
	}
	return out
}
