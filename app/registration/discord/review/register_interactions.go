package review

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/open-bracket/discord-reg-bot/app/interactions"
)

// RegisterHandlers binds the Approve/Reject custom ids to the manager.
func RegisterHandlers(registry *interactions.Registry, manager ReviewManager) {
	decision := func(ctx context.Context, i *discordgo.InteractionCreate) {
		if _, err := manager.HandleDecisionButtonPress(ctx, i); err != nil {
			slog.Error("decision button failed", slog.Any("error", err))
		}
	}
	registry.RegisterHandler(approvePrefix, decision)
	registry.RegisterHandler(rejectPrefix, decision)
}
