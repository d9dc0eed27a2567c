package intake

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/open-bracket/discord-reg-bot/app/interactions"
)

// RegisterHandlers binds the intake custom ids and commands to the manager.
func RegisterHandlers(registry *interactions.Registry, manager IntakeManager) {
	registry.RegisterHandler("register", func(ctx context.Context, i *discordgo.InteractionCreate) {
		if _, err := manager.HandleRegisterCommand(ctx, i); err != nil {
			slog.Error("register command failed", slog.Any("error", err))
		}
	})
	registry.RegisterHandler(registerButtonPrefix, func(ctx context.Context, i *discordgo.InteractionCreate) {
		if _, err := manager.HandleRegisterButtonPress(ctx, i); err != nil {
			slog.Error("register button failed", slog.Any("error", err))
		}
	})
	registry.RegisterHandler(selectAnswerPrefix, func(ctx context.Context, i *discordgo.InteractionCreate) {
		if _, err := manager.HandleSelectAnswer(ctx, i); err != nil {
			slog.Error("select answer failed", slog.Any("error", err))
		}
	})
}
