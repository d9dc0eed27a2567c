package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// RegisterCommands registers the bot's slash commands with Discord.
func RegisterCommands(s Session, logger *slog.Logger, guildID string) error {
	user, err := s.GetBotUser()
	if err != nil {
		return fmt.Errorf("failed to retrieve bot user: %w", err)
	}

	noDM := false
	_, err = s.ApplicationCommandCreate(user.ID, guildID, &discordgo.ApplicationCommand{
		Name:         "register",
		Description:  "Start tournament registration in your DMs",
		DMPermission: &noDM,
	})
	if err != nil {
		logger.Error("Failed to create '/register' command", slog.Any("error", err))
		return fmt.Errorf("failed to create '/register' command: %w", err)
	}
	logger.Info("registered command: /register")

	return nil
}
