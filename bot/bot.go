package bot

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"
	"github.com/open-bracket/discord-reg-bot/app/interactions"
	"github.com/open-bracket/discord-reg-bot/app/shared/eventbus"
	"github.com/open-bracket/discord-reg-bot/config"
	"github.com/open-bracket/discord-reg-bot/discord"
)

// DiscordBot ties the gateway session, the interaction registries, and the
// watermill router into one runnable unit.
type DiscordBot struct {
	Session         discord.Session
	Logger          *slog.Logger
	Config          *config.Config
	Registry        *interactions.Registry
	MessageRegistry *interactions.MessageRegistry
	WatermillRouter *message.Router
	EventBus        eventbus.EventBus

	// OnReady runs each time the gateway reports ready, if set.
	OnReady func()
}

// NewDiscordBot creates the bot from its wired dependencies.
func NewDiscordBot(
	session discord.Session,
	cfg *config.Config,
	registry *interactions.Registry,
	messageRegistry *interactions.MessageRegistry,
	logger *slog.Logger,
	bus eventbus.EventBus,
	router *message.Router,
) (*DiscordBot, error) {
	return &DiscordBot{
		Session:         session,
		Logger:          logger,
		Config:          cfg,
		Registry:        registry,
		MessageRegistry: messageRegistry,
		WatermillRouter: router,
		EventBus:        bus,
	}, nil
}

// Run registers commands and handlers, opens the gateway connection, and
// starts the event router. It returns once the session is up; the router
// keeps running until ctx is cancelled.
func (bot *DiscordBot) Run(ctx context.Context) error {
	if err := discord.RegisterCommands(bot.Session, bot.Logger, bot.Config.Discord.GuildID); err != nil {
		bot.Logger.ErrorContext(ctx, "Failed to register slash commands", slog.Any("error", err))
		return err
	}

	bot.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		bot.Registry.HandleInteraction(s, i)
	})
	bot.MessageRegistry.RegisterWithSession(bot.Session)

	bot.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		bot.Logger.InfoContext(ctx, "Discord bot is connected and ready.")
		if bot.OnReady != nil {
			bot.OnReady()
		}
	})

	go func() {
		if err := bot.WatermillRouter.Run(ctx); err != nil && ctx.Err() == nil {
			bot.Logger.ErrorContext(ctx, "Watermill router stopped", slog.Any("error", err))
		}
	}()

	if err := bot.Session.Open(); err != nil {
		bot.Logger.ErrorContext(ctx, "Error opening discord connection", slog.Any("error", err))
		return err
	}

	bot.Logger.InfoContext(ctx, "Discord bot is now running.")

	go func() {
		<-ctx.Done()
		bot.Close()
	}()

	return nil
}

// Close shuts the router, session, and bus down in order.
func (bot *DiscordBot) Close() {
	bot.Logger.Info("Closing bot")

	if bot.WatermillRouter != nil {
		if err := bot.WatermillRouter.Close(); err != nil {
			bot.Logger.Error("Failed to close watermill router", slog.Any("error", err))
		}
	}
	if err := bot.Session.Close(); err != nil {
		bot.Logger.Error("Failed to close discord session", slog.Any("error", err))
	}
	if err := bot.EventBus.Close(); err != nil {
		bot.Logger.Error("Failed to close event bus", slog.Any("error", err))
	}
}
