package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/open-bracket/discord-reg-bot/app/health"
	"github.com/open-bracket/discord-reg-bot/app/interactions"
	"github.com/open-bracket/discord-reg-bot/app/registration/collector"
	"github.com/open-bracket/discord-reg-bot/app/registration/discord/intake"
	"github.com/open-bracket/discord-reg-bot/app/registration/discord/review"
	"github.com/open-bracket/discord-reg-bot/app/registration/form"
	"github.com/open-bracket/discord-reg-bot/app/registration/store"
	registrationrouter "github.com/open-bracket/discord-reg-bot/app/registration/watermill"
	registrationhandlers "github.com/open-bracket/discord-reg-bot/app/registration/watermill/handlers"
	"github.com/open-bracket/discord-reg-bot/app/registration/workflow"
	"github.com/open-bracket/discord-reg-bot/app/shared/eventbus"
	"github.com/open-bracket/discord-reg-bot/app/shared/metrics"
	"github.com/open-bracket/discord-reg-bot/app/shared/redaction"
	"github.com/open-bracket/discord-reg-bot/bot"
	"github.com/open-bracket/discord-reg-bot/config"
	"github.com/open-bracket/discord-reg-bot/discord"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	logger.Info("Loaded configuration",
		slog.String("service", cfg.Service.Name),
		slog.String("token", redaction.RedactSecret(cfg.Discord.Token)),
		slog.String("registration_channel", cfg.Discord.RegistrationChannelID),
		slog.String("review_channel", cfg.Discord.ReviewChannelID),
		slog.String("form_file", cfg.Intake.FormFile),
		slog.String("data_file", cfg.Intake.DataFile),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	discordMetrics, err := metrics.NewDiscordMetrics(registry)
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	eventBus, err := eventbus.NewEventBus(ctx, logger)
	if err != nil {
		log.Fatalf("Failed to create event bus: %v", err)
	}

	f, err := form.Load(cfg.Intake.FormFile)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	st, err := store.NewFileStore(cfg.Intake.DataFile, store.Options{
		BlockReapplyAfterRejection: cfg.Intake.BlockReapplyAfterRejection,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to open registration store: %v", err)
	}

	discordSession, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	discordSession.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	sessionWrapper := discord.NewDiscordSession(discordSession, logger)
	operations := discord.NewOperations(sessionWrapper, logger, cfg)

	tracer := otel.Tracer(cfg.Service.Name)

	col := collector.New(collector.Config{
		QuestionTimeout: cfg.Intake.QuestionTimeout,
		SelectTimeout:   cfg.Intake.SelectTimeout,
		CancelWord:      cfg.Intake.CancelWord,
	}, logger)

	wf := workflow.New(st, eventBus, workflow.Config{
		ReasonTimeout: cfg.Intake.RejectReasonTimeout,
	}, logger)

	intakeManager := intake.NewIntakeManager(operations, eventBus, logger, cfg, f, col, wf, st, tracer, discordMetrics)
	reviewManager := review.NewReviewManager(operations, logger, cfg, f, wf, st, tracer, discordMetrics)

	watermillRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NopLogger{})
	if err != nil {
		log.Fatalf("Failed to create watermill router: %v", err)
	}

	regRouter := registrationrouter.NewRegistrationRouter(logger, watermillRouter, eventBus, registry)
	if err := regRouter.Configure(ctx, registrationhandlers.NewRegistrationHandlers(logger, reviewManager)); err != nil {
		log.Fatalf("Failed to configure registration router: %v", err)
	}

	interactionRegistry := interactions.NewRegistry()
	intake.RegisterHandlers(interactionRegistry, intakeManager)
	review.RegisterHandlers(interactionRegistry, reviewManager)

	messageRegistry := interactions.NewMessageRegistry(logger)
	messageRegistry.RegisterMessageCreateHandler(func(ctx context.Context, m *discordgo.MessageCreate) bool {
		if m.GuildID != "" && m.ChannelID == cfg.Discord.RegistrationChannelID {
			if _, err := intakeManager.HandleRegistrationChannelMessage(ctx, m); err != nil {
				logger.ErrorContext(ctx, "registration channel handler failed", slog.Any("error", err))
			}
			return true
		}
		return false
	})
	messageRegistry.RegisterMessageCreateHandler(func(ctx context.Context, m *discordgo.MessageCreate) bool {
		if m.GuildID == "" {
			return intakeManager.HandleDMMessage(ctx, m)
		}
		return false
	})
	messageRegistry.RegisterMessageCreateHandler(func(ctx context.Context, m *discordgo.MessageCreate) bool {
		return reviewManager.HandleReviewChannelMessage(ctx, m)
	})

	discordBot, err := bot.NewDiscordBot(sessionWrapper, cfg, interactionRegistry, messageRegistry, logger, eventBus, watermillRouter)
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	healthHandler := health.NewHandler(cfg.Service.Name, registry)
	discordBot.OnReady = func() { healthHandler.SetReady(true) }
	if cfg.Service.HealthAddr != "" {
		go func() {
			if err := healthHandler.StartServer(cfg.Service.HealthAddr); err != nil && err != http.ErrServerClosed {
				logger.Error("Health server stopped", slog.Any("error", err))
			}
		}()
	}

	go func() {
		if err := discordBot.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("Discord bot error", slog.Any("error", err))
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down gracefully...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthHandler.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to stop health server", slog.Any("error", err))
	}
	discordBot.Close()
	logger.Info("Shutdown complete.")
}
