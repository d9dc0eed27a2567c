package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting the bot consumes. Values missing from the YAML
// file fall back to environment variables.
type Config struct {
	Discord DiscordConfig `yaml:"discord"`
	Intake  IntakeConfig  `yaml:"intake"`
	Service ServiceConfig `yaml:"service"`
}

// DiscordConfig holds Discord ids and the token.
type DiscordConfig struct {
	Token                 string `yaml:"token"`
	AppID                 string `yaml:"app_id"`
	GuildID               string `yaml:"guild_id"`
	RegistrationChannelID string `yaml:"registration_channel_id"`
	ReviewChannelID       string `yaml:"review_channel_id"`
	ApproverRoleID        string `yaml:"approver_role_id"`
	RequiredRoleID        string `yaml:"required_role_id"` // optional gate on starting registration
}

// IntakeConfig holds the knobs of the registration intake flow.
type IntakeConfig struct {
	FormFile            string        `yaml:"form_file"`
	DataFile            string        `yaml:"data_file"`
	CancelWord          string        `yaml:"cancel_word"`
	QuestionTimeout     time.Duration `yaml:"question_timeout"`
	SelectTimeout       time.Duration `yaml:"select_timeout"`
	RejectReasonTimeout time.Duration `yaml:"reject_reason_timeout"`
	// BlockReapplyAfterRejection keeps a rejected applicant from starting a
	// new registration. The stock deployment allows re-application.
	BlockReapplyAfterRejection bool `yaml:"block_reapply_after_rejection"`
}

// ServiceConfig holds general service configuration.
type ServiceConfig struct {
	Name string `yaml:"name"`
	// HealthAddr is where the health/metrics HTTP server listens. Empty
	// disables it.
	HealthAddr string `yaml:"health_addr"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables for anything the file leaves unset.
func LoadConfig(filename string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	if err := loadConfigFromEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// loadConfigFromEnv fills unset fields from environment variables.
func loadConfigFromEnv(cfg *Config) error {
	if cfg.Discord.Token == "" {
		cfg.Discord.Token = os.Getenv("DISCORD_TOKEN")
		if cfg.Discord.Token == "" {
			return fmt.Errorf("DISCORD_TOKEN environment variable not set")
		}
	}
	if cfg.Discord.AppID == "" {
		cfg.Discord.AppID = os.Getenv("DISCORD_APP_ID")
	}
	if cfg.Discord.GuildID == "" {
		cfg.Discord.GuildID = os.Getenv("DISCORD_GUILD_ID")
	}
	if cfg.Discord.RegistrationChannelID == "" {
		cfg.Discord.RegistrationChannelID = os.Getenv("DISCORD_REGISTRATION_CHANNEL_ID")
	}
	if cfg.Discord.ReviewChannelID == "" {
		cfg.Discord.ReviewChannelID = os.Getenv("DISCORD_REVIEW_CHANNEL_ID")
	}
	if cfg.Discord.ApproverRoleID == "" {
		cfg.Discord.ApproverRoleID = os.Getenv("DISCORD_APPROVER_ROLE_ID")
	}
	if cfg.Discord.RequiredRoleID == "" {
		cfg.Discord.RequiredRoleID = os.Getenv("DISCORD_REQUIRED_ROLE_ID")
	}
	if cfg.Intake.FormFile == "" {
		cfg.Intake.FormFile = os.Getenv("FORM_FILE")
	}
	if cfg.Intake.DataFile == "" {
		cfg.Intake.DataFile = os.Getenv("DATA_FILE")
	}
	if cfg.Intake.CancelWord == "" {
		cfg.Intake.CancelWord = os.Getenv("CANCEL_WORD")
	}
	if err := durationFromEnv("QUESTION_TIMEOUT", &cfg.Intake.QuestionTimeout); err != nil {
		return err
	}
	if err := durationFromEnv("SELECT_TIMEOUT", &cfg.Intake.SelectTimeout); err != nil {
		return err
	}
	if err := durationFromEnv("REJECT_REASON_TIMEOUT", &cfg.Intake.RejectReasonTimeout); err != nil {
		return err
	}
	if !cfg.Intake.BlockReapplyAfterRejection {
		if v := os.Getenv("BLOCK_REAPPLY_AFTER_REJECTION"); v != "" {
			blocked, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid BLOCK_REAPPLY_AFTER_REJECTION: %w", err)
			}
			cfg.Intake.BlockReapplyAfterRejection = blocked
		}
	}
	if cfg.Service.Name == "" {
		cfg.Service.Name = os.Getenv("SERVICE_NAME")
	}
	if cfg.Service.HealthAddr == "" {
		cfg.Service.HealthAddr = os.Getenv("HEALTH_ADDR")
	}
	return nil
}

// durationFromEnv fills an unset duration from the named environment
// variable, accepting time.ParseDuration syntax.
func durationFromEnv(name string, dst *time.Duration) error {
	if *dst != 0 {
		return nil
	}
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = d
	return nil
}

// applyDefaults fills the remaining gaps with the stock deployment values.
func applyDefaults(cfg *Config) {
	if cfg.Intake.FormFile == "" {
		cfg.Intake.FormFile = "form.yaml"
	}
	if cfg.Intake.DataFile == "" {
		cfg.Intake.DataFile = "registrations.json"
	}
	if cfg.Intake.CancelWord == "" {
		cfg.Intake.CancelWord = "cancel"
	}
	if cfg.Intake.QuestionTimeout == 0 {
		cfg.Intake.QuestionTimeout = 3 * time.Minute
	}
	if cfg.Intake.SelectTimeout == 0 {
		cfg.Intake.SelectTimeout = 2 * time.Minute
	}
	if cfg.Intake.RejectReasonTimeout == 0 {
		cfg.Intake.RejectReasonTimeout = time.Minute
	}
	if cfg.Service.Name == "" {
		cfg.Service.Name = "discord-reg-bot"
	}
}
