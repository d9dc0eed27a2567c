package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
discord:
  token: "file-token"
  guild_id: "guild-1"
  registration_channel_id: "reg-chan"
  review_channel_id: "review-chan"
  approver_role_id: "role-staff"
intake:
  cancel_word: "stop"
  question_timeout: 90s
  block_reapply_after_rejection: true
service:
  name: "reg-bot-test"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Discord.Token)
	assert.Equal(t, "reg-chan", cfg.Discord.RegistrationChannelID)
	assert.Equal(t, "stop", cfg.Intake.CancelWord)
	assert.Equal(t, 90*time.Second, cfg.Intake.QuestionTimeout)
	assert.True(t, cfg.Intake.BlockReapplyAfterRejection)
	assert.Equal(t, "reg-bot-test", cfg.Service.Name)

	// Unset knobs fall back to the defaults.
	assert.Equal(t, 2*time.Minute, cfg.Intake.SelectTimeout)
	assert.Equal(t, time.Minute, cfg.Intake.RejectReasonTimeout)
	assert.Equal(t, "form.yaml", cfg.Intake.FormFile)
	assert.Equal(t, "registrations.json", cfg.Intake.DataFile)
}

func TestLoadConfig_EnvFallback(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("DISCORD_REVIEW_CHANNEL_ID", "env-review-chan")
	t.Setenv("CANCEL_WORD", "quit")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, "env-review-chan", cfg.Discord.ReviewChannelID)
	assert.Equal(t, "quit", cfg.Intake.CancelWord)
	assert.Equal(t, 3*time.Minute, cfg.Intake.QuestionTimeout)
	assert.Equal(t, "discord-reg-bot", cfg.Service.Name)
}

func TestLoadConfig_DurationEnvFallback(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("QUESTION_TIMEOUT", "45s")
	t.Setenv("SELECT_TIMEOUT", "30s")
	t.Setenv("REJECT_REASON_TIMEOUT", "90s")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Intake.QuestionTimeout)
	assert.Equal(t, 30*time.Second, cfg.Intake.SelectTimeout)
	assert.Equal(t, 90*time.Second, cfg.Intake.RejectReasonTimeout)
}

func TestLoadConfig_InvalidDurationEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("SELECT_TIMEOUT", "soon")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SELECT_TIMEOUT")
}

func TestLoadConfig_FileWinsOverEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("CANCEL_WORD", "quit")
	path := writeConfigFile(t, `
discord:
  token: "file-token"
intake:
  cancel_word: "stop"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Discord.Token)
	assert.Equal(t, "stop", cfg.Intake.CancelWord)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
}

func TestLoadConfig_InvalidBlockReapplyEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("BLOCK_REAPPLY_AFTER_REJECTION", "maybe")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BLOCK_REAPPLY_AFTER_REJECTION")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "discord: [not a mapping")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
