package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/open-bracket/discord-reg-bot/app/registration/store"
)

// respondStatus answers the `status` DM command from the persisted record.
func (im *intakeManager) respondStatus(ctx context.Context, userID string) {
	rec, ok := im.store.Get(ctx, userID)
	if !ok {
		im.sendDMBestEffort(ctx, userID, "No registration found. Start in the registration channel.")
		return
	}
	switch rec.Status {
	case store.StatusApproved:
		im.sendDMBestEffort(ctx, userID, "✅ Your registration was approved.")
	case store.StatusRejected:
		reason := "No reason given"
		if rec.Decision != nil && rec.Decision.Reason != "" {
			reason = rec.Decision.Reason
		}
		im.sendDMBestEffort(ctx, userID, fmt.Sprintf("❌ Rejected: %s", reason))
	case store.StatusPending:
		im.sendDMBestEffort(ctx, userID, "ℹ️ Your registration is pending review.")
	}
}

// sendDMBestEffort DMs the user, logging rather than failing when the DM
// cannot be delivered.
func (im *intakeManager) sendDMBestEffort(ctx context.Context, userID, content string) {
	if _, err := im.operations.SendDM(ctx, userID, content); err != nil {
		im.logger.WarnContext(ctx, "Failed to DM user",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}
