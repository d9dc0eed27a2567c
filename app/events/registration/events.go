package registrationevents

import (
	"time"

	"github.com/open-bracket/discord-reg-bot/app/registration/form"
)

// Event names (constants) - grouped by flow for readability.
const (
	// Intake flow (applicant side).
	IntakeStarted   = "discord.registration.intake.started"
	IntakeCancelled = "discord.registration.intake.cancelled"
	IntakeTimedOut  = "discord.registration.intake.timedout"
	IntakeSubmitted = "discord.registration.intake.submitted"
	IntakeDuplicate = "discord.registration.intake.duplicate"

	// Review flow (staff side).
	ReviewRequested = "discord.registration.review.requested"
	ReviewApproved  = "discord.registration.review.approved"
	ReviewRejected  = "discord.registration.review.rejected"
)

// IntakeStartedPayload is published when a collection run begins.
type IntakeStartedPayload struct {
	ApplicantID string `json:"applicant_id"`
	GuildID     string `json:"guild_id"`
}

// IntakeAbortedPayload is published when a collection run ends without a
// completed answer set (cancel or timeout).
type IntakeAbortedPayload struct {
	ApplicantID string `json:"applicant_id"`
	Reason      string `json:"reason"`
}

// IntakeSubmittedPayload carries a completed answer set into the review flow.
type IntakeSubmittedPayload struct {
	ApplicantID string         `json:"applicant_id"`
	GuildID     string         `json:"guild_id"`
	Answers     form.AnswerSet `json:"answers"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// ReviewDecidedPayload is published once a reviewer's decision has been
// recorded against the store.
type ReviewDecidedPayload struct {
	ApplicantID string    `json:"applicant_id"`
	ReviewerID  string    `json:"reviewer_id"`
	Approved    bool      `json:"approved"`
	Reason      string    `json:"reason,omitempty"`
	DecidedAt   time.Time `json:"decided_at"`
}
