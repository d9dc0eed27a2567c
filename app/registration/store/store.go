package store

import (
	"context"
	"errors"
	"time"

	"github.com/open-bracket/discord-reg-bot/app/registration/form"
)

// Status is the lifecycle state of a registration record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var (
	// ErrDuplicateOpenRegistration is returned when the applicant already has
	// a record that blocks a new submission.
	ErrDuplicateOpenRegistration = errors.New("applicant already has an open registration")
	// ErrNotFound is returned when no record exists for the applicant.
	ErrNotFound = errors.New("no registration found for applicant")
	// ErrAlreadyDecided is returned when the record is no longer pending.
	ErrAlreadyDecided = errors.New("registration already decided")
)

// Decision records who decided a registration, when, and why.
type Decision struct {
	By     string    `json:"by"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason,omitempty"`
}

// Record is one applicant's registration as tracked through review.
type Record struct {
	Applicant   string         `json:"applicant"`
	Answers     form.AnswerSet `json:"answers"`
	Status      Status         `json:"status"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Decision    *Decision      `json:"decision,omitempty"`

	// Review message reference so the decision flow can edit the original
	// embed. Empty until the review post lands.
	ReviewChannelID string `json:"review_channel_id,omitempty"`
	ReviewMessageID string `json:"review_message_id,omitempty"`
}

// Store owns registration records. It is the only mutator of them; all
// mutations are atomic with respect to concurrent callers and durable before
// they return.
type Store interface {
	CreatePending(ctx context.Context, applicant string, answers form.AnswerSet) (Record, error)
	Get(ctx context.Context, applicant string) (Record, bool)
	Transition(ctx context.Context, applicant string, to Status, decision Decision) (Record, error)
	SetReviewMessage(ctx context.Context, applicant, channelID, messageID string) error
}
