package workflow

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	registrationevents "github.com/open-bracket/discord-reg-bot/app/events/registration"
	"github.com/open-bracket/discord-reg-bot/app/registration/form"
	"github.com/open-bracket/discord-reg-bot/app/registration/store"
	"github.com/open-bracket/discord-reg-bot/app/shared/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkflow(t *testing.T, cfg Config) (*Workflow, store.Store, *testutils.FakeEventBus) {
	t.Helper()
	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "registrations.json"), store.Options{}, testutils.NoOpLogger())
	require.NoError(t, err)
	bus := testutils.NewFakeEventBus()
	return New(st, bus, cfg, testutils.NoOpLogger()), st, bus
}

func submittedAnswers() form.AnswerSet {
	return form.AnswerSet{"teamName": "Phoenix", "leaderName": "Ada"}
}

func TestSubmit(t *testing.T) {
	w, st, bus := newTestWorkflow(t, Config{ReasonTimeout: time.Second})
	ctx := context.Background()

	rec, err := w.Submit(ctx, "user-1", "guild-1", submittedAnswers())
	require.NoError(t, err)
	assert.Equal(t, store.StatusPending, rec.Status)

	stored, ok := st.Get(ctx, "user-1")
	require.True(t, ok)
	assert.Equal(t, store.StatusPending, stored.Status)

	msgs := bus.Published(registrationevents.ReviewRequested)
	require.Len(t, msgs, 1)
	var payload registrationevents.IntakeSubmittedPayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Equal(t, "user-1", payload.ApplicantID)
	assert.Equal(t, "guild-1", payload.GuildID)
	assert.Equal(t, submittedAnswers(), payload.Answers)
	assert.Equal(t, "user-1", msgs[0].Metadata.Get("user_id"))
}

func TestSubmit_Duplicate(t *testing.T) {
	w, _, bus := newTestWorkflow(t, Config{ReasonTimeout: time.Second})
	ctx := context.Background()

	_, err := w.Submit(ctx, "user-1", "guild-1", submittedAnswers())
	require.NoError(t, err)
	_, err = w.Submit(ctx, "user-1", "guild-1", submittedAnswers())
	assert.ErrorIs(t, err, store.ErrDuplicateOpenRegistration)
	assert.Len(t, bus.Published(registrationevents.ReviewRequested), 1)
}

func TestDecide_Approve(t *testing.T) {
	w, st, bus := newTestWorkflow(t, Config{ReasonTimeout: time.Second})
	ctx := context.Background()
	_, err := w.Submit(ctx, "user-1", "guild-1", submittedAnswers())
	require.NoError(t, err)

	note, err := w.Decide(ctx, "user-1", "staff-1", OutcomeApprove)
	require.NoError(t, err)
	assert.Equal(t, Notification{Applicant: "user-1", Status: store.StatusApproved}, note)

	rec, ok := st.Get(ctx, "user-1")
	require.True(t, ok)
	assert.Equal(t, store.StatusApproved, rec.Status)
	require.NotNil(t, rec.Decision)
	assert.Equal(t, "staff-1", rec.Decision.By)

	msgs := bus.Published(registrationevents.ReviewApproved)
	require.Len(t, msgs, 1)
	var payload registrationevents.ReviewDecidedPayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.True(t, payload.Approved)
	assert.Equal(t, "staff-1", payload.ReviewerID)
	assert.Empty(t, bus.Published(registrationevents.ReviewRejected))
}

func TestDecide_RejectWithReason(t *testing.T) {
	w, st, bus := newTestWorkflow(t, Config{ReasonTimeout: 5 * time.Second})
	ctx := context.Background()
	_, err := w.Submit(ctx, "user-1", "guild-1", submittedAnswers())
	require.NoError(t, err)

	done := make(chan struct {
		note Notification
		err  error
	}, 1)
	go func() {
		note, err := w.Decide(ctx, "user-1", "staff-1", OutcomeReject)
		done <- struct {
			note Notification
			err  error
		}{note, err}
	}()

	// The decision blocks until the reviewer's reply lands.
	require.Eventually(t, func() bool { return w.AwaitingReason("staff-1") }, 2*time.Second, 10*time.Millisecond)
	require.True(t, w.HandleReviewerReply("staff-1", "roster incomplete"))

	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, Notification{Applicant: "user-1", Status: store.StatusRejected, Reason: "roster incomplete"}, out.note)
	assert.False(t, w.AwaitingReason("staff-1"))

	rec, ok := st.Get(ctx, "user-1")
	require.True(t, ok)
	assert.Equal(t, store.StatusRejected, rec.Status)
	assert.Equal(t, "roster incomplete", rec.Decision.Reason)

	msgs := bus.Published(registrationevents.ReviewRejected)
	require.Len(t, msgs, 1)
	var payload registrationevents.ReviewDecidedPayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.False(t, payload.Approved)
	assert.Equal(t, "roster incomplete", payload.Reason)
}

func TestDecide_RejectReasonTimeout(t *testing.T) {
	w, st, _ := newTestWorkflow(t, Config{ReasonTimeout: 30 * time.Millisecond})
	ctx := context.Background()
	_, err := w.Submit(ctx, "user-1", "guild-1", submittedAnswers())
	require.NoError(t, err)

	note, err := w.Decide(ctx, "user-1", "staff-1", OutcomeReject)
	require.NoError(t, err)
	assert.Equal(t, NoReasonProvided, note.Reason)

	rec, _ := st.Get(ctx, "user-1")
	assert.Equal(t, NoReasonProvided, rec.Decision.Reason)
}

func TestDecide_RejectEmptyReplyUsesPlaceholder(t *testing.T) {
	w, _, _ := newTestWorkflow(t, Config{ReasonTimeout: 5 * time.Second})
	ctx := context.Background()
	_, err := w.Submit(ctx, "user-1", "guild-1", submittedAnswers())
	require.NoError(t, err)

	done := make(chan Notification, 1)
	go func() {
		note, _ := w.Decide(ctx, "user-1", "staff-1", OutcomeReject)
		done <- note
	}()
	require.Eventually(t, func() bool { return w.AwaitingReason("staff-1") }, 2*time.Second, 10*time.Millisecond)
	require.True(t, w.HandleReviewerReply("staff-1", ""))

	note := <-done
	assert.Equal(t, NoReasonProvided, note.Reason)
}

func TestDecide_Errors(t *testing.T) {
	w, _, _ := newTestWorkflow(t, Config{ReasonTimeout: 10 * time.Millisecond})
	ctx := context.Background()

	_, err := w.Decide(ctx, "nobody", "staff-1", OutcomeApprove)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = w.Submit(ctx, "user-1", "guild-1", submittedAnswers())
	require.NoError(t, err)
	_, err = w.Decide(ctx, "user-1", "staff-1", OutcomeApprove)
	require.NoError(t, err)
	_, err = w.Decide(ctx, "user-1", "staff-2", OutcomeReject)
	assert.ErrorIs(t, err, store.ErrAlreadyDecided)

	_, err = w.Decide(ctx, "user-1", "staff-1", Outcome("shrug"))
	assert.Error(t, err)
}

func TestDecide_PublishFailureDoesNotUndoDecision(t *testing.T) {
	w, st, bus := newTestWorkflow(t, Config{ReasonTimeout: time.Second})
	ctx := context.Background()
	_, err := w.Submit(ctx, "user-1", "guild-1", submittedAnswers())
	require.NoError(t, err)

	bus.FailPublishes()
	note, err := w.Decide(ctx, "user-1", "staff-1", OutcomeApprove)
	require.NoError(t, err)
	assert.Equal(t, store.StatusApproved, note.Status)

	rec, ok := st.Get(ctx, "user-1")
	require.True(t, ok)
	assert.Equal(t, store.StatusApproved, rec.Status)
}

func TestHandleReviewerReply_NoWait(t *testing.T) {
	w, _, _ := newTestWorkflow(t, Config{ReasonTimeout: time.Second})
	assert.False(t, w.HandleReviewerReply("staff-1", "hello"))
	assert.False(t, w.AwaitingReason("staff-1"))
}
