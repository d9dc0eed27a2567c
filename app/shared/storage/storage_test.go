package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pendingPrompt struct {
	ApplicantID string
	QuestionID  string
}

func TestInteractionStore(t *testing.T) {
	s := NewInteractionStore[pendingPrompt](time.Minute)

	_, found := s.Get("corr-1")
	assert.False(t, found)

	want := pendingPrompt{ApplicantID: "user-1", QuestionID: "teamName"}
	s.Set("corr-1", want, time.Minute)
	got, found := s.Get("corr-1")
	require.True(t, found)
	assert.Equal(t, want, got)

	s.Delete("corr-1")
	_, found = s.Get("corr-1")
	assert.False(t, found)
}

func TestInteractionStore_Expiry(t *testing.T) {
	s := NewInteractionStore[string](time.Minute)
	s.Set("corr-1", "value", 20*time.Millisecond)

	require.Eventually(t, func() bool {
		_, found := s.Get("corr-1")
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestInteractionStore_Overwrite(t *testing.T) {
	s := NewInteractionStore[int](time.Minute)
	s.Set("corr-1", 1, time.Minute)
	s.Set("corr-1", 2, time.Minute)
	got, found := s.Get("corr-1")
	require.True(t, found)
	assert.Equal(t, 2, got)
}
