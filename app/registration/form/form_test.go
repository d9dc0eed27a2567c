package form

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFormFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFormFile(t, `
title: Tournament Registration
questions:
  - id: teamName
    prompt: "Step 1: Team Name"
    placeholder: Enter your team name
    kind: text
  - id: rulesAgree
    prompt: Do you accept the rules?
    kind: select
    options:
      - label: "Yes"
        value: "yes"
      - label: "No"
        value: "no"
`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Tournament Registration", f.Title)
	require.Len(t, f.Questions, 2)
	assert.Equal(t, KindText, f.Questions[0].Kind)
	assert.Equal(t, KindSingleChoice, f.Questions[1].Kind)
	assert.Equal(t, "yes", f.Questions[1].Options[0].Value)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		form    Form
		wantErr string
	}{
		{
			name:    "no questions",
			form:    Form{},
			wantErr: "no questions",
		},
		{
			name: "missing id",
			form: Form{Questions: []Question{
				{Prompt: "p", Kind: KindText},
			}},
			wantErr: "has no id",
		},
		{
			name: "duplicate id",
			form: Form{Questions: []Question{
				{ID: "a", Prompt: "p", Kind: KindText},
				{ID: "a", Prompt: "q", Kind: KindText},
			}},
			wantErr: "duplicate question id",
		},
		{
			name: "missing prompt",
			form: Form{Questions: []Question{
				{ID: "a", Kind: KindText},
			}},
			wantErr: "has no prompt",
		},
		{
			name: "select without options",
			form: Form{Questions: []Question{
				{ID: "a", Prompt: "p", Kind: KindSingleChoice},
			}},
			wantErr: "no options",
		},
		{
			name: "unknown kind",
			form: Form{Questions: []Question{
				{ID: "a", Prompt: "p", Kind: "modal"},
			}},
			wantErr: "unknown kind",
		},
		{
			name: "valid",
			form: Form{Questions: []Question{
				{ID: "a", Prompt: "p", Kind: KindText},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestComplete(t *testing.T) {
	f := Form{Questions: []Question{
		{ID: "teamName", Prompt: "p", Kind: KindText},
		{ID: "leaderName", Prompt: "p", Kind: KindText},
	}}

	assert.True(t, f.Complete(AnswerSet{"teamName": "Phoenix", "leaderName": "Lee"}))
	assert.False(t, f.Complete(AnswerSet{"teamName": "Phoenix"}))
	assert.False(t, f.Complete(AnswerSet{"teamName": "Phoenix", "other": "x"}))
	assert.False(t, f.Complete(AnswerSet{"teamName": "Phoenix", "leaderName": "Lee", "extra": "y"}))
}
