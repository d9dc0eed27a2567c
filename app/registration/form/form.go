package form

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// QuestionKind discriminates how a question is presented and answered.
type QuestionKind string

const (
	KindText         QuestionKind = "text"
	KindSingleChoice QuestionKind = "select"
)

// Option is one entry of a single-choice question.
type Option struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Question is one step of a form.
type Question struct {
	ID          string       `yaml:"id" json:"id"`
	Prompt      string       `yaml:"prompt" json:"prompt"`
	Placeholder string       `yaml:"placeholder" json:"placeholder,omitempty"`
	Kind        QuestionKind `yaml:"kind" json:"kind"`
	Options     []Option     `yaml:"options" json:"options,omitempty"`
	// Timeout overrides the deployment-wide per-question timeout when set.
	Timeout time.Duration `yaml:"timeout" json:"-"`
}

// Form is the immutable ordered list of questions an applicant answers.
// It is loaded once at process start and never mutated.
type Form struct {
	Title     string     `yaml:"title" json:"title"`
	Questions []Question `yaml:"questions" json:"questions"`
}

// AnswerSet maps question ids to submitted values. A completed set holds
// exactly one entry per question of the form it was collected against.
type AnswerSet map[string]string

// Load reads a form definition from a YAML file and validates it.
func Load(filename string) (*Form, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}
	var f Form
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal form: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the structural rules a form must satisfy before any
// collection run may use it.
func (f *Form) Validate() error {
	if len(f.Questions) == 0 {
		return fmt.Errorf("form has no questions")
	}
	seen := make(map[string]struct{}, len(f.Questions))
	for i, q := range f.Questions {
		if q.ID == "" {
			return fmt.Errorf("question %d has no id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
		if q.Prompt == "" {
			return fmt.Errorf("question %q has no prompt", q.ID)
		}
		switch q.Kind {
		case KindText:
		case KindSingleChoice:
			if len(q.Options) == 0 {
				return fmt.Errorf("select question %q has no options", q.ID)
			}
		default:
			return fmt.Errorf("question %q has unknown kind %q", q.ID, q.Kind)
		}
	}
	return nil
}

// Complete reports whether answers covers every question of the form
// exactly, with no extra keys.
func (f *Form) Complete(answers AnswerSet) bool {
	if len(answers) != len(f.Questions) {
		return false
	}
	for _, q := range f.Questions {
		if _, ok := answers[q.ID]; !ok {
			return false
		}
	}
	return true
}
