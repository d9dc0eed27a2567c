package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/open-bracket/discord-reg-bot/app/registration/form"
)

// Options tune store policy.
type Options struct {
	// BlockReapplyAfterRejection makes a Rejected record block new
	// submissions the same way an Approved record does.
	BlockReapplyAfterRejection bool
}

// snapshot is the on-disk shape: one map per status, keyed by applicant id.
type snapshot struct {
	Pending  map[string]Record `json:"pending"`
	Approved map[string]Record `json:"approved"`
	Rejected map[string]Record `json:"rejected"`
}

// fileStore keeps records in memory and snapshots them to a JSON file on
// every mutation. The file is replaced atomically; a mutation whose snapshot
// fails is rolled back so memory and disk never disagree silently.
type fileStore struct {
	mu      sync.Mutex
	records map[string]Record
	path    string
	opts    Options
	logger  *slog.Logger
	clock   func() time.Time
}

// NewFileStore opens (or creates) the JSON-backed store at path, reloading
// any records persisted by a previous run.
func NewFileStore(path string, opts Options, logger *slog.Logger) (Store, error) {
	fs := &fileStore{
		records: make(map[string]Record),
		path:    path,
		opts:    opts,
		logger:  logger,
		clock:   time.Now,
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *fileStore) load() error {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read data file: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to unmarshal data file: %w", err)
	}
	for _, bucket := range []map[string]Record{snap.Pending, snap.Approved, snap.Rejected} {
		for applicant, rec := range bucket {
			fs.records[applicant] = rec
		}
	}
	fs.logger.Info("Loaded registration records",
		slog.Int("count", len(fs.records)),
		slog.String("path", fs.path),
	)
	return nil
}

// save writes the snapshot to a temp file and renames it into place.
// Callers must hold fs.mu.
func (fs *fileStore) save() error {
	snap := snapshot{
		Pending:  make(map[string]Record),
		Approved: make(map[string]Record),
		Rejected: make(map[string]Record),
	}
	for applicant, rec := range fs.records {
		switch rec.Status {
		case StatusPending:
			snap.Pending[applicant] = rec
		case StatusApproved:
			snap.Approved[applicant] = rec
		case StatusRejected:
			snap.Rejected[applicant] = rec
		}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".registrations-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

func (fs *fileStore) CreatePending(ctx context.Context, applicant string, answers form.AnswerSet) (Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if existing, ok := fs.records[applicant]; ok {
		switch existing.Status {
		case StatusPending, StatusApproved:
			return Record{}, ErrDuplicateOpenRegistration
		case StatusRejected:
			if fs.opts.BlockReapplyAfterRejection {
				return Record{}, ErrDuplicateOpenRegistration
			}
		}
	}

	rec := Record{
		Applicant:   applicant,
		Answers:     answers,
		Status:      StatusPending,
		SubmittedAt: fs.clock().UTC(),
	}
	prev, hadPrev := fs.records[applicant]
	fs.records[applicant] = rec
	if err := fs.save(); err != nil {
		if hadPrev {
			fs.records[applicant] = prev
		} else {
			delete(fs.records, applicant)
		}
		return Record{}, err
	}
	fs.logger.InfoContext(ctx, "Created pending registration", slog.String("applicant", applicant))
	return rec, nil
}

func (fs *fileStore) Get(_ context.Context, applicant string) (Record, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	rec, ok := fs.records[applicant]
	return rec, ok
}

func (fs *fileStore) Transition(ctx context.Context, applicant string, to Status, decision Decision) (Record, error) {
	if to != StatusApproved && to != StatusRejected {
		return Record{}, fmt.Errorf("invalid target status %q", to)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	rec, ok := fs.records[applicant]
	if !ok {
		return Record{}, ErrNotFound
	}
	if rec.Status != StatusPending {
		return Record{}, ErrAlreadyDecided
	}

	prev := rec
	rec.Status = to
	d := decision
	if d.At.IsZero() {
		d.At = fs.clock().UTC()
	}
	rec.Decision = &d
	fs.records[applicant] = rec
	if err := fs.save(); err != nil {
		fs.records[applicant] = prev
		return Record{}, err
	}
	fs.logger.InfoContext(ctx, "Transitioned registration",
		slog.String("applicant", applicant),
		slog.String("status", string(to)),
		slog.String("decided_by", d.By),
	)
	return rec, nil
}

func (fs *fileStore) SetReviewMessage(_ context.Context, applicant, channelID, messageID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	rec, ok := fs.records[applicant]
	if !ok {
		return ErrNotFound
	}
	prev := rec
	rec.ReviewChannelID = channelID
	rec.ReviewMessageID = messageID
	fs.records[applicant] = rec
	if err := fs.save(); err != nil {
		fs.records[applicant] = prev
		return err
	}
	return nil
}
