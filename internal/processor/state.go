package processor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/triagelab/ai-triage/pkg/models"
)

// IndexState records what an indexing run saw, so later runs can skip
// unchanged issues and prune removed ones.
type IndexState struct {
	Collection string    `json:"collection"`
	LastRun    time.Time `json:"last_run"`
	// TextHashes maps issue id to the hash of its indexed text.
	TextHashes map[string]string `json:"text_hashes"`
}

// LoadState reads the state file for a collection. A missing file yields a
// fresh state, not an error.
func LoadState(dir, collection string) (*IndexState, error) {
	data, err := os.ReadFile(statePath(dir, collection))
	if errors.Is(err, os.ErrNotExist) {
		return newState(collection), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index state: %w", err)
	}

	var state IndexState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse index state for %q: %w", collection, err)
	}
	if state.TextHashes == nil {
		state.TextHashes = make(map[string]string)
	}
	state.Collection = collection
	return &state, nil
}

func newState(collection string) *IndexState {
	return &IndexState{
		Collection: collection,
		TextHashes: make(map[string]string),
	}
}

// Save writes the state file, creating the directory as needed.
func (s *IndexState) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index state: %w", err)
	}
	if err := os.WriteFile(statePath(dir, s.Collection), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write index state: %w", err)
	}
	return nil
}

// Changed reports whether the issue is new or its text moved since the
// recorded run.
func (s *IndexState) Changed(issue *models.IssueReference) bool {
	return s.TextHashes[issue.IssueID] != issue.TextHash()
}

// Record notes the issue's current text hash.
func (s *IndexState) Record(issue *models.IssueReference) {
	s.TextHashes[issue.IssueID] = issue.TextHash()
}

// Forget drops an issue from the recorded set.
func (s *IndexState) Forget(issueID string) {
	delete(s.TextHashes, issueID)
}

func statePath(dir, collection string) string {
	return filepath.Join(dir, collection+".state.json")
}

// DefaultStateDir returns the per-user directory for index state files.
func DefaultStateDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "ai-triage")
	}
	return ".ai-triage"
}
