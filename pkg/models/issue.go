package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// IssueReference identifies an existing issue considered during duplicate
// detection. Status is free-form ("open", "closed", "in_progress", ...);
// only "open" issues participate in duplicate classification.
type IssueReference struct {
	IssueID     string   `json:"issue_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	CreatedDate string   `json:"created_date,omitempty"`
	URL         string   `json:"url,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// IsOpen reports whether the issue status is "open", case-insensitively.
func (r *IssueReference) IsOpen() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), "open")
}

// UUID generates a deterministic UUID for the issue, used as its vector
// point identity.
func (r *IssueReference) UUID() string {
	return IssueUUID(r.IssueID)
}

// TextHash returns a SHA256 hash of title and description for change detection.
func (r *IssueReference) TextHash() string {
	h := sha256.Sum256([]byte(r.Title + "\x00" + r.Description))
	return hex.EncodeToString(h[:])
}

// IssueUUID generates a deterministic UUID from an issue ID.
func IssueUUID(issueID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("issue/"+issueID)).String()
}

// NewIssue is an incoming report that has not been filed yet.
type NewIssue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
