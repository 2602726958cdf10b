// Package issuefile loads issue corpora from JSON files, tolerating the
// field spellings of GitHub API dumps, export tools, and hand-written
// fixtures alike.
package issuefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/triagelab/ai-triage/pkg/models"
)

// DefaultDescription fills in for records that carry no usable description.
const DefaultDescription = "No description provided"

// Load reads a JSON array of issue records from a file and normalizes each
// record into an IssueReference.
func Load(path string) ([]*models.IssueReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read issues file: %w", err)
	}
	issues, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load issues from %q: %w", path, err)
	}
	return issues, nil
}

// Parse normalizes a JSON array of loosely-shaped issue records. Accepted
// spellings per field:
//
//	issue_id     issue_id, id, number (numbers kept as decimal strings)
//	description  description, body
//	status       status, state (lowercased, default "open")
//	created_date created_date, created_at
//	url          url, html_url
//	labels       strings, or objects with a "name" field
//
// A record missing an id or a title fails with its position in the array.
func Parse(data []byte) ([]*models.IssueReference, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid issues JSON: %w", err)
	}

	issues := make([]*models.IssueReference, 0, len(records))
	for i, rec := range records {
		issue, err := normalizeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func normalizeRecord(rec map[string]any) (*models.IssueReference, error) {
	id, ok := firstValue(rec, "issue_id", "id", "number")
	if !ok {
		return nil, errors.New(`missing required field "issue_id" (or "id", "number")`)
	}

	title, ok := firstValue(rec, "title")
	if !ok {
		return nil, errors.New(`missing required field "title"`)
	}

	description, _ := firstValue(rec, "description", "body")
	if description == "" {
		description = DefaultDescription
	}

	status, _ := firstValue(rec, "status", "state")
	if status == "" {
		status = "open"
	}

	created, _ := firstValue(rec, "created_date", "created_at")
	url, _ := firstValue(rec, "url", "html_url")

	return &models.IssueReference{
		IssueID:     id,
		Title:       title,
		Description: description,
		Status:      strings.ToLower(status),
		CreatedDate: created,
		URL:         url,
		Labels:      labelNames(rec["labels"]),
	}, nil
}

// firstValue returns the first present, non-null key as a string.
func firstValue(rec map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		return stringify(v), true
	}
	return "", false
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func labelNames(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var names []string
	for _, item := range items {
		switch t := item.(type) {
		case string:
			names = append(names, t)
		case map[string]any:
			if name, ok := t["name"].(string); ok && name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
