package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/triagelab/ai-triage/internal/issuefile"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "issue.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadIssueFile(t *testing.T) {
	path := writeTempFile(t, "Login fails after reset\n\nSteps:\n1. Reset password\n2. Log in\n")

	issue, err := readIssueFile(path)
	if err != nil {
		t.Fatalf("readIssueFile() error = %v", err)
	}
	if issue.Title != "Login fails after reset" {
		t.Errorf("Title = %q", issue.Title)
	}
	if !strings.HasPrefix(issue.Description, "Steps:") {
		t.Errorf("Description = %q", issue.Description)
	}
}

func TestReadIssueFileTitleOnly(t *testing.T) {
	path := writeTempFile(t, "Just a title\n")

	issue, err := readIssueFile(path)
	if err != nil {
		t.Fatalf("readIssueFile() error = %v", err)
	}
	if issue.Title != "Just a title" {
		t.Errorf("Title = %q", issue.Title)
	}
	if issue.Description != issuefile.DefaultDescription {
		t.Errorf("Description = %q, want default", issue.Description)
	}
}

func TestReadIssueFileEmpty(t *testing.T) {
	path := writeTempFile(t, "  \n\n")

	if _, err := readIssueFile(path); err == nil {
		t.Fatal("readIssueFile() error = nil for empty file")
	}
}

func TestReadIssueFileMissing(t *testing.T) {
	if _, err := readIssueFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("readIssueFile() error = nil for missing file")
	}
}

func TestInputFlagsPreferTitle(t *testing.T) {
	f := inputFlags{title: "Crash on launch", description: "Crashes immediately."}

	issue, err := f.resolve()
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if issue.Title != "Crash on launch" || issue.Description != "Crashes immediately." {
		t.Errorf("resolve() = %+v", issue)
	}
}
