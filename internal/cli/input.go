package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/github"
	"github.com/triagelab/ai-triage/internal/issuefile"
	"github.com/triagelab/ai-triage/pkg/models"
)

// inputFlags resolve the issue under triage: explicit flags, a text file,
// a GitHub Actions event file, or an interactive prompt.
type inputFlags struct {
	title       string
	description string
	filePath    string
	eventPath   string
}

func (f *inputFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "issue title")
	cmd.Flags().StringVar(&f.description, "description", "", "issue description")
	cmd.Flags().StringVar(&f.filePath, "file", "", "text file: first line title, rest description")
	cmd.Flags().StringVar(&f.eventPath, "event", "", "GitHub Actions issue event JSON file")
}

func (f *inputFlags) resolve() (models.NewIssue, error) {
	switch {
	case f.title != "":
		return models.NewIssue{Title: f.title, Description: f.description}, nil
	case f.filePath != "":
		return readIssueFile(f.filePath)
	case f.eventPath != "":
		return readEventIssue(f.eventPath)
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return models.NewIssue{}, fmt.Errorf("no issue input: pass --title, --file, or --event")
	}
	return promptIssue()
}

func readIssueFile(path string) (models.NewIssue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.NewIssue{}, fmt.Errorf("failed to read issue file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return models.NewIssue{}, fmt.Errorf("issue file %s is empty", path)
	}

	title, description, _ := strings.Cut(text, "\n")
	issue := models.NewIssue{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
	if issue.Description == "" {
		issue.Description = issuefile.DefaultDescription
	}
	return issue, nil
}

func readEventIssue(path string) (models.NewIssue, error) {
	event, err := github.ParseEventFile(path)
	if err != nil {
		return models.NewIssue{}, err
	}
	if !event.IsIssueEvent() {
		return models.NewIssue{}, fmt.Errorf("event file %s is not an issue event", path)
	}

	issue := event.NewIssue()
	if issue == nil {
		return models.NewIssue{}, fmt.Errorf("event file %s carries no issue", path)
	}
	return *issue, nil
}

func promptIssue() (models.NewIssue, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Issue title: ")
	title, err := reader.ReadString('\n')
	if err != nil {
		return models.NewIssue{}, fmt.Errorf("failed to read title: %w", err)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return models.NewIssue{}, fmt.Errorf("title must not be empty")
	}

	fmt.Println("Issue description (finish with an empty line):")
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimRight(line, "\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	description := strings.TrimSpace(strings.Join(lines, "\n"))
	if description == "" {
		description = issuefile.DefaultDescription
	}
	return models.NewIssue{Title: title, Description: description}, nil
}
