package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/triagelab/ai-triage/internal/issuefile"
	"github.com/triagelab/ai-triage/internal/similarity"
	"github.com/triagelab/ai-triage/pkg/models"
)

func newValidateCmd() *cobra.Command {
	var (
		strict bool
		matrix bool
	)

	cmd := &cobra.Command{
		Use:   "validate [issues-file]",
		Short: "Audit an issues file",
		Long: `Check an issues JSON file for problems the detector cares about:
duplicate ids, missing descriptions, and text the language audit flags as
non-English. --strict additionally validates against the JSON schema;
--matrix prints the pairwise similarity matrix of the corpus.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if strict {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read issues file: %w", err)
				}
				if err := issuefile.ValidateSchema(raw); err != nil {
					return err
				}
			}

			issues, err := issuefile.Load(path)
			if err != nil {
				return err
			}

			report := issuefile.Audit(issues)
			fmt.Printf("Issues: %d\n", report.Total)

			statuses := make([]string, 0, len(report.ByStatus))
			for status := range report.ByStatus {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
			for _, status := range statuses {
				fmt.Printf("  %s: %d\n", status, report.ByStatus[status])
			}

			if matrix && len(issues) > 0 {
				detector := similarity.NewDefaultDetector()
				fmt.Println("\nPairwise similarity:")
				fmt.Print(renderSimilarityMatrix(issues, detector.SimilarityMatrix(issues)))
			}

			if report.Clean() {
				fmt.Println("\nNo problems found")
				return nil
			}

			if len(report.DuplicateIDs) > 0 {
				fmt.Printf("\nDuplicate ids: %v\n", report.DuplicateIDs)
			}
			if report.MissingDescriptions > 0 {
				fmt.Printf("Missing descriptions: %d\n", report.MissingDescriptions)
			}
			if len(report.NonEnglish) > 0 {
				fmt.Printf("Likely non-English (similarity scores will suffer): %v\n", report.NonEnglish)
			}
			return fmt.Errorf("issues file has problems")
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "also validate against the JSON schema")
	cmd.Flags().BoolVar(&matrix, "matrix", false, "print the pairwise similarity matrix")

	return cmd
}

// renderSimilarityMatrix lays out an n×n score matrix with issue ids as row
// and column headers, scores to two decimals.
func renderSimilarityMatrix(issues []*models.IssueReference, m [][]float64) string {
	width := 4
	for _, issue := range issues {
		if len(issue.IssueID) > width {
			width = len(issue.IssueID)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width))
	for _, issue := range issues {
		fmt.Fprintf(&b, "  %*s", width, issue.IssueID)
	}
	b.WriteByte('\n')
	for i, issue := range issues {
		fmt.Fprintf(&b, "%-*s", width, issue.IssueID)
		for j := range issues {
			fmt.Fprintf(&b, "  %*.2f", width, m[i][j])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample [path]",
		Short: "Write a sample issues file",
		Long:  `Write a small issues JSON file to experiment with check and similar.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "issues.json"
			if len(args) == 1 {
				path = args[0]
			}

			if err := issuefile.WriteSample(path); err != nil {
				return err
			}
			fmt.Printf("Sample issues written to %s\n", path)
			return nil
		},
	}

	return cmd
}
