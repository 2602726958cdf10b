package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/triagelab/ai-triage/internal/pipeline"
	"github.com/triagelab/ai-triage/pkg/models"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	dupColor     = color.New(color.FgRed, color.Bold).SprintFunc()
	cleanColor   = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
	subtleColor  = color.New(color.FgHiBlack).SprintFunc()
	percentColor = color.New(color.FgWhite, color.Bold).SprintFunc()
)

// writeOut sends rendered output to a file or stdout.
func writeOut(text, outputFile string) error {
	if outputFile == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}

// renderCheck renders a duplicate-check report as text or JSON.
func renderCheck(report models.CheckReport, format string) (string, error) {
	if format == "json" {
		return renderJSON(report)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerColor("=== Duplicate Check ==="))
	fmt.Fprintf(&b, "Issue: %s\n\n", report.NewIssue.Title)

	res := report.Result
	if res.IsDuplicate {
		fmt.Fprintf(&b, "Verdict: %s\n", dupColor("DUPLICATE"))
	} else {
		fmt.Fprintf(&b, "Verdict: %s\n", cleanColor("NOT A DUPLICATE"))
	}
	fmt.Fprintf(&b, "Similarity: %s   Confidence: %s\n",
		percentColor(fmt.Sprintf("%.1f%%", res.SimilarityScore*100)),
		percentColor(fmt.Sprintf("%.1f%%", res.ConfidenceScore*100)))

	if res.DuplicateOf != nil {
		fmt.Fprintf(&b, "\nDuplicate of: %s - %s\n", res.DuplicateOf.IssueID, res.DuplicateOf.Title)
		if res.DuplicateOf.URL != "" {
			fmt.Fprintf(&b, "  %s\n", subtleColor(res.DuplicateOf.URL))
		}
	}

	if len(res.SimilarityReasons) > 0 {
		b.WriteString("\nReasons:\n")
		for _, reason := range res.SimilarityReasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
	}

	if res.Recommendation != "" {
		fmt.Fprintf(&b, "\nRecommendation: %s\n", res.Recommendation)
	}

	if len(report.SimilarIssues) > 0 {
		fmt.Fprintf(&b, "\n%s\n", headerColor("Similar issues:"))
		b.WriteString(similarLines(report.SimilarIssues))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func similarLines(similar []models.SimilarIssueSummary) string {
	var b strings.Builder
	for i, s := range similar {
		status := s.Status
		if status == "" {
			status = "unknown"
		}
		fmt.Fprintf(&b, "%d. [%s] %s (%s, %.1f%%)\n",
			i+1, s.IssueID, s.Title, status, s.Score*100)
	}
	return b.String()
}

// renderSimilar renders a top-k similarity listing.
func renderSimilar(similar []models.SimilarIssueSummary, format string) (string, error) {
	if format == "json" {
		return renderJSON(map[string]any{"similar_issues": similar})
	}
	if len(similar) == 0 {
		return "No similar issues found", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerColor(fmt.Sprintf("=== %d similar issues ===", len(similar))))
	b.WriteString(similarLines(similar))
	return strings.TrimRight(b.String(), "\n"), nil
}

// renderAnalysis renders an LLM issue analysis.
func renderAnalysis(analysis *models.IssueAnalysis, format string) (string, error) {
	if format == "json" {
		return renderJSON(analysis)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerColor("=== Issue Analysis ==="))
	fmt.Fprintf(&b, "Issue: %s\n\n", analysis.Title)
	fmt.Fprintf(&b, "Type: %s   Severity: %s   Confidence: %s\n",
		analysis.IssueType, severityText(analysis.Severity),
		percentColor(fmt.Sprintf("%.1f%%", analysis.ConfidenceScore*100)))

	if analysis.RootCauseAnalysis.PrimaryCause != "" {
		fmt.Fprintf(&b, "\nRoot cause: %s\n", analysis.RootCauseAnalysis.PrimaryCause)
		for _, f := range analysis.RootCauseAnalysis.ContributingFactors {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
	}
	if len(analysis.RootCauseAnalysis.AffectedComponents) > 0 {
		fmt.Fprintf(&b, "Affected: %s\n", strings.Join(analysis.RootCauseAnalysis.AffectedComponents, ", "))
	}

	for i, sol := range analysis.ProposedSolutions {
		fmt.Fprintf(&b, "\nSolution %d: %s\n", i+1, sol.Description)
		if sol.Location.FilePath != "" {
			fmt.Fprintf(&b, "  Location: %s\n", subtleColor(formatLocation(sol.Location)))
		}
		if sol.Rationale != "" {
			fmt.Fprintf(&b, "  Rationale: %s\n", sol.Rationale)
		}
	}

	if analysis.AnalysisSummary != "" {
		fmt.Fprintf(&b, "\nSummary: %s\n", analysis.AnalysisSummary)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func severityText(s models.Severity) string {
	switch s {
	case models.SeverityCritical, models.SeverityHigh:
		return dupColor(string(s))
	case models.SeverityMedium:
		return warnColor(string(s))
	default:
		return string(s)
	}
}

func formatLocation(loc models.CodeLocation) string {
	out := loc.FilePath
	if loc.LineNumber > 0 {
		out = fmt.Sprintf("%s:%d", out, loc.LineNumber)
	}
	if loc.FunctionName != "" {
		out = fmt.Sprintf("%s (%s)", out, loc.FunctionName)
	}
	return out
}

// renderTriage renders the combined pipeline report.
func renderTriage(report *pipeline.Report, format string) (string, error) {
	if format == "json" {
		return renderJSON(report)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerColor("=== Triage Report ==="))
	fmt.Fprintf(&b, "Issue: %s\n", report.NewIssue.Title)

	if sec := report.Security; sec != nil {
		fmt.Fprintf(&b, "\nSecurity: risk %s", riskText(string(sec.RiskLevel)))
		if len(sec.DetectedPatterns) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(sec.DetectedPatterns, "; "))
		}
		b.WriteString("\n")
		if report.Blocked {
			fmt.Fprintf(&b, "%s\n", warnColor("LLM steps blocked by security policy"))
		}
	}

	if res := report.Duplicate; res != nil {
		if res.IsDuplicate {
			fmt.Fprintf(&b, "\nLexical check: %s", dupColor("DUPLICATE"))
		} else {
			fmt.Fprintf(&b, "\nLexical check: %s", cleanColor("NOT A DUPLICATE"))
		}
		fmt.Fprintf(&b, " (similarity %.1f%%, confidence %.1f%%)\n",
			res.SimilarityScore*100, res.ConfidenceScore*100)
		if res.DuplicateOf != nil {
			fmt.Fprintf(&b, "  Duplicate of: %s - %s\n", res.DuplicateOf.IssueID, res.DuplicateOf.Title)
		}
		if res.Recommendation != "" {
			fmt.Fprintf(&b, "  Recommendation: %s\n", res.Recommendation)
		}
	}

	if conf := report.Confirmation; conf != nil {
		verdict := "not a duplicate"
		if conf.IsDuplicate {
			verdict = "duplicate"
		}
		fmt.Fprintf(&b, "\nLLM confirmation: %s (similarity %.1f%%, confidence %.1f%%)\n",
			verdict, conf.SimilarityScore*100, conf.ConfidenceScore*100)
	}

	if len(report.SimilarIssues) > 0 {
		fmt.Fprintf(&b, "\n%s\n", headerColor("Similar issues:"))
		b.WriteString(similarLines(models.SummarizeMatches(report.SimilarIssues)))
	}

	if report.Analysis != nil {
		fmt.Fprintf(&b, "\nAnalysis: %s / %s\n  %s\n",
			report.Analysis.IssueType, severityText(report.Analysis.Severity),
			report.Analysis.AnalysisSummary)
	}

	if len(report.Degraded) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n", warnColor("Degraded steps:"), strings.Join(report.Degraded, ", "))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func riskText(risk string) string {
	switch risk {
	case "high", "critical":
		return dupColor(risk)
	case "medium":
		return warnColor(risk)
	default:
		return cleanColor(risk)
	}
}
