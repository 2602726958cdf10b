package triage

import (
	"fmt"
	"os"
	"strings"

	"github.com/triagelab/ai-triage/pkg/models"
)

// loadPromptTemplate reads a custom prompt template and substitutes the
// {title}, {issue_description}, and {codebase_content} placeholders.
func loadPromptTemplate(path, title, description, codebase string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read custom prompt file %q: %w", path, err)
	}

	tmpl := string(data)
	tmpl = strings.ReplaceAll(tmpl, "{title}", title)
	tmpl = strings.ReplaceAll(tmpl, "{issue_description}", description)
	tmpl = strings.ReplaceAll(tmpl, "{codebase_content}", codebase)
	return tmpl, nil
}

func analysisPrompt(title, description, codebase string) string {
	var b strings.Builder

	b.WriteString(`You are an expert software engineer analyzing a reported code issue.
Your task is to perform comprehensive issue analysis.

ISSUE DETAILS:
Title: `)
	b.WriteString(title)
	b.WriteString("\nDescription: ")
	b.WriteString(description)
	b.WriteString("\n")

	if codebase != "" {
		b.WriteString("\nCODEBASE CONTENT:\n")
		b.WriteString(codebase)
		b.WriteString("\n")
	}

	b.WriteString(`
ANALYSIS REQUIREMENTS:
1. **Issue Classification**: Determine if this is a 'bug', 'enhancement', or 'feature_request'
2. **Severity Assessment**: Rate as 'low', 'medium', 'high', or 'critical'
3. **Root Cause Analysis**: Identify the primary cause and contributing factors
4. **Code Location Identification**: Find relevant files, functions, and classes
5. **Solution Proposal**: Suggest specific code changes with rationale

RESPONSE FORMAT (JSON):
{
    "issue_type": "bug|enhancement|feature_request",
    "severity": "low|medium|high|critical",
    "root_cause_analysis": {
        "primary_cause": "Main reason for the issue",
        "contributing_factors": ["factor1", "factor2"],
        "affected_components": ["component1", "component2"],
        "related_code_locations": [
            {
                "file_path": "path/to/file",
                "line_number": 123,
                "function_name": "function_name",
                "class_name": "ClassName"
            }
        ]
    },
    "proposed_solutions": [
        {
            "description": "Solution description",
            "code_changes": "Specific code changes needed",
            "location": {
                "file_path": "path/to/file",
                "line_number": 123,
                "function_name": "function_name",
                "class_name": "ClassName"
            },
            "rationale": "Why this solution works"
        }
    ],
    "confidence_score": 0.85,
    "analysis_summary": "Brief summary of the analysis"
}

ANALYSIS GUIDELINES:
- Ground every finding in the provided codebase content when available
- Look for patterns in existing code for consistency
- Provide actionable, specific solutions

Please analyze the issue and provide your response in the exact JSON format specified above.
`)

	return b.String()
}

func duplicatePrompt(title, description string, candidates []*models.IssueReference) string {
	blocks := make([]string, 0, len(candidates))
	for _, issue := range candidates {
		created := issue.CreatedDate
		if created == "" {
			created = "Unknown"
		}
		blocks = append(blocks, fmt.Sprintf(
			"Issue ID: %s\nTitle: %s\nDescription: %s\nStatus: %s\nCreated: %s",
			issue.IssueID, issue.Title, issue.Description, issue.Status, created,
		))
	}

	return fmt.Sprintf(`You are an expert issue triager analyzing whether a new issue is a duplicate of existing open issues.

NEW ISSUE TO ANALYZE:
Title: %s
Description: %s

EXISTING OPEN ISSUES:
%s

ANALYSIS REQUIREMENTS:
1. **Duplicate Detection**: Compare the new issue against ALL existing open issues
2. **Similarity Assessment**: Look for similar symptoms, root causes, affected components, or solutions
3. **Confidence Scoring**: Rate your confidence in the duplicate detection (0-1)
4. **Detailed Reasoning**: Explain why issues are similar or different

COMPARISON CRITERIA:
- **Symptoms**: Similar error messages, behaviors, or manifestations
- **Root Cause**: Same underlying technical problem or bug
- **Affected Components**: Same files, functions, or system parts
- **User Impact**: Similar user experience or workflow disruption
- **Technical Context**: Same technology stack, environment, or configuration

RESPONSE FORMAT (JSON):
{
    "is_duplicate": true/false,
    "duplicate_issue_id": "ID of the duplicate issue (only if is_duplicate is true)",
    "similarity_score": 0.85,
    "similarity_reasons": [
        "Both issues report the same error message: 'ConnectionTimeout'",
        "Both affect the authentication module",
        "Similar stack traces in the same function"
    ],
    "confidence_score": 0.90,
    "recommendation": "This issue appears to be a duplicate of #123. Link to the original issue and close this one."
}

ANALYSIS GUIDELINES:
- Issues are duplicates if they represent the SAME underlying problem, even with different wording
- Different symptoms of the same root cause should be considered duplicates
- Similar but distinct problems should NOT be marked as duplicates
- Consider the technical context, not just surface-level similarities
- Be conservative - when in doubt, prefer NOT marking as duplicate
- Provide clear, specific reasons for your decision

IMPORTANT NOTES:
- Only compare against OPEN issues (status: 'open')
- If no duplicates found, set is_duplicate to false and duplicate_issue_id to null
- Similarity score should reflect how similar the issues are (0 = completely different, 1 = identical)
- Confidence score should reflect how certain you are about your decision

Please analyze the new issue and provide your response in the exact JSON format specified above.
`, title, description, strings.Join(blocks, "\n\n"))
}
