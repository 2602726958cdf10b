package models

// IssueType classifies the kind of report.
type IssueType string

const (
	IssueTypeBug            IssueType = "bug"
	IssueTypeEnhancement    IssueType = "enhancement"
	IssueTypeFeatureRequest IssueType = "feature_request"
)

// Severity grades the impact of an issue.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// CodeLocation points at a region of the codebase.
type CodeLocation struct {
	FilePath     string `json:"file_path"`
	LineNumber   int    `json:"line_number,omitempty"`
	FunctionName string `json:"function_name,omitempty"`
	ClassName    string `json:"class_name,omitempty"`
}

// CodeSolution is one proposed fix for an issue.
type CodeSolution struct {
	Description string       `json:"description"`
	CodeChanges string       `json:"code_changes"`
	Location    CodeLocation `json:"location"`
	Rationale   string       `json:"rationale"`
}

// RootCauseAnalysis explains why an issue occurs.
type RootCauseAnalysis struct {
	PrimaryCause         string         `json:"primary_cause"`
	ContributingFactors  []string       `json:"contributing_factors"`
	AffectedComponents   []string       `json:"affected_components"`
	RelatedCodeLocations []CodeLocation `json:"related_code_locations"`
}

// IssueAnalysis is the complete LLM assessment of one issue.
type IssueAnalysis struct {
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	IssueType         IssueType         `json:"issue_type"`
	Severity          Severity          `json:"severity"`
	RootCauseAnalysis RootCauseAnalysis `json:"root_cause_analysis"`
	ProposedSolutions []CodeSolution    `json:"proposed_solutions"`
	ConfidenceScore   float64           `json:"confidence_score"`
	AnalysisSummary   string            `json:"analysis_summary"`
}

// ValidIssueType reports whether s is a recognized issue type.
func ValidIssueType(s string) bool {
	switch IssueType(s) {
	case IssueTypeBug, IssueTypeEnhancement, IssueTypeFeatureRequest:
		return true
	}
	return false
}

// ValidSeverity reports whether s is a recognized severity.
func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
