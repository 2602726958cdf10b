package models

// InjectionRisk grades how likely a text is to carry a prompt injection.
type InjectionRisk string

const (
	RiskSafe     InjectionRisk = "safe"
	RiskLow      InjectionRisk = "low"
	RiskMedium   InjectionRisk = "medium"
	RiskHigh     InjectionRisk = "high"
	RiskCritical InjectionRisk = "critical"
)

// InjectionResult is the outcome of a prompt-injection scan.
type InjectionResult struct {
	IsInjection      bool          `json:"is_injection"`
	RiskLevel        InjectionRisk `json:"risk_level"`
	ConfidenceScore  float64       `json:"confidence_score"`
	DetectedPatterns []string      `json:"detected_patterns"`
	SanitizedText    string        `json:"sanitized_text,omitempty"`
	Details          string        `json:"details,omitempty"`
}
