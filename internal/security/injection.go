// Package security screens issue text before it is sent to an LLM:
// injection scanning for adversarial instructions and redaction of secrets
// and personal data. The lexical similarity engine never sees the screened
// output; it always works on the raw text.
package security

import (
	"math"
	"regexp"
	"strings"

	"github.com/triagelab/ai-triage/pkg/models"
)

type patternCategory struct {
	name       string
	confidence float64
	patterns   []*regexp.Regexp
}

var injectionCategories = []patternCategory{
	{
		name:       "role_manipulation",
		confidence: 0.9,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(ignore|forget|disregard|dismiss)\s+(previous|above|earlier|prior|all|the)\s+(instructions?|prompts?|rules?|commands?)`),
			regexp.MustCompile(`(?i)\b(forget\s+all\s+previous|ignore\s+all\s+previous|disregard\s+all\s+previous)`),
			regexp.MustCompile(`(?i)\b(you\s+are\s+now|from\s+now\s+on|instead)\s+.{0,50}\b(assistant|ai|bot|system)`),
			regexp.MustCompile(`(?i)\b(act\s+as|pretend\s+to\s+be|roleplay\s+as)\s+.{0,30}\b(admin|root|developer|engineer)`),
			regexp.MustCompile(`(?i)\b(new\s+instructions?|override\s+instructions?|updated\s+instructions?)`),
			regexp.MustCompile(`(?i)\b(ignore\s+all\s+previous)`),
			regexp.MustCompile(`(?i)\b(forget\s+everything|ignore\s+everything|disregard\s+everything)`),
		},
	},
	{
		name:       "system_prompts",
		confidence: 0.8,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(system\s*:|assistant\s*:|human\s*:|user\s*:)`),
			regexp.MustCompile(`(?i)<\s*(system|assistant|human|user)\s*>`),
			regexp.MustCompile(`(?i)\[\s*(system|assistant|human|user)\s*\]`),
			regexp.MustCompile("(?i)```\\s*(system|assistant|human|user)"),
		},
	},
	{
		name:       "instruction_bypass",
		confidence: 0.95,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(bypass|circumvent|override|ignore)\s+.{0,30}\b(security|safety|filter|restriction)`),
			regexp.MustCompile(`(?i)\b(jailbreak|prompt\s+injection|adversarial\s+prompt)`),
			regexp.MustCompile(`(?i)\b(disable|turn\s+off|deactivate)\s+.{0,30}\b(safety|filter|guard|protection)`),
			regexp.MustCompile(`(?i)\b(unrestricted|unlimited|no\s+restrictions?|without\s+limits?)`),
		},
	},
	{
		name:       "file_manipulation",
		confidence: 0.75,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(create|write|save|generate|make)\s+.{0,30}\b(file|document|script)`),
			regexp.MustCompile(`(?i)\b(create\s+a\s+new\s+file)`),
			regexp.MustCompile(`(?i)\b(write\s+to\s+file|save\s+to\s+file)`),
			regexp.MustCompile(`(?i)\b(create\s+.{0,30}\.txt|create\s+.{0,30}\.py|create\s+.{0,30}\.js)`),
			regexp.MustCompile(`(?i)\b(file\s+called|named\s+.{0,30}\.(txt|py|js|sh|bat))`),
		},
	},
	{
		name:       "code_injection",
		confidence: 0.85,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`),
			regexp.MustCompile(`(?i)javascript\s*:`),
			regexp.MustCompile(`(?i)\beval\s*\(`),
			regexp.MustCompile(`(?i)\bexec\s*\(`),
			regexp.MustCompile(`(?i)\$\{.*?\}`),
			regexp.MustCompile(`(?i)<%.*?%>`),
		},
	},
	{
		name:       "data_extraction",
		confidence: 0.8,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(show|display|reveal|expose|print|output)\s+.{0,30}\b(password|key|secret|token|credential)`),
			regexp.MustCompile(`(?i)\b(what\s+is|tell\s+me)\s+.{0,30}\b(api\s+key|secret|password|token)`),
			regexp.MustCompile(`(?i)\b(dump|export|extract)\s+.{0,30}\b(data|database|config|settings)`),
		},
	},
	{
		name:       "prompt_leakage",
		confidence: 0.9,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(show|display|print|reveal)\s+.{0,30}\b(original|initial|system)\s+(prompt|instructions?)`),
			regexp.MustCompile(`(?i)\b(what\s+(was|were))\s+.{0,30}\b(original|initial|first)\s+(prompt|instructions?)`),
			regexp.MustCompile(`(?i)\b(repeat|echo|copy)\s+.{0,30}\b(system|original)\s+(prompt|instructions?)`),
		},
	},
}

var instructionKeywords = []string{
	"ignore", "forget", "disregard", "override", "bypass",
	"system", "assistant", "admin", "root", "jailbreak", "unrestricted",
}

var specialRunPattern = regexp.MustCompile(`[^\w\s]{3,}`)

// sanitizePatterns are stripped from text when an injection is detected.
var sanitizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(ignore|forget|disregard)\s+(previous|above|earlier|prior)\s+(instructions?|prompts?|rules?|commands?)`),
	regexp.MustCompile(`(?i)\b(system\s*:|assistant\s*:|human\s*:|user\s*:)`),
	regexp.MustCompile(`(?i)<\s*(system|assistant|human|user)\s*>`),
	regexp.MustCompile(`(?i)\[\s*(system|assistant|human|user)\s*\]`),
	regexp.MustCompile("(?i)```\\s*(system|assistant|human|user)"),
	regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript\s*:`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ScanInjection analyzes a text for prompt injection attempts using pattern
// matching plus structural heuristics. Strict mode lowers the heuristic bar
// for flagging a text as an injection.
func ScanInjection(text string, strict bool) models.InjectionResult {
	if strings.TrimSpace(text) == "" {
		return models.InjectionResult{
			RiskLevel:        models.RiskSafe,
			DetectedPatterns: []string{},
			Details:          "empty or whitespace-only input",
		}
	}

	patternHits, patternConf := scanPatterns(text)
	heuristicHits, heuristicConf, heuristicInjection := scanHeuristics(text, strict)

	all := make([]string, 0, len(patternHits)+len(heuristicHits))
	all = append(all, patternHits...)
	all = append(all, heuristicHits...)

	confidence := math.Max(patternConf, heuristicConf)
	isInjection := len(patternHits) > 0 || heuristicInjection

	result := models.InjectionResult{
		IsInjection:      isInjection,
		RiskLevel:        riskLevel(confidence, len(all)),
		ConfidenceScore:  confidence,
		DetectedPatterns: dedupe(all),
		Details:          "pattern and heuristic analysis",
	}
	if isInjection {
		result.SanitizedText = sanitize(text)
	}
	return result
}

// scanPatterns matches the text against every category, labeling each hit
// with its category and the head of the offending pattern.
func scanPatterns(text string) ([]string, float64) {
	var hits []string
	confidence := 0.0
	for _, cat := range injectionCategories {
		for _, re := range cat.patterns {
			if !re.MatchString(text) {
				continue
			}
			src := re.String()
			if len(src) > 50 {
				src = src[:50]
			}
			hits = append(hits, cat.name+":"+src+"...")
			if cat.confidence > confidence {
				confidence = cat.confidence
			}
		}
	}
	return hits, confidence
}

// scanHeuristics looks for structural signs of obfuscated instructions.
func scanHeuristics(text string, strict bool) ([]string, float64, bool) {
	var hits []string
	confidence := 0.0
	lower := strings.ToLower(text)

	if len(specialRunPattern.FindAllString(text, -1)) > 2 {
		hits = append(hits, "excessive_special_characters")
		confidence = math.Max(confidence, 0.6)
	}

	keywordCount := 0
	for _, kw := range instructionKeywords {
		if strings.Contains(lower, kw) {
			keywordCount++
		}
	}
	if keywordCount >= 3 {
		hits = append(hits, "multiple_instruction_keywords")
		confidence = math.Max(confidence, 0.7)
	}

	delimiters := strings.Count(text, "```") + strings.Count(text, "---") + strings.Count(text, "===")
	brackets := strings.Count(text, "[") + strings.Count(text, "]") +
		strings.Count(text, "<") + strings.Count(text, ">")
	if delimiters > 2 || brackets > 4 {
		hits = append(hits, "suspicious_formatting")
		confidence = math.Max(confidence, 0.5)
	}

	longest := 0
	for _, sentence := range strings.Split(text, ".") {
		if n := len(strings.Fields(sentence)); n > longest {
			longest = n
		}
	}
	if longest > 100 {
		hits = append(hits, "unusually_long_sentence")
		confidence = math.Max(confidence, 0.4)
	}

	isInjection := confidence > 0.5 || (strict && confidence > 0.3)
	return hits, confidence, isInjection
}

func riskLevel(confidence float64, patternCount int) models.InjectionRisk {
	switch {
	case confidence >= 0.9 || patternCount >= 5:
		return models.RiskCritical
	case confidence >= 0.8 || patternCount >= 3:
		return models.RiskHigh
	case confidence >= 0.6 || patternCount >= 2:
		return models.RiskMedium
	case confidence >= 0.3 || patternCount >= 1:
		return models.RiskLow
	default:
		return models.RiskSafe
	}
}

// sanitize strips matched injection phrasing and collapses the leftover
// whitespace.
func sanitize(text string) string {
	out := text
	for _, re := range sanitizePatterns {
		out = re.ReplaceAllString(out, "[REMOVED_SUSPICIOUS_CONTENT]")
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(out, " "))
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
