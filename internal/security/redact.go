package security

import (
	"regexp"
	"strings"
)

// secretPatterns run in order from most to least specific so that narrow
// token formats are masked before the broad assignment patterns see them.
var secretPatterns = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\beyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\b`), "[MASKED_JWT_TOKEN]"},
	{regexp.MustCompile(`(?i)\bsk-[a-zA-Z0-9]{48}\b`), "[MASKED_OPENAI_KEY]"},
	{regexp.MustCompile(`(?i)\bgh[ps]_[a-zA-Z0-9_]{36,}\b`), "[MASKED_GITHUB_TOKEN]"},
	{regexp.MustCompile(`(?i)\bAKIA[0-9A-Z]{16}\b`), "[MASKED_AWS_ACCESS_KEY]"},
	{regexp.MustCompile(`(?i)(aws_secret_access_key[_-]?[=:\s]*["']?)([a-zA-Z0-9/+=]{40})["']?`), "${1}[MASKED_AWS_SECRET]"},
	{regexp.MustCompile(`(?i)(mongodb://[^:]+:)([^@]+)(@)`), "${1}[MASKED_DB_PASSWORD]${3}"},
	{regexp.MustCompile(`(?i)(mysql://[^:]+:)([^@]+)(@)`), "${1}[MASKED_DB_PASSWORD]${3}"},
	{regexp.MustCompile(`(?i)(postgres://[^:]+:)([^@]+)(@)`), "${1}[MASKED_DB_PASSWORD]${3}"},
	{regexp.MustCompile(`(?i)(api[_-]?key[_-]?[=:\s]*["']?)([a-zA-Z0-9_-]{20,})["']?`), "${1}[MASKED_API_KEY]"},
	{regexp.MustCompile(`(?i)(key[_-]?[=:\s]*["']?)([a-zA-Z0-9_-]{32,})["']?`), "${1}[MASKED_KEY]"},
	{regexp.MustCompile(`(?i)(access[_-]?token[_-]?[=:\s]*["']?)([a-zA-Z0-9_.\-/+=]{20,})["']?`), "${1}[MASKED_ACCESS_TOKEN]"},
	{regexp.MustCompile(`(?i)(bearer[_-]?[=:\s]*["']?)([a-zA-Z0-9_.\-/+=]{20,})["']?`), "${1}[MASKED_BEARER_TOKEN]"},
	{regexp.MustCompile(`(?i)(token[_-]?[=:\s]*["']?)([a-zA-Z0-9_.\-/+=]{20,})["']?`), "${1}[MASKED_TOKEN]"},
	{regexp.MustCompile(`(?i)(password[_-]?[=:\s]*["']?)([^\s"']{8,})["']?`), "${1}[MASKED_PASSWORD]"},
	{regexp.MustCompile(`(?i)(pass[_-]?[=:\s]*["']?)([^\s"']{8,})["']?`), "${1}[MASKED_PASSWORD]"},
	{regexp.MustCompile(`(?i)(pwd[_-]?[=:\s]*["']?)([^\s"']{8,})["']?`), "${1}[MASKED_PASSWORD]"},
	{regexp.MustCompile(`(?i)(secret[_-]?[=:\s]*["']?)([a-zA-Z0-9_-]{24,})["']?`), "${1}[MASKED_SECRET]"},
}

var (
	emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	ipv4Pattern  = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)
	ipv6Pattern  = regexp.MustCompile(`\b(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}\b`)
)

// Redact masks secrets (API keys, tokens, connection-string passwords),
// email addresses, and IP addresses in the text.
func Redact(text string) string {
	if text == "" {
		return text
	}
	out := text
	for _, p := range secretPatterns {
		out = p.re.ReplaceAllString(out, p.replacement)
	}
	out = maskEmails(out)
	out = ipv4Pattern.ReplaceAllString(out, "[MASKED_IPv4]")
	out = ipv6Pattern.ReplaceAllString(out, "[MASKED_IPv6]")
	return out
}

// maskEmails keeps the first and last rune of the local part and the whole
// domain, so redacted text stays readable.
func maskEmails(text string) string {
	return emailPattern.ReplaceAllStringFunc(text, func(email string) string {
		at := strings.LastIndex(email, "@")
		user, domain := email[:at], email[at+1:]
		if len(user) > 2 {
			user = user[:1] + strings.Repeat("*", len(user)-2) + user[len(user)-1:]
		} else {
			user = strings.Repeat("*", len(user))
		}
		return user + "@" + domain
	})
}

// CleanText collapses runs of whitespace to single spaces and trims the
// result.
func CleanText(text string) string {
	if text == "" {
		return text
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// CleanAndRedact prepares issue text for an LLM prompt: whitespace
// normalization followed by secret and PII masking.
func CleanAndRedact(title, description string) (string, string) {
	return Redact(CleanText(title)), Redact(CleanText(description))
}
