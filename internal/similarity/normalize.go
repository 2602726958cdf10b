package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// normalizeText lowercases text, replaces every rune that is not a letter,
// digit, underscore, or whitespace with a space, and collapses whitespace
// runs. Empty or all-noise input yields "".
func normalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		default:
			// Punctuation and whitespace alike become a single separator.
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// combineIssueText merges a title and description into one document. The
// title is included twice so it carries more weight than the description.
func combineIssueText(title, description string) string {
	t := normalizeText(title)
	d := normalizeText(description)

	parts := make([]string, 0, 3)
	if t != "" {
		parts = append(parts, t, t)
	}
	if d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, " ")
}

// tokenize splits normalized text into feature tokens: whitespace-delimited
// words of at least two runes with English stop words removed. Bigrams are
// formed over this filtered stream, so they may join words that were not
// adjacent in the raw text.
func tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		if stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// wordSet returns the set of plain whitespace tokens in normalized text.
// Unlike tokenize it keeps stop words and single-rune words; the keyword
// reason applies its own length filter.
func wordSet(normalized string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.Fields(normalized) {
		set[f] = true
	}
	return set
}
