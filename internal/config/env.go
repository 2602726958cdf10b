package config

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable
// values. ${VAR_NAME:-fallback} substitutes the fallback when the variable
// is unset or empty; a plain ${VAR_NAME} with no value is left as-is.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if value := os.Getenv(groups[1]); value != "" {
			return value
		}
		if groups[2] != "" {
			return groups[2]
		}
		return match
	})
}
