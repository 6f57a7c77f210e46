package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var envVarPattern = regexp.MustCompile(`\$\{env://([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// parseVariableWithDefault splits "VAR:-default" into its parts; a plain
// "VAR" has no default.
func parseVariableWithDefault(varPart string) (varName, defaultValue string, hasDefault bool) {
	if strings.Contains(varPart, ":-") {
		parts := strings.SplitN(varPart, ":-", 2)
		return parts[0], parts[1], true
	}
	return varPart, "", false
}

// SubstituteEnvVars replaces ${env://VAR} and ${env://VAR:-default}
// patterns in config values with environment variables. A variable without
// a default that is not set is an error, so a missing credential fails at
// config load rather than mid-request.
func SubstituteEnvVars(content string) (string, error) {
	var missing []string

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varPart := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${env://")
		varName, defaultValue, hasDefault := parseVariableWithDefault(varPart)

		if envValue := os.Getenv(varName); envValue != "" {
			return envValue
		}
		if hasDefault {
			return defaultValue
		}
		missing = append(missing, fmt.Sprintf("required environment variable %s not set in %s", varName, match))
		return match
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("environment variable substitution failed: %s", strings.Join(missing, ", "))
	}
	return result, nil
}

// HasEnvVars reports whether content contains ${env://...} patterns, so
// callers can skip substitution entirely for plain values.
func HasEnvVars(content string) bool {
	return envVarPattern.MatchString(content)
}
