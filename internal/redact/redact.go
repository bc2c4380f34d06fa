// Package redact provides utilities for redacting sensitive information before
// it is logged or returned in error responses. It covers two cases: free text
// such as error messages, where credentials and tokens are masked by pattern,
// and named settings, where values whose names look sensitive are replaced by a
// presence marker.
package redact

import (
	"regexp"
	"strings"
)

// Placeholders written in place of redacted content.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"

	SetMarker    = "[SET]"
	NotSetMarker = "[NOT SET]"
)

// sensitiveMarkers are the substrings that flag a setting name as sensitive.
// Matching on names is a heuristic: a secret stored under an innocuous name is
// logged as is.
var sensitiveMarkers = []string{"key", "secret", "token", "password", "auth", "database"}

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order; earlier rules see the unmodified input.
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgres|mysql|mongodb|redis|amqp|db|database)://[^@\s]+@`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret|access[_-]?key|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]{8,}=*`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
}

// String redacts credentials, tokens and e-mail addresses from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// IsSensitiveName reports whether a setting name contains one of the
// sensitive markers, case-insensitively.
func IsSensitiveName(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Setting returns value unchanged for ordinary names. For sensitive names it
// returns SetMarker when the value is present and NotSetMarker otherwise.
func Setting(name string, value any) any {
	if !IsSensitiveName(name) {
		return value
	}
	if isZero(value) {
		return NotSetMarker
	}
	return SetMarker
}

func isZero(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	case []string:
		return len(x) == 0
	default:
		return false
	}
}
