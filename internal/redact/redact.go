// Package redact masks secret values before they reach logs or terminal output.
package redact

import "strings"

// secretKeyPatterns contains substrings that indicate a key likely holds
// sensitive data. Keys are matched case-insensitively.
var secretKeyPatterns = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"API_KEY",
	"BEARER",
}

// tokenPrefixes contains known credential prefixes that indicate sensitive
// values regardless of key name.
var tokenPrefixes = []string{
	"ghp_",   // GitHub personal access token
	"gho_",   // GitHub OAuth token
	"sk-",    // OpenAI/Anthropic keys
	"oauth:", // Twitch chat-style OAuth token
	"AKIA",   // AWS access key prefix
}

// ShouldMask returns true if the key name suggests it contains sensitive data.
// Matching is case-insensitive.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// HasTokenPrefix returns true if the value starts with a known credential
// prefix. This catches cases where the key name doesn't indicate sensitivity
// but the value is clearly a token.
func HasTokenPrefix(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// Mask masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func Mask(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// Map returns a copy of env with sensitive values masked. Keys matching the
// secret patterns or values with a known token prefix are redacted.
func Map(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	masked := make(map[string]string, len(env))
	for k, v := range env {
		if ShouldMask(k) || HasTokenPrefix(v) {
			masked[k] = Mask(v)
		} else {
			masked[k] = v
		}
	}
	return masked
}
