package logutil

import "strings"

// SanitizeForLog flattens console output or caller-supplied identifiers
// into a single log-safe line. Backend replies are multi-line and padded,
// and an object id could otherwise smuggle a fake log entry in.
func SanitizeForLog(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Truncate shortens s to at most n bytes, marking the cut.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// RedactPair hides the value of credential-bearing keys sent during an
// interactive dialogue.
func RedactPair(key, value string) string {
	switch strings.ToLower(key) {
	case "password", "pwd", "passwd":
		return key + " ********"
	}
	return key + " " + value
}
