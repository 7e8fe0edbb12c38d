package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength bounds URL paths in log fields.
	MaxPathLength = 500
	// MaxPersonaLength bounds Steam persona names, which are user-controlled.
	MaxPersonaLength = 128
	// MaxErrorMessageLength bounds error strings, which can embed request bodies.
	MaxErrorMessageLength = 1000
	// MaxGeneralStringLength is the fallback bound for everything else.
	MaxGeneralStringLength = 2000
)

// SanitizePath strips control characters from a URL path and truncates it
// so a hostile request line cannot corrupt or flood the log stream.
func SanitizePath(path string) string {
	return SanitizeString(path, MaxPathLength)
}

// SanitizeError returns a log-safe rendering of err.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}

// SanitizeString validates UTF-8, drops control characters, and truncates
// to maxLength (MaxGeneralStringLength when maxLength is not positive).
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = MaxGeneralStringLength
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	return s
}
