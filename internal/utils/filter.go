package utils

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsControlChars checks if a string contains control characters such as
// newlines or escape sequences
func ContainsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// ContainsMarker checks if a query carries the wildcard marker. Queries are
// literal strings and a marker in one almost always means a pattern was sent
// by mistake.
func ContainsMarker(s, marker string) bool {
	return marker != "" && strings.Contains(s, marker)
}

// ValidateQuery checks if a query should be looked up.
// maxLen is measured in runes; zero disables the limit.
func ValidateQuery(s string, maxLen int) error {
	if len(s) == 0 {
		return fmt.Errorf("empty query")
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("query is not valid UTF-8")
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return fmt.Errorf("query exceeds maximum length of %d characters", maxLen)
	}
	if ContainsControlChars(s) {
		return fmt.Errorf("query contains control characters")
	}
	return nil
}
