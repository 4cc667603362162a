package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQuery(t *testing.T) {
	for _, tc := range []struct {
		uc     string
		query  string
		maxLen int
		valid  bool
	}{
		{uc: "plain word", query: "ferry", maxLen: 8, valid: true},
		{uc: "empty", query: "", maxLen: 8},
		{uc: "invalid utf-8", query: "caf\xe9", maxLen: 8},
		{uc: "over length", query: "extraordinarily", maxLen: 8},
		{uc: "length counts runes", query: "ñañaña", maxLen: 6, valid: true},
		{uc: "no limit", query: strings.Repeat("a", 1000), maxLen: 0, valid: true},
		{uc: "newline", query: "cat\n", maxLen: 8},
		{uc: "escape sequence", query: "\x1b[31m", maxLen: 8},
	} {
		t.Run(tc.uc, func(t *testing.T) {
			err := ValidateQuery(tc.query, tc.maxLen)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestContainsMarker(t *testing.T) {
	assert.True(t, ContainsMarker("c%t", "%"))
	assert.False(t, ContainsMarker("cat", "%"))
	assert.True(t, ContainsMarker("a{}b", "{}"))
	assert.False(t, ContainsMarker("c%t", ""))
}
