package model

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyClaim is returned when a request carries no claim text.
var ErrEmptyClaim = errors.New("claim text is empty")

// Publishing punctuation and ligatures normalized to ASCII before the
// claim reaches retrieval or scoring.
var claimReplacer = strings.NewReplacer(
	"ﬁ", "fi", "ﬂ", "fl", "ﬀ", "ff", "ﬃ", "ffi", "ﬄ", "ffl",
	"“", `"`, "”", `"`, "„", `"`, "’", "'", "‘", "'",
	"—", "-", "–", "-", "…", "...",
	" ", " ",
)

var (
	multiSpace = regexp.MustCompile(`\s+`)

	// Interrogative lead-ins stripped so "is it true that X?" and "X"
	// verify the same claim.
	questionPrefix = regexp.MustCompile(`(?i)^(is it true that|is it the case that|did you know that)\s+`)
)

// NormalizeClaim canonicalizes user-submitted claim text: ASCII
// punctuation, collapsed whitespace, question lead-ins and trailing
// question marks removed.
func NormalizeClaim(text string) string {
	text = claimReplacer.Replace(text)
	text = multiSpace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = questionPrefix.ReplaceAllString(text, "")
	text = strings.TrimRight(text, "?")
	return strings.TrimSpace(text)
}

// ValidateClaim normalizes the claim and rejects empty input before any
// external call is made.
func ValidateClaim(text string) (string, error) {
	normalized := NormalizeClaim(text)
	if normalized == "" {
		return "", ErrEmptyClaim
	}
	return normalized, nil
}
