package rag

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// tokenPattern extracts maximal runs of ASCII letters, digits,
// underscore and Vietnamese accented letters (U+00C0–U+1EF9).
// Input is lower-cased first, so each run is already normalized.
var tokenPattern = regexp.MustCompile(`[a-z0-9_\x{00C0}-\x{1EF9}]+`)

// stopwords are high-frequency Vietnamese functional words that carry
// no retrieval signal on their own.
var stopwords = map[string]struct{}{
	"là": {}, "và": {}, "các": {}, "một": {}, "những": {}, "khi": {},
	"để": {}, "trong": {}, "với": {}, "thì": {}, "có": {}, "không": {},
	"gì": {}, "nên": {}, "bị": {}, "cho": {}, "về": {}, "ở": {},
}

// Normalize lower-cases and trims a text field
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Tokenize splits text into an ordered sequence of normalized tokens.
// Always returns a (possibly empty) sequence; duplicates and sequence
// order are preserved.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(Normalize(text), -1)
}

// IsStopword reports whether the token is a functional word
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// FilterTokens removes stopwords and short noise tokens (two runes or
// fewer) from a token sequence.
func FilterTokens(tokens []string) []string {
	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if IsStopword(token) {
			continue
		}
		if utf8.RuneCountInString(token) <= 2 {
			continue
		}
		filtered = append(filtered, token)
	}
	return filtered
}
