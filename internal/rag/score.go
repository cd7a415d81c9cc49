package rag

import (
	"strings"

	"kbchat/internal/models"
)

// Score weights. The two scorers are tuned independently and are not
// interchangeable: document scoring matches against whole fields,
// paragraph scoring against a single passage with synonym expansion.
const (
	weightKeywords = 5
	weightTitle    = 3
	weightContent  = 2
	weightIntent   = 8

	weightExactOriginal = 3
	weightExactSynonym  = 2
	weightSubstring     = 1
)

// ScoreDocument computes the whole-document relevance of a filtered
// query token sequence. Substring hits on keywords, title and content
// are additive per token; a declared intent matching a detected intent
// adds a flat bonus. Absent fields contribute zero.
func ScoreDocument(tokens []string, doc *models.Knowledge, intents map[string]struct{}) int {
	score := 0

	title := Normalize(doc.Title)
	content := Normalize(doc.Content)
	keywords := Normalize(doc.Keywords)

	for _, token := range tokens {
		if strings.Contains(keywords, token) {
			score += weightKeywords
		}
		if strings.Contains(title, token) {
			score += weightTitle
		}
		if strings.Contains(content, token) {
			score += weightContent
		}
	}

	if intent := Normalize(doc.Intent); intent != "" {
		if _, ok := intents[intent]; ok {
			score += weightIntent
		}
	}

	return score
}

// ScoreParagraph computes the relevance of one paragraph against the
// raw (unfiltered) query tokens. Tokens are synonym-expanded first;
// an expanded token that is a stopword is skipped unless it appeared
// in the original query. Each token contributes at most once: a
// word-boundary match wins over a plain substring match.
func ScoreParagraph(queryTokens []string, paragraph string) int {
	text := Normalize(paragraph)
	if text == "" || len(queryTokens) == 0 {
		return 0
	}

	original := make(map[string]struct{}, len(queryTokens))
	for _, token := range queryTokens {
		original[token] = struct{}{}
	}

	words := make(map[string]struct{})
	for _, word := range Tokenize(text) {
		words[word] = struct{}{}
	}

	score := 0
	for _, token := range ExpandTokens(queryTokens) {
		_, fromQuery := original[token]
		if IsStopword(token) && !fromQuery {
			continue
		}

		if _, ok := words[token]; ok {
			if fromQuery {
				score += weightExactOriginal
			} else {
				score += weightExactSynonym
			}
			continue
		}
		if strings.Contains(text, token) {
			score += weightSubstring
		}
	}

	return score
}
