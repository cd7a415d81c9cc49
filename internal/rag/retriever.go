package rag

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"kbchat/internal/models"
	"kbchat/pkg/config"

	"go.uber.org/zap"
)

// paragraphDelimiter splits document content on blank lines,
// collapsing runs of them.
var paragraphDelimiter = regexp.MustCompile(`\n\s*\n`)

// Candidate is one ephemeral scoring unit: a paragraph plus the title
// of the document it came from. Created fresh per query, never stored.
type Candidate struct {
	Paragraph string
	Source    string
	Score     int
}

type Retriever struct {
	cfg    *config.RetrievalConfig
	logger *zap.Logger
}

func NewRetriever(cfg *config.RetrievalConfig, logger *zap.Logger) *Retriever {
	return &Retriever{
		cfg:    cfg,
		logger: logger,
	}
}

// BestDocument scans the whole corpus with the document-level scorer
// and returns the single best entry's content. Ties go to the first
// document in corpus order, which the store keeps stable by primary
// key. Returns false when nothing reaches the confidence threshold.
func (r *Retriever) BestDocument(tokens []string, docs []*models.Knowledge) (string, bool) {
	intents := DetectIntents(tokens)

	bestScore := 0
	var bestContent string
	for _, doc := range docs {
		if score := ScoreDocument(tokens, doc, intents); score > bestScore {
			bestScore = score
			bestContent = doc.Content
		}
	}

	if bestScore == 0 || bestScore < r.cfg.DocumentThreshold {
		return "", false
	}

	return strings.TrimSpace(bestContent), true
}

// SearchParagraphs scores every paragraph in the corpus independently
// and returns the selected paragraphs plus the query's content
// keywords. Both slices are empty when nothing qualifies; the caller
// decides whether to fall back to the external lookup.
func (r *Retriever) SearchParagraphs(question string, docs []*models.Knowledge) ([]string, []string) {
	queryTokens := Tokenize(question)
	keywords := FilterTokens(queryTokens)

	var candidates []Candidate
	for _, doc := range docs {
		for _, paragraph := range SplitParagraphs(doc.Content) {
			score := ScoreParagraph(queryTokens, paragraph)
			if score < r.cfg.ParagraphFloor {
				continue
			}
			candidates = append(candidates, Candidate{
				Paragraph: paragraph,
				Source:    doc.Title,
				Score:     score,
			})
		}
	}

	if len(candidates) == 0 {
		return nil, keywords
	}

	// Stable sort keeps corpus order among equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	selected := r.selectCandidates(candidates)
	kept := r.relevanceGate(selected, Normalize(question), keywords)

	r.logger.Debug("Paragraph retrieval",
		zap.Int("candidates", len(candidates)),
		zap.Int("selected", len(selected)),
		zap.Int("kept", len(kept)),
	)

	return kept, keywords
}

// selectCandidates walks the score-sorted list, applying the dynamic
// threshold, exact-text de-duplication and the per-source diversity
// cap. A candidate close enough to the top score bypasses the cap.
func (r *Retriever) selectCandidates(candidates []Candidate) []string {
	topScore := candidates[0].Score

	threshold := int(r.cfg.DynamicRatio * float64(topScore))
	if threshold < r.cfg.ParagraphFloor {
		threshold = r.cfg.ParagraphFloor
	}

	seen := make(map[string]struct{})
	perSource := make(map[string]int)
	var selected []string

	for _, c := range candidates {
		if len(selected) >= r.cfg.MaxParagraphs {
			break
		}
		if c.Score < threshold {
			continue
		}
		if _, dup := seen[c.Paragraph]; dup {
			continue
		}
		if perSource[c.Source] >= r.cfg.SourceCap &&
			float64(c.Score) < r.cfg.DiversityRatio*float64(topScore) {
			continue
		}

		seen[c.Paragraph] = struct{}{}
		perSource[c.Source]++
		selected = append(selected, c.Paragraph)
	}

	return selected
}

// relevanceGate keeps only paragraphs containing at least one content
// keyword, then drops a short lead paragraph that merely restates the
// question (an FAQ title echoed back is not an answer) as long as
// another paragraph remains.
func (r *Retriever) relevanceGate(selected []string, question string, keywords []string) []string {
	var kept []string
	for _, paragraph := range selected {
		text := Normalize(paragraph)
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				kept = append(kept, paragraph)
				break
			}
		}
	}

	if len(kept) > 1 && r.looksLikeEcho(kept[0], question) {
		kept = kept[1:]
	}

	return kept
}

func (r *Retriever) looksLikeEcho(paragraph, question string) bool {
	if utf8.RuneCountInString(paragraph) >= r.cfg.EchoMaxLen {
		return false
	}
	text := Normalize(paragraph)
	return strings.Contains(text, "?") ||
		strings.Contains(question, text) ||
		strings.Contains(text, question)
}

// SplitParagraphs breaks document content on blank-line delimiters,
// dropping empty fragments. CRLF input is normalized first.
func SplitParagraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var paragraphs []string
	for _, part := range paragraphDelimiter.Split(content, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}
