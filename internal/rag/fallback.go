package rag

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"kbchat/pkg/config"

	"go.uber.org/zap"
)

// SummaryLookup is the external encyclopedia contract. Both calls
// return an empty string for "no result"; errors are absorbed by the
// resolver and treated the same way.
type SummaryLookup interface {
	GetSummary(ctx context.Context, title, lang string) (string, error)
	SearchTitle(ctx context.Context, query, lang string) (string, error)
}

// FallbackResolver queries the external encyclopedia when internal
// retrieval comes up empty.
type FallbackResolver struct {
	lookup SummaryLookup
	cfg    *config.WikiConfig
	logger *zap.Logger
}

func NewFallbackResolver(lookup SummaryLookup, cfg *config.WikiConfig, logger *zap.Logger) *FallbackResolver {
	return &FallbackResolver{
		lookup: lookup,
		cfg:    cfg,
		logger: logger,
	}
}

// Resolve extracts the most salient keyword from the question, runs
// the two-stage lookup with it, then retries with the whole cleaned
// question, and finally once more in the secondary language. Returns
// false when every attempt yields nothing; never returns an error.
func (f *FallbackResolver) Resolve(ctx context.Context, question string) (string, bool) {
	terms := f.lookupTerms(question)
	if len(terms) == 0 {
		return "", false
	}

	if summary := f.resolveIn(ctx, terms, f.cfg.Language); summary != "" {
		return f.truncate(summary), true
	}

	// Cross-language retry, once, only from the default language.
	if f.cfg.FallbackLanguage != "" && f.cfg.FallbackLanguage != f.cfg.Language {
		if summary := f.resolveIn(ctx, terms, f.cfg.FallbackLanguage); summary != "" {
			return f.truncate(summary), true
		}
	}

	return "", false
}

// lookupTerms returns the primary keyword (longest surviving token,
// length read as specificity) followed by the whole question with
// trailing punctuation stripped, when it differs.
func (f *FallbackResolver) lookupTerms(question string) []string {
	candidates := FilterTokens(Tokenize(question))
	sort.SliceStable(candidates, func(i, j int) bool {
		return utf8.RuneCountInString(candidates[i]) > utf8.RuneCountInString(candidates[j])
	})

	var terms []string
	if len(candidates) > 0 {
		terms = append(terms, candidates[0])
	}

	cleaned := strings.TrimRight(strings.TrimSpace(question), "?!.,;: ")
	if cleaned != "" && (len(terms) == 0 || cleaned != terms[0]) {
		terms = append(terms, cleaned)
	}

	return terms
}

func (f *FallbackResolver) resolveIn(ctx context.Context, terms []string, lang string) string {
	for _, term := range terms {
		if summary := f.lookupTerm(ctx, term, lang); summary != "" {
			return summary
		}
	}
	return ""
}

// lookupTerm runs the two-stage contract: direct summary by title,
// then search for a best-matching title and summarize that. Any
// transport or parse failure counts as "no result" for its stage.
func (f *FallbackResolver) lookupTerm(ctx context.Context, term, lang string) string {
	summary, err := f.lookup.GetSummary(ctx, term, lang)
	if err != nil {
		f.logger.Debug("Summary lookup failed",
			zap.String("term", term), zap.String("lang", lang), zap.Error(err))
	}
	if summary != "" {
		return summary
	}

	title, err := f.lookup.SearchTitle(ctx, term, lang)
	if err != nil {
		f.logger.Debug("Title search failed",
			zap.String("term", term), zap.String("lang", lang), zap.Error(err))
	}
	if title == "" {
		return ""
	}

	summary, err = f.lookup.GetSummary(ctx, title, lang)
	if err != nil {
		f.logger.Debug("Resolved-title summary lookup failed",
			zap.String("title", title), zap.String("lang", lang), zap.Error(err))
	}
	return summary
}

func (f *FallbackResolver) truncate(summary string) string {
	if utf8.RuneCountInString(summary) <= f.cfg.SummaryMaxLen {
		return summary
	}
	runes := []rune(summary)
	return string(runes[:f.cfg.SummaryMaxLen]) + "..."
}
