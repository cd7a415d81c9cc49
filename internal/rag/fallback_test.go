package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"kbchat/pkg/config"

	"go.uber.org/zap"
)

// mockLookup answers from maps keyed "lang|term" and records every call.
type mockLookup struct {
	summaries map[string]string
	titles    map[string]string

	summaryErr error
	searchErr  error

	summaryCalls []string
	searchCalls  []string
}

func (m *mockLookup) GetSummary(_ context.Context, title, lang string) (string, error) {
	key := lang + "|" + title
	m.summaryCalls = append(m.summaryCalls, key)
	if m.summaryErr != nil {
		return "", m.summaryErr
	}
	return m.summaries[key], nil
}

func (m *mockLookup) SearchTitle(_ context.Context, query, lang string) (string, error) {
	key := lang + "|" + query
	m.searchCalls = append(m.searchCalls, key)
	if m.searchErr != nil {
		return "", m.searchErr
	}
	return m.titles[key], nil
}

func testWikiConfig() *config.WikiConfig {
	return &config.WikiConfig{
		Language:         "vi",
		FallbackLanguage: "en",
		Timeout:          time.Second,
		SummaryMaxLen:    600,
	}
}

func newTestResolver(lookup SummaryLookup) *FallbackResolver {
	return NewFallbackResolver(lookup, testWikiConfig(), zap.NewNop())
}

func TestResolveDirectHit(t *testing.T) {
	lookup := &mockLookup{
		summaries: map[string]string{
			"vi|blockchain": "Blockchain là một sổ cái phân tán.",
		},
	}

	got, ok := newTestResolver(lookup).Resolve(context.Background(), "Blockchain là gì?")
	if !ok {
		t.Fatal("expected a resolved summary")
	}
	if got != "Blockchain là một sổ cái phân tán." {
		t.Errorf("summary = %q", got)
	}
	if len(lookup.summaryCalls) != 1 {
		t.Errorf("direct hit should need one lookup, got %v", lookup.summaryCalls)
	}
}

func TestResolveLongestKeywordFirst(t *testing.T) {
	lookup := &mockLookup{
		summaries: map[string]string{
			"vi|blockchain": "Blockchain là một sổ cái phân tán.",
		},
	}

	// "ưu" is too short to survive filtering; "blockchain" is the
	// longest remaining token and must be tried before anything else.
	_, ok := newTestResolver(lookup).Resolve(context.Background(), "ưu điểm của blockchain")
	if !ok {
		t.Fatal("expected a resolved summary")
	}
	if lookup.summaryCalls[0] != "vi|blockchain" {
		t.Errorf("first lookup = %q, want vi|blockchain", lookup.summaryCalls[0])
	}
}

func TestResolveTwoStage(t *testing.T) {
	lookup := &mockLookup{
		summaries: map[string]string{
			"vi|Chuỗi khối": "Chuỗi khối là cách ghi dữ liệu theo khối liên kết.",
		},
		titles: map[string]string{
			"vi|blockchain": "Chuỗi khối",
		},
	}

	got, ok := newTestResolver(lookup).Resolve(context.Background(), "blockchain")
	if !ok {
		t.Fatal("expected the searched title to resolve")
	}
	if got != lookup.summaries["vi|Chuỗi khối"] {
		t.Errorf("summary = %q", got)
	}
	if len(lookup.searchCalls) != 1 || lookup.searchCalls[0] != "vi|blockchain" {
		t.Errorf("searchCalls = %v", lookup.searchCalls)
	}
}

func TestResolveWholeQuestionRetry(t *testing.T) {
	lookup := &mockLookup{
		summaries: map[string]string{
			"vi|Chiến tranh lạnh": "Chiến tranh lạnh là giai đoạn đối đầu địa chính trị.",
		},
	}

	got, ok := newTestResolver(lookup).Resolve(context.Background(), "Chiến tranh lạnh?")
	if !ok {
		t.Fatal("expected the whole cleaned question to resolve")
	}
	if got != lookup.summaries["vi|Chiến tranh lạnh"] {
		t.Errorf("summary = %q", got)
	}
}

func TestResolveCrossLanguageRetry(t *testing.T) {
	lookup := &mockLookup{
		summaries: map[string]string{
			"en|blockchain": "A blockchain is a distributed ledger.",
		},
	}

	got, ok := newTestResolver(lookup).Resolve(context.Background(), "blockchain")
	if !ok {
		t.Fatal("expected the secondary language to resolve")
	}
	if got != "A blockchain is a distributed ledger." {
		t.Errorf("summary = %q", got)
	}

	sawSecondary := false
	for _, call := range lookup.summaryCalls {
		if strings.HasPrefix(call, "en|") {
			sawSecondary = true
		}
	}
	if !sawSecondary {
		t.Errorf("secondary language never queried: %v", lookup.summaryCalls)
	}
}

func TestResolveErrorsMeanNoResult(t *testing.T) {
	lookup := &mockLookup{
		summaryErr: errors.New("gateway timeout"),
		searchErr:  errors.New("gateway timeout"),
	}

	if got, ok := newTestResolver(lookup).Resolve(context.Background(), "blockchain"); ok {
		t.Errorf("transport errors must resolve to nothing, got %q", got)
	}
}

func TestResolveNoUsableTerms(t *testing.T) {
	lookup := &mockLookup{}

	if _, ok := newTestResolver(lookup).Resolve(context.Background(), "?!"); ok {
		t.Error("punctuation-only question must not resolve")
	}
	if len(lookup.summaryCalls) != 0 || len(lookup.searchCalls) != 0 {
		t.Errorf("no lookups expected, got %v / %v", lookup.summaryCalls, lookup.searchCalls)
	}
}

func TestResolveTruncatesLongSummaries(t *testing.T) {
	long := strings.Repeat("ố", 650)
	lookup := &mockLookup{
		summaries: map[string]string{"vi|blockchain": long},
	}

	got, ok := newTestResolver(lookup).Resolve(context.Background(), "blockchain")
	if !ok {
		t.Fatal("expected a resolved summary")
	}
	want := strings.Repeat("ố", 600) + "..."
	if got != want {
		t.Errorf("truncation wrong: got %d runes", utf8.RuneCountInString(got))
	}
}

func TestResolveKeepsShortSummariesIntact(t *testing.T) {
	exact := strings.Repeat("ố", 600)
	lookup := &mockLookup{
		summaries: map[string]string{"vi|blockchain": exact},
	}

	got, ok := newTestResolver(lookup).Resolve(context.Background(), "blockchain")
	if !ok {
		t.Fatal("expected a resolved summary")
	}
	if got != exact {
		t.Errorf("summary at the limit must not gain an ellipsis, got %d runes", utf8.RuneCountInString(got))
	}
}
