// Package rag implements the lexical retrieval engine behind the
// chatbot: tokenization, intent detection, synonym expansion, the two
// scoring strategies, candidate selection and the external-lookup
// fallback. The engine reads a fresh corpus snapshot per query and
// never returns an error to its caller.
package rag

import (
	"context"
	"strings"

	"kbchat/internal/models"
	"kbchat/pkg/config"

	"go.uber.org/zap"
)

// Retrieval granularities. Document mode returns one whole knowledge
// entry; paragraph mode assembles the best passages across entries.
const (
	ModeDocument  = "document"
	ModeParagraph = "paragraph"
)

// Canned user-facing responses. Every failure path resolves to one of
// these; "no answer found" and "lookup failed" are deliberately the
// same message at this layer.
const (
	msgEmptyQuestion = "Bạn hãy nhập câu hỏi cụ thể hơn nhé."
	msgVagueQuestion = "Bạn có thể hỏi rõ hơn về vấn đề bạn đang gặp không?"
	msgLowConfidence = "Mình chưa xác định rõ vấn đề bạn đang gặp.\n" +
		"💡 Bạn đang hỏi về **lỗi, báo cáo hay hiệu năng** của hệ thống?"
	msgNotFound = "Mình chưa tìm thấy thông tin phù hợp trong cơ sở tri thức.\n" +
		"💡 Bạn có thể hỏi lại theo dạng: \"Chatbot là gì?\", \"Cách khắc phục lỗi đăng nhập?\" " +
		"— hoặc nhờ quản trị viên bổ sung kiến thức này."
)

// KnowledgeSource provides a read-only corpus snapshot per query.
// Implementations must list documents in a stable order.
type KnowledgeSource interface {
	ListAll(ctx context.Context) ([]*models.Knowledge, error)
}

type Engine struct {
	source    KnowledgeSource
	retriever *Retriever
	fallback  *FallbackResolver
	mode      string
	logger    *zap.Logger
}

func NewEngine(
	source KnowledgeSource,
	lookup SummaryLookup,
	retrievalCfg *config.RetrievalConfig,
	wikiCfg *config.WikiConfig,
	logger *zap.Logger,
) *Engine {
	mode := retrievalCfg.Mode
	if mode != ModeDocument && mode != ModeParagraph {
		logger.Warn("Unknown retrieval mode, using paragraph", zap.String("mode", mode))
		mode = ModeParagraph
	}

	return &Engine{
		source:    source,
		retriever: NewRetriever(retrievalCfg, logger),
		fallback:  NewFallbackResolver(lookup, wikiCfg, logger),
		mode:      mode,
		logger:    logger,
	}
}

// Answer resolves a question to user-displayable text. It never
// fails: a degenerate question short-circuits to a clarification
// prompt before any corpus access, and every internal error degrades
// to a canned response.
func (e *Engine) Answer(ctx context.Context, question string) string {
	q := Normalize(question)
	if q == "" {
		return msgEmptyQuestion
	}

	tokens := FilterTokens(Tokenize(q))
	if len(tokens) == 0 {
		return msgVagueQuestion
	}

	docs, err := e.source.ListAll(ctx)
	if err != nil {
		e.logger.Error("Corpus read failed", zap.Error(err))
		docs = nil
	}

	if e.mode == ModeDocument {
		if answer, ok := e.retriever.BestDocument(tokens, docs); ok {
			return answer
		}
		return msgLowConfidence
	}

	paragraphs, _ := e.retriever.SearchParagraphs(q, docs)
	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n\n")
	}

	if summary, ok := e.fallback.Resolve(ctx, q); ok {
		return summary
	}

	return msgNotFound
}
