package rag

import (
	"testing"

	"kbchat/internal/models"
)

func TestScoreDocument(t *testing.T) {
	doc := &models.Knowledge{
		Title:    "Giới thiệu Chatbot",
		Content:  "Chatbot này hỗ trợ trả lời câu hỏi CNTT.",
		Keywords: "chatbot,cntt",
	}

	tests := []struct {
		name    string
		tokens  []string
		intents map[string]struct{}
		doc     *models.Knowledge
		want    int
	}{
		{
			name:   "keyword_title_content_all_fire",
			tokens: []string{"chatbot"},
			doc:    doc,
			// keywords +5, title +3, content +2
			want: 10,
		},
		{
			name:   "no_overlap_scores_zero",
			tokens: []string{"marketing"},
			doc:    doc,
			want:   0,
		},
		{
			name:    "intent_bonus",
			tokens:  []string{"khóa"},
			intents: map[string]struct{}{IntentLoginIssue: {}},
			doc: &models.Knowledge{
				Title:   "Khắc phục lỗi đăng nhập",
				Content: "Kiểm tra tài khoản bị khóa.",
				Intent:  "login_issue",
			},
			// content +2, intent +8
			want: 10,
		},
		{
			name:   "empty_fields_contribute_zero",
			tokens: []string{"chatbot"},
			doc:    &models.Knowledge{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreDocument(tt.tokens, tt.doc, tt.intents)
			if got != tt.want {
				t.Errorf("ScoreDocument = %d, want %d", got, tt.want)
			}
			if got < 0 {
				t.Errorf("score must be non-negative, got %d", got)
			}
		})
	}
}

func TestScoreParagraph(t *testing.T) {
	tests := []struct {
		name      string
		tokens    []string
		paragraph string
		want      int
	}{
		{
			name:      "whole_word_original_token",
			tokens:    []string{"chatbot"},
			paragraph: "Chatbot trả lời tự động.",
			want:      3,
		},
		{
			name:      "substring_only",
			tokens:    []string{"toán"},
			paragraph: "Môn toánhọc rất thú vị.",
			want:      1,
		},
		{
			name:      "synonym_whole_word",
			tokens:    []string{"học"},
			paragraph: "Chăm chỉ luyện tập mỗi ngày.",
			want:      2,
		},
		{
			name:      "original_stopword_still_scores",
			tokens:    []string{"là"},
			paragraph: "Đây là ví dụ.",
			want:      3,
		},
		{
			name:      "token_counts_once",
			tokens:    []string{"chatbot", "chatbot"},
			paragraph: "Chatbot và chatbot.",
			want:      3,
		},
		{
			name:      "empty_paragraph",
			tokens:    []string{"chatbot"},
			paragraph: "   ",
			want:      0,
		},
		{
			name:      "no_tokens",
			tokens:    nil,
			paragraph: "Nội dung bất kỳ.",
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreParagraph(tt.tokens, tt.paragraph)
			if got != tt.want {
				t.Errorf("ScoreParagraph(%v, %q) = %d, want %d", tt.tokens, tt.paragraph, got, tt.want)
			}
		})
	}
}

func TestWholeWordBeatsSubstring(t *testing.T) {
	tokens := []string{"báo"}
	asWord := ScoreParagraph(tokens, "Gửi báo cáo hằng tuần.")
	asSubstring := ScoreParagraph(tokens, "Thông báocáo hệ thống.")

	if asWord < asSubstring {
		t.Errorf("whole-word match (%d) must score at least substring match (%d)", asWord, asSubstring)
	}
}
