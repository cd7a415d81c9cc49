package rag

import (
	"reflect"
	"testing"

	"kbchat/internal/models"
	"kbchat/pkg/config"

	"go.uber.org/zap"
)

func testRetrievalConfig() *config.RetrievalConfig {
	return &config.RetrievalConfig{
		Mode:              ModeParagraph,
		DocumentThreshold: 8,
		ParagraphFloor:    3,
		DynamicRatio:      0.6,
		DiversityRatio:    0.8,
		SourceCap:         2,
		MaxParagraphs:     4,
		EchoMaxLen:        50,
	}
}

func newTestRetriever() *Retriever {
	return NewRetriever(testRetrievalConfig(), zap.NewNop())
}

func TestBestDocument(t *testing.T) {
	corpus := []*models.Knowledge{
		{
			Title:    "Giới thiệu Chatbot",
			Content:  "Chatbot này hỗ trợ trả lời câu hỏi CNTT.",
			Keywords: "chatbot,cntt",
		},
		{
			Title:   "Hệ thống chạy chậm",
			Content: "Khi hệ thống chậm, kiểm tra kết nối mạng trước.",
			Intent:  "performance",
		},
	}

	r := newTestRetriever()

	t.Run("best_match_returned", func(t *testing.T) {
		answer, ok := r.BestDocument([]string{"chatbot"}, corpus)
		if !ok {
			t.Fatal("expected a confident answer")
		}
		if answer != corpus[0].Content {
			t.Errorf("answer = %q, want first document content", answer)
		}
	})

	t.Run("below_threshold", func(t *testing.T) {
		// Only a content substring hit, far under the threshold.
		if answer, ok := r.BestDocument([]string{"mạng"}, corpus); ok {
			t.Errorf("expected no answer, got %q", answer)
		}
	})

	t.Run("intent_bonus_crosses_threshold", func(t *testing.T) {
		answer, ok := r.BestDocument([]string{"chậm", "treo"}, corpus)
		if !ok {
			t.Fatal("expected intent bonus to push the score over the threshold")
		}
		if answer != corpus[1].Content {
			t.Errorf("answer = %q, want performance document content", answer)
		}
	})

	t.Run("empty_corpus", func(t *testing.T) {
		if _, ok := r.BestDocument([]string{"chatbot"}, nil); ok {
			t.Error("empty corpus must not answer")
		}
	})

	t.Run("tie_goes_to_first", func(t *testing.T) {
		tied := []*models.Knowledge{
			{Title: "Chatbot A", Content: "Nội dung chatbot thứ nhất.", Keywords: "chatbot"},
			{Title: "Chatbot B", Content: "Nội dung chatbot thứ hai.", Keywords: "chatbot"},
		}
		answer, ok := r.BestDocument([]string{"chatbot"}, tied)
		if !ok {
			t.Fatal("expected an answer")
		}
		if answer != tied[0].Content {
			t.Errorf("tie must resolve to corpus order, got %q", answer)
		}
	})
}

func TestSearchParagraphsDiversityCap(t *testing.T) {
	first := "Bạn hãy chăm chỉ học thêm toán và cntt mỗi ngày, đều đặn suốt cả kỳ nhé."
	second := "Trước giờ thi bạn cần xem lại học phần toán rồi sang cntt, chớ bỏ dở nửa chừng nhé."
	weaker := "Nhớ chia đều thời gian cho việc học và làm bài tập toán mỗi tuần bạn nhé."

	corpus := []*models.Knowledge{
		{Title: "Kế hoạch học tập", Content: first + "\n\n" + second + "\n\n" + weaker},
	}

	r := newTestRetriever()
	paragraphs, keywords := r.SearchParagraphs("học toán cntt", corpus)

	// The weaker paragraph hits the per-source cap and is not close
	// enough to the top score to bypass it.
	want := []string{first, second}
	if !reflect.DeepEqual(paragraphs, want) {
		t.Errorf("paragraphs = %v, want %v", paragraphs, want)
	}
	if !reflect.DeepEqual(keywords, []string{"học", "toán", "cntt"}) {
		t.Errorf("keywords = %v", keywords)
	}
}

func TestSearchParagraphsDiversityBypass(t *testing.T) {
	first := "Bạn hãy chăm chỉ học thêm toán và cntt mỗi ngày, đều đặn suốt cả kỳ nhé."
	second := "Trước giờ thi bạn cần xem lại học phần toán rồi sang cntt, chớ bỏ dở nửa chừng nhé."
	third := "Nhớ chia đều thời gian học cả toán lẫn cntt trong từng tuần bạn nhé."

	corpus := []*models.Knowledge{
		{Title: "Kế hoạch học tập", Content: first + "\n\n" + second + "\n\n" + third},
	}

	r := newTestRetriever()
	paragraphs, _ := r.SearchParagraphs("học toán cntt", corpus)

	// All three tie at the top score, so the third bypasses the cap.
	if len(paragraphs) != 3 {
		t.Errorf("got %d paragraphs, want 3: %v", len(paragraphs), paragraphs)
	}
}

func TestSearchParagraphsEchoDropped(t *testing.T) {
	echo := "Chatbot là gì?"
	answer := "Chatbot là trợ lý ảo giúp bạn tra cứu tri thức nội bộ nhanh chóng mỗi ngày."

	corpus := []*models.Knowledge{
		{Title: "Giới thiệu", Content: echo + "\n\n" + answer},
	}

	r := newTestRetriever()
	paragraphs, _ := r.SearchParagraphs("chatbot là gì", corpus)

	want := []string{answer}
	if !reflect.DeepEqual(paragraphs, want) {
		t.Errorf("paragraphs = %v, want the echo dropped: %v", paragraphs, want)
	}
}

func TestSearchParagraphsEchoKeptWhenAlone(t *testing.T) {
	echo := "Chatbot là gì?"
	corpus := []*models.Knowledge{
		{Title: "Giới thiệu", Content: echo},
	}

	r := newTestRetriever()
	paragraphs, _ := r.SearchParagraphs("chatbot là gì", corpus)

	// A lone echo is still better than nothing.
	if !reflect.DeepEqual(paragraphs, []string{echo}) {
		t.Errorf("paragraphs = %v, want the lone paragraph kept", paragraphs)
	}
}

func TestSearchParagraphsDeduplicates(t *testing.T) {
	shared := "Bạn hãy chăm chỉ học thêm toán và cntt mỗi ngày, đều đặn suốt cả kỳ nhé."
	corpus := []*models.Knowledge{
		{Title: "Tài liệu A", Content: shared},
		{Title: "Tài liệu B", Content: shared},
	}

	r := newTestRetriever()
	paragraphs, _ := r.SearchParagraphs("học toán cntt", corpus)

	if len(paragraphs) != 1 {
		t.Errorf("identical paragraphs must collapse to one, got %v", paragraphs)
	}
}

func TestSearchParagraphsNothingQualifies(t *testing.T) {
	corpus := []*models.Knowledge{
		{Title: "Hướng dẫn máy in", Content: "Hướng dẫn cài đặt máy in cho văn phòng."},
	}

	r := newTestRetriever()
	paragraphs, keywords := r.SearchParagraphs("chatbot là gì", corpus)

	if paragraphs != nil {
		t.Errorf("paragraphs = %v, want nil", paragraphs)
	}
	if !reflect.DeepEqual(keywords, []string{"chatbot"}) {
		t.Errorf("keywords = %v, want [chatbot]", keywords)
	}
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "empty",
			content: "",
			want:    nil,
		},
		{
			name:    "single_paragraph",
			content: "Một đoạn duy nhất.",
			want:    []string{"Một đoạn duy nhất."},
		},
		{
			name:    "blank_line_delimiter",
			content: "Đoạn một.\n\nĐoạn hai.",
			want:    []string{"Đoạn một.", "Đoạn hai."},
		},
		{
			name:    "crlf_and_blank_runs",
			content: "Đoạn một.\r\n\r\n\r\n  \r\nĐoạn hai.\r\n",
			want:    []string{"Đoạn một.", "Đoạn hai."},
		},
		{
			name:    "whitespace_only_fragments_dropped",
			content: "\n\n   \n\nĐoạn thật.\n\n",
			want:    []string{"Đoạn thật."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParagraphs(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitParagraphs(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}
