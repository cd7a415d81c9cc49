package rag

import "testing"

func TestDetectIntents(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "no_triggers",
			tokens: []string{"chatbot", "hướng", "dẫn"},
			want:   nil,
		},
		{
			name:   "login_trigger",
			tokens: []string{"quên", "đăng", "nhập"},
			want:   []string{IntentLoginIssue},
		},
		{
			name:   "multiple_intents",
			tokens: []string{"báo", "cáo", "lỗi", "chậm"},
			want:   []string{IntentReport, IntentReportError, IntentPerformance},
		},
		{
			name:   "english_trigger",
			tokens: []string{"report", "lag"},
			want:   []string{IntentReport, IntentPerformance},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectIntents(tt.tokens)
			if len(got) != len(tt.want) {
				t.Fatalf("DetectIntents(%v) = %v, want labels %v", tt.tokens, got, tt.want)
			}
			for _, label := range tt.want {
				if _, ok := got[label]; !ok {
					t.Errorf("missing intent %q in %v", label, got)
				}
			}
		})
	}
}

func TestExpandTokens(t *testing.T) {
	expanded := ExpandTokens([]string{"học", "toán"})

	wantPresent := []string{"học", "toán", "luyện", "đại", "số"}
	set := make(map[string]struct{}, len(expanded))
	for _, token := range expanded {
		if _, dup := set[token]; dup {
			t.Errorf("duplicate token %q in expansion", token)
		}
		set[token] = struct{}{}
	}
	for _, token := range wantPresent {
		if _, ok := set[token]; !ok {
			t.Errorf("expected %q in expansion %v", token, expanded)
		}
	}

	if expanded[0] != "học" {
		t.Errorf("expansion should keep input order first, got %v", expanded)
	}
}

func TestExpandTokensNoTableHit(t *testing.T) {
	expanded := ExpandTokens([]string{"chatbot"})
	if len(expanded) != 1 || expanded[0] != "chatbot" {
		t.Errorf("ExpandTokens without table hits = %v, want [chatbot]", expanded)
	}
}
