package openai

import "testing"

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		scores  map[string]float64
	}{
		{
			name:   "plain json",
			raw:    `{"scores": {"threat": 0.9, "harassment": 0.1}, "triggered": ["threat"]}`,
			scores: map[string]float64{"threat": 0.9, "harassment": 0.1},
		},
		{
			name:   "json code fence",
			raw:    "```json\n{\"scores\": {\"aggression\": 0.7}, \"triggered\": [\"aggression\"]}\n```",
			scores: map[string]float64{"aggression": 0.7},
		},
		{
			name:   "bare code fence",
			raw:    "```\n{\"scores\": {\"condescension\": 0.4}, \"triggered\": []}\n```",
			scores: map[string]float64{"condescension": 0.4},
		},
		{
			name:   "surrounding whitespace",
			raw:    "  \n{\"scores\": {}, \"triggered\": []}\n  ",
			scores: map[string]float64{},
		},
		{
			name:    "free text instead of json",
			raw:     "This message looks fine to me.",
			wantErr: true,
		},
		{
			name:    "truncated json",
			raw:     `{"scores": {"threat": 0.`,
			wantErr: true,
		},
		{
			name:    "empty response",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := ParseClassification(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClassification(%q) expected error, got %+v", tt.raw, cls)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClassification(%q) unexpected error: %v", tt.raw, err)
			}
			if len(cls.Scores) != len(tt.scores) {
				t.Fatalf("ParseClassification(%q) scores = %v, want %v", tt.raw, cls.Scores, tt.scores)
			}
			for category, want := range tt.scores {
				if got := cls.Scores[category]; got != want {
					t.Errorf("score[%s] = %v, want %v", category, got, want)
				}
			}
		})
	}
}

func TestParseClassificationTriggered(t *testing.T) {
	cls, err := ParseClassification(`{"scores": {"harassment": 0.8}, "triggered": ["harassment", "aggression"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cls.Triggered) != 2 || cls.Triggered[0] != "harassment" {
		t.Errorf("Triggered = %v, want [harassment aggression]", cls.Triggered)
	}
}
