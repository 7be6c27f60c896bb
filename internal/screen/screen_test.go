package screen

import "testing"

func TestNewScreener(t *testing.T) {
	s := NewScreener()
	if s == nil {
		t.Fatal("NewScreener returned nil")
	}
	if len(s.legalPatterns) == 0 || len(s.threatPhrases) == 0 || len(s.abusiveTerms) == 0 {
		t.Fatal("NewScreener created an empty screener")
	}
}

func TestHasLegalJustification(t *testing.T) {
	s := NewScreener()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"english phrase", "I will file a complaint with the attorney general", true},
		{"case insensitive", "I DO NOT CONSENT to this monitoring", true},
		{"portuguese phrase", "não dou consentimento para isso", true},
		{"phrase mid sentence", "under massachusetts law this is not allowed", true},
		{"partial word no match", "consentimentos are a different word", false},
		{"clean message", "let's meet at 3pm to review the deck", false},
		{"empty text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.HasLegalJustification(tt.input); got != tt.want {
				t.Errorf("HasLegalJustification(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExplicitThreat(t *testing.T) {
	s := NewScreener()

	tests := []struct {
		name  string
		input string
		term  string
		want  bool
	}{
		{"direct threat", "vou te demitir amanhã", "vou te demitir", true},
		{"threat in sentence", "se continuar assim, isso vai custar caro", "isso vai custar caro", true},
		{"uppercase threat", "VOCÊ ESTÁ DEMITIDO", "você está demitido", true},
		{"clean message", "bom trabalho hoje", "", false},
		{"english text", "great job on the release", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, ok := s.ExplicitThreat(tt.input)
			if ok != tt.want {
				t.Errorf("ExplicitThreat(%q) = %v, want %v", tt.input, ok, tt.want)
			}
			if term != tt.term {
				t.Errorf("ExplicitThreat(%q) term = %q, want %q", tt.input, term, tt.term)
			}
		})
	}
}

func TestAbusiveLanguage(t *testing.T) {
	s := NewScreener()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"abusive keyword", "você é um idiota", true},
		{"mixed case", "IDIOTA", true},
		{"threat keyword", "isso não vai ficar assim", true},
		{"firing threat", "vai ser demitido se errar de novo", true},
		{"clean message", "obrigado pela ajuda", false},
		{"empty text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, ok := s.AbusiveLanguage(tt.input)
			if ok != tt.want {
				t.Errorf("AbusiveLanguage(%q) = %v, want %v", tt.input, ok, tt.want)
			}
			if tt.want && term == "" {
				t.Errorf("AbusiveLanguage(%q) returned empty term for a match", tt.input)
			}
		})
	}
}
