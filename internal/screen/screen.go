// Package screen provides the cheap phrase-level checks that run before any
// classification call: messages asserting legal rights are exempted from
// moderation, explicit threats are warned about directly, and abusive wording
// is flagged as an extra signal for the final verdict.
package screen

import (
	"regexp"
	"strings"
)

// legalJustificationPhrases exempts messages that assert legal rights from
// toxicity warnings. The workspace this monitor was built for is bilingual,
// so the list carries both English and Portuguese phrasing.
var legalJustificationPhrases = []string{
	"attorney general",
	"massachusetts law",
	"direito trabalhista",
	"direitos trabalhistas",
	"direito à privacidade",
	"right to privacy",
	"fair labor division",
	"consentimento",
	"consentimento expresso",
	"formal complaint",
	"complaint with the attorney general",
	"complaint with attorney general",
	"complaint with fair labor division",
	"file a complaint",
	"file a formal complaint",
	"direito de recusar",
	"não consinto",
	"não dou consentimento",
	"i do not consent",
	"i have not consented",
	"i never signed",
	"i never agreed",
	"right to keep personal property free from monitoring",
	"direito de manter propriedade pessoal livre de monitoramento",
}

// explicitThreatPhrases trigger a warning immediately, without waiting for
// the classifier.
var explicitThreatPhrases = []string{
	"vou te demitir",
	"você está demitido",
	"isso vai custar caro",
	"vai se arrepender",
	"te coloco na rua",
	"não vai mais trabalhar aqui",
}

// abusiveKeywords and threatKeywords feed the abusive-language flag that is
// combined with the classifier scores when the verdict is evaluated.
var abusiveKeywords = []string{
	"idiota", "burro", "imbecil", "estúpido", "palhaço", "otário",
	"babaca", "retardado", "ignorante", "nojento", "vergonha", "ridículo",
}

var threatKeywords = []string{
	"vou te demitir", "você está demitido", "te mandar embora",
	"vai ser demitido", "te tirar da empresa", "vou acabar com você",
	"isso vai ter consequências", "isso não vai ficar assim",
}

// Screener runs the phrase checks. The patterns are compiled once in
// NewScreener and reused for every message, so a single instance is safe for
// concurrent use.
type Screener struct {
	legalPatterns []*regexp.Regexp
	threatPhrases []string
	abusiveTerms  []string
}

// NewScreener builds a Screener over the default phrase lists.
func NewScreener() *Screener {
	s := &Screener{
		threatPhrases: explicitThreatPhrases,
		abusiveTerms:  append(append([]string{}, abusiveKeywords...), threatKeywords...),
	}
	for _, phrase := range legalJustificationPhrases {
		// whole-phrase match: "consentimento" must not fire on "consentimentos"
		s.legalPatterns = append(s.legalPatterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(phrase)+`\b`))
	}
	return s
}

// HasLegalJustification reports whether the text asserts legal rights and
// should therefore be exempt from all toxicity checks.
func (s *Screener) HasLegalJustification(text string) bool {
	lowered := strings.ToLower(text)
	for _, pattern := range s.legalPatterns {
		if pattern.MatchString(lowered) {
			return true
		}
	}
	return false
}

// ExplicitThreat returns the first explicit threat phrase contained in the
// text, if any.
func (s *Screener) ExplicitThreat(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, phrase := range s.threatPhrases {
		if strings.Contains(lowered, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// AbusiveLanguage returns the first abusive or threatening keyword contained
// in the text, if any.
func (s *Screener) AbusiveLanguage(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, term := range s.abusiveTerms {
		if strings.Contains(lowered, term) {
			return term, true
		}
	}
	return "", false
}
