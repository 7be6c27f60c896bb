package handler

import (
	"strings"

	"github.com/heidericklucas/slack-toxicity-monitor/internal/model"
)

// Per-category score thresholds. Condescension fires lower because the model
// consistently under-scores it relative to the other categories.
const (
	aggressionThreshold        = 0.5
	harassmentThreshold        = 0.5
	threatThreshold            = 0.5
	coerciveAuthorityThreshold = 0.5
	condescensionThreshold     = 0.3
)

// EvaluateClassification turns classifier scores plus the abusive-keyword
// flag into at most one verdict. When several categories cross their
// threshold the most severe one wins: threat > coercive > abusive.
func EvaluateClassification(cls *model.Classification, abusiveFlag bool) model.Verdict {
	if cls == nil {
		return model.Verdict{}
	}

	scores := cls.Scores
	abusive := abusiveFlag ||
		scores["aggression"] >= aggressionThreshold ||
		scores["harassment"] >= harassmentThreshold ||
		scores["condescension"] >= condescensionThreshold

	var category model.Category
	switch {
	case scores["threat"] >= threatThreshold:
		category = model.CategoryThreat
	case scores["coercive_authority"] >= coerciveAuthorityThreshold:
		category = model.CategoryCoercive
	case abusive:
		category = model.CategoryAbusive
	default:
		return model.Verdict{}
	}

	return model.Verdict{
		Toxic:     true,
		Category:  category,
		Rationale: strings.Join(cls.Triggered, ", "),
	}
}
