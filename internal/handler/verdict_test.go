package handler

import (
	"testing"

	"github.com/heidericklucas/slack-toxicity-monitor/internal/model"
)

func TestEvaluateClassification(t *testing.T) {
	tests := []struct {
		name     string
		scores   map[string]float64
		abusive  bool
		toxic    bool
		category model.Category
	}{
		{
			name:   "all zero",
			scores: map[string]float64{"aggression": 0, "threat": 0},
		},
		{
			name:   "empty scores not abusive",
			scores: map[string]float64{},
		},
		{
			name:     "empty scores with abusive flag",
			scores:   map[string]float64{},
			abusive:  true,
			toxic:    true,
			category: model.CategoryAbusive,
		},
		{
			name:     "threat at threshold",
			scores:   map[string]float64{"threat": 0.5},
			toxic:    true,
			category: model.CategoryThreat,
		},
		{
			name:   "threat just below threshold",
			scores: map[string]float64{"threat": 0.49},
		},
		{
			name:     "coercive authority",
			scores:   map[string]float64{"coercive_authority": 0.6},
			toxic:    true,
			category: model.CategoryCoercive,
		},
		{
			name:     "aggression maps to abusive",
			scores:   map[string]float64{"aggression": 0.5},
			toxic:    true,
			category: model.CategoryAbusive,
		},
		{
			name:     "harassment maps to abusive",
			scores:   map[string]float64{"harassment": 0.5},
			toxic:    true,
			category: model.CategoryAbusive,
		},
		{
			name:     "condescension has lower threshold",
			scores:   map[string]float64{"condescension": 0.3},
			toxic:    true,
			category: model.CategoryAbusive,
		},
		{
			name:   "condescension below its threshold",
			scores: map[string]float64{"condescension": 0.29},
		},
		{
			name:     "threat wins over coercive and abusive",
			scores:   map[string]float64{"threat": 0.9, "coercive_authority": 0.9, "harassment": 0.9},
			abusive:  true,
			toxic:    true,
			category: model.CategoryThreat,
		},
		{
			name:     "coercive wins over abusive",
			scores:   map[string]float64{"coercive_authority": 0.7, "aggression": 0.9},
			toxic:    true,
			category: model.CategoryCoercive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := EvaluateClassification(&model.Classification{Scores: tt.scores}, tt.abusive)
			if verdict.Toxic != tt.toxic {
				t.Fatalf("Toxic = %v, want %v", verdict.Toxic, tt.toxic)
			}
			if tt.toxic && verdict.Category != tt.category {
				t.Errorf("Category = %s, want %s", verdict.Category, tt.category)
			}
		})
	}
}

func TestEvaluateClassificationNil(t *testing.T) {
	if verdict := EvaluateClassification(nil, true); verdict.Toxic {
		t.Error("nil classification produced a toxic verdict")
	}
}

func TestEvaluateClassificationRationale(t *testing.T) {
	verdict := EvaluateClassification(&model.Classification{
		Scores:    map[string]float64{"threat": 0.8},
		Triggered: []string{"threat", "aggression"},
	}, false)
	if verdict.Rationale != "threat, aggression" {
		t.Errorf("Rationale = %q", verdict.Rationale)
	}
}
