package model

// Classification is the structured result returned by the external
// classifier: a score between 0 and 1 per toxicity category, plus the labels
// the model itself considered triggered.
type Classification struct {
	Scores    map[string]float64 `json:"scores"`
	Triggered []string           `json:"triggered"`
}

// Category identifies the kind of toxicity a warning is issued for.
type Category string

const (
	CategoryThreat   Category = "threat"
	CategoryCoercive Category = "coercive"
	CategoryAbusive  Category = "abusive"
)

// Verdict is the warning decision derived from a Classification (or from a
// direct phrase screen). Like Message it is discarded once the warning
// decision has been acted on.
type Verdict struct {
	Toxic     bool
	Category  Category
	Rationale string
}
