package analysis

import "strings"

// Result is the analysis the model is asked to produce.
type Result struct {
	Score                int      `json:"score"`
	Suggestions          []string `json:"suggestions"`
	Strengths            []string `json:"strengths"`
	MissingDetails       []string `json:"missingDetails"`
	PredictedDescription string   `json:"predictedDescription,omitempty"`
}

// PredictionSource tells where a prediction's text came from.
type PredictionSource string

// Prediction sources.
const (
	SourceNone        PredictionSource = ""
	SourcePredicted   PredictionSource = "predicted"
	SourceSuggestions PredictionSource = "suggestions"
)

// Prediction is a description proposed to the user.
type Prediction struct {
	Text   string
	Source PredictionSource
}

// OK reports whether there is anything to propose.
func (p Prediction) OK() bool {
	return p.Source != SourceNone
}

// Prediction resolves the proposed description: the model's
// predictedDescription if present, else the suggestions joined by spaces,
// else nothing.
func (r *Result) Prediction() Prediction {
	if r == nil {
		return Prediction{}
	}
	if text := strings.TrimSpace(r.PredictedDescription); text != "" {
		return Prediction{Text: text, Source: SourcePredicted}
	}
	if len(r.Suggestions) > 0 {
		if text := strings.TrimSpace(strings.Join(r.Suggestions, " ")); text != "" {
			return Prediction{Text: text, Source: SourceSuggestions}
		}
	}
	return Prediction{}
}
