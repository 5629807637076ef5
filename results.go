package ensembler

import (
	"io"

	"github.com/goccy/go-json"
)

// ProbabilityScore is the average quantile score of a model at a single
// probability across all realized horizon steps.
type ProbabilityScore struct {
	Probability float64 `json:"probability"`
	Score       float64 `json:"score"`
}

// ModelScore summarizes a single model's forecast accuracy against the
// realized observations.
type ModelScore struct {
	Model       string             `json:"model"`
	CRPS        float64            `json:"crps"`
	Breakdown   []ProbabilityScore `json:"quantile_scores"`
	NumObserved int                `json:"num_observed"`
}

// SkillRecord is one model's percentage CRPS improvement over the report
// baseline.
type SkillRecord struct {
	Model      string  `json:"model"`
	SkillScore float64 `json:"skill_score"`
}

// Report holds the scores of every registered model along with skill scores
// against a designated baseline. It is a plain value for an external
// reporting layer with no references back into evaluator state.
type Report struct {
	Baseline string        `json:"baseline"`
	Scores   []ModelScore  `json:"scores"`
	Skill    []SkillRecord `json:"skill_scores"`
}

// WriteJSON serializes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(bytes)
	return err
}
