// internal/workers/scoring/evaluate-score/models.go
package evaluatescore

type Input struct {
	InstrumentID    string   `json:"instrumentId"`
	SelectedFactors []string `json:"selectedFactors"`
	PatientRef      string   `json:"patientRef,omitempty"`
}

type Output struct {
	EvaluationID    string     `json:"evaluationId"`
	InstrumentID    string     `json:"instrumentId"`
	InstrumentName  string     `json:"instrumentName"`
	Score           int        `json:"score"`
	MaxScore        int        `json:"maxScore"`
	Tier            TierOutput `json:"tier"`
	SelectedFactors []string   `json:"selectedFactors"`
	PatientRef      string     `json:"patientRef,omitempty"`
}

type TierOutput struct {
	Label          string   `json:"label"`
	MinScore       int      `json:"minScore"`
	Recommendation string   `json:"recommendation"`
	Considerations []string `json:"considerations"`
	RiskPercent    *float64 `json:"riskPercent,omitempty"`
}
