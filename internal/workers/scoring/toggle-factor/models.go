// internal/workers/scoring/toggle-factor/models.go
package togglefactor

// Input carries the form state between user tasks. SelectedFactors is the
// current selection; FactorID is flipped unless Reset is set.
type Input struct {
	InstrumentID    string   `json:"instrumentId"`
	SelectedFactors []string `json:"selectedFactors"`
	FactorID        string   `json:"factorId"`
	Reset           bool     `json:"reset"`
}

type Output struct {
	SelectedFactors []string   `json:"selectedFactors"`
	Score           int        `json:"score"`
	Tier            TierOutput `json:"tier"`
}

type TierOutput struct {
	Label          string   `json:"label"`
	MinScore       int      `json:"minScore"`
	Recommendation string   `json:"recommendation"`
	Considerations []string `json:"considerations"`
	RiskPercent    *float64 `json:"riskPercent,omitempty"`
}
