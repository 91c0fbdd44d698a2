package model

// Attribution is one SHAP-style contribution explaining how much a single
// input variable pushed the anomaly probability up (positive value) or down
// (negative value) relative to the model baseline. The pipeline passes these
// through after field renaming; it never recomputes them.
type Attribution struct {
	Variable      string  `json:"variable"`
	Value         float64 `json:"value"`
	Description   string  `json:"description"`
	ObservedValue any     `json:"observedValue,omitempty"`
}

// Analysis is the per-contract AI analysis returned by the detail endpoint.
type Analysis struct {
	ContractID       string        `json:"contractId"`
	ExecutiveSummary string        `json:"executiveSummary"`
	MainFactors      []string      `json:"mainFactors"`
	Recommendations  []string      `json:"recommendations"`
	Attributions     []Attribution `json:"attributions"`
	BaseProbability  float64       `json:"baseProbability"`
	Confidence       float64       `json:"confidence"`
	AnalyzedAt       string        `json:"analyzedAt"`
}
