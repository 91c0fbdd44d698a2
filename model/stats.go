package model

// Rollup carries the aggregate figures the remote API reports alongside the
// contract list. They cover the full analyzed corpus, not just the records
// returned for the current query.
type Rollup struct {
	TotalAnalyzed  int     `json:"totalAnalyzed"`
	HighRiskCount  int     `json:"highRiskCount"`
	TotalAmountCOP float64 `json:"totalAmountCOP"`
}

// Stats is derived from the current working set plus the API rollup.
// AvgAnomalyProbability is rounded to the nearest integer and is 0 over an
// empty set. RiskPercentage is HighRiskCount/TotalAnalyzed from the rollup,
// expressed as a percentage and 0 when nothing has been analyzed.
type Stats struct {
	Count                 int     `json:"count"`
	HighRiskCount         int     `json:"highRiskCount"`
	TotalAmount           float64 `json:"totalAmount"`
	AvgAnomalyProbability int     `json:"avgAnomalyProbability"`
	RiskPercentage        float64 `json:"riskPercentage"`
	Rollup                Rollup  `json:"rollup"`
}

// HealthStatus is the outcome of a bounded availability probe against the
// remote API. It is always produced, never an error.
type HealthStatus struct {
	Reachable      bool   `json:"reachable"`
	ResponseTimeMs int64  `json:"responseTimeMs"`
	Error          string `json:"error,omitempty"`
}
