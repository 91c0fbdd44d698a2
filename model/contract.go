package model

import (
	"time"
)

// RiskLevel is the ordinal classification of a contract's anomaly severity.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// Severity returns the ordinal rank used when ordering by risk:
// high=3, medium=2, low=1. Unknown levels rank below low.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	}
	return 0
}

// Valid reports whether r is one of the three known levels.
func (r RiskLevel) Valid() bool {
	return r == RiskHigh || r == RiskMedium || r == RiskLow
}

// ParseRiskLevel converts a presentation-layer value ("high", "medium",
// "low") into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	r := RiskLevel(s)
	return r, r.Valid()
}

// Contract is the normalized internal entity served to the presentation
// layer. Amount is always >= 0; Date is nil when the source omits a start
// date, never defaulted to the current time.
type Contract struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Entity             string     `json:"entity"`
	Amount             float64    `json:"amount"`
	Date               *time.Time `json:"date"`
	RiskLevel          RiskLevel  `json:"riskLevel"`
	AnomalyProbability float64    `json:"anomalyProbability"`
}
