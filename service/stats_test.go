package service

import (
	"testing"

	"github.com/JairPrada/RadarColTfm/model"
)

func TestComputeStats(t *testing.T) {
	set := []model.Contract{
		{RiskLevel: model.RiskHigh, Amount: 1000, AnomalyProbability: 90},
		{RiskLevel: model.RiskHigh, Amount: 2000, AnomalyProbability: 80},
		{RiskLevel: model.RiskLow, Amount: 500, AnomalyProbability: 10},
	}
	rollup := model.Rollup{TotalAnalyzed: 400, HighRiskCount: 100, TotalAmountCOP: 9_000_000}

	stats := ComputeStats(set, rollup)

	if stats.Count != 3 {
		t.Errorf("Expected count 3, got %d", stats.Count)
	}
	if stats.HighRiskCount != 2 {
		t.Errorf("Expected 2 high risk, got %d", stats.HighRiskCount)
	}
	if stats.TotalAmount != 3500 {
		t.Errorf("Expected total 3500, got %v", stats.TotalAmount)
	}
	if stats.AvgAnomalyProbability != 60 {
		t.Errorf("Expected avg 60, got %d", stats.AvgAnomalyProbability)
	}
	if stats.RiskPercentage != 25 {
		t.Errorf("Expected risk percentage 25, got %v", stats.RiskPercentage)
	}
	if stats.Rollup != rollup {
		t.Errorf("Rollup not carried through: %+v", stats.Rollup)
	}
}

func TestComputeStatsAverageRounds(t *testing.T) {
	set := []model.Contract{
		{AnomalyProbability: 50},
		{AnomalyProbability: 51},
	}

	if stats := ComputeStats(set, model.Rollup{}); stats.AvgAnomalyProbability != 51 {
		t.Errorf("Expected 50.5 to round to 51, got %d", stats.AvgAnomalyProbability)
	}
}

func TestComputeStatsEmptySet(t *testing.T) {
	stats := ComputeStats(nil, model.Rollup{})

	// Average over an empty set is 0, never NaN.
	if stats.AvgAnomalyProbability != 0 {
		t.Errorf("Expected avg 0 on empty set, got %d", stats.AvgAnomalyProbability)
	}
	if stats.Count != 0 || stats.HighRiskCount != 0 || stats.TotalAmount != 0 {
		t.Errorf("Expected zeroed stats, got %+v", stats)
	}
}

func TestComputeStatsZeroAnalyzedGuard(t *testing.T) {
	rollup := model.Rollup{TotalAnalyzed: 0, HighRiskCount: 10}

	if stats := ComputeStats(nil, rollup); stats.RiskPercentage != 0 {
		t.Errorf("Expected percentage 0 with nothing analyzed, got %v", stats.RiskPercentage)
	}
}
