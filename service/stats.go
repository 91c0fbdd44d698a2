package service

import (
	"math"

	"github.com/JairPrada/RadarColTfm/model"
)

// ComputeStats aggregates the full post-filter working set together with
// the rollup figures the API reported for the analyzed corpus. The average
// anomaly probability over an empty set is 0, and the risk percentage is 0
// when the rollup says nothing has been analyzed.
func ComputeStats(contracts []model.Contract, rollup model.Rollup) model.Stats {
	stats := model.Stats{
		Count:  len(contracts),
		Rollup: rollup,
	}

	var anomalySum float64
	for _, c := range contracts {
		if c.RiskLevel == model.RiskHigh {
			stats.HighRiskCount++
		}
		stats.TotalAmount += c.Amount
		anomalySum += c.AnomalyProbability
	}

	if len(contracts) > 0 {
		stats.AvgAnomalyProbability = int(math.Round(anomalySum / float64(len(contracts))))
	}
	if rollup.TotalAnalyzed > 0 {
		stats.RiskPercentage = float64(rollup.HighRiskCount) / float64(rollup.TotalAnalyzed) * 100
	}

	return stats
}
