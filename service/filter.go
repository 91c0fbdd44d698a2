package service

import (
	"github.com/JairPrada/RadarColTfm/model"
)

// FilterByRisk keeps the contracts whose risk level belongs to levels. An
// absent or empty set means no constraint and returns the input unchanged.
// The operation preserves order and is idempotent, and runs strictly after
// normalization so comparisons see the internal enum, never raw labels.
func FilterByRisk(contracts []model.Contract, levels []model.RiskLevel) []model.Contract {
	if len(levels) == 0 {
		return contracts
	}

	want := make(map[model.RiskLevel]bool, len(levels))
	for _, l := range levels {
		want[l] = true
	}

	out := make([]model.Contract, 0, len(contracts))
	for _, c := range contracts {
		if want[c.RiskLevel] {
			out = append(out, c)
		}
	}
	return out
}
