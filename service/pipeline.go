package service

import (
	"log/slog"

	"github.com/JairPrada/RadarColTfm/model"
)

// Pipeline turns raw API records into the normalized working set. Records
// failing validation are dropped and logged, never surfaced to the caller:
// a partial valid result beats failing the whole page.
type Pipeline struct {
	log *slog.Logger
}

func NewPipeline(log *slog.Logger) *Pipeline {
	return &Pipeline{log: log}
}

// BuildWorkingSet validates and normalizes every raw record, in order.
// Non-fatal defects are logged and the record kept with its documented
// repairs; fatal defects drop the record silently from the set.
func (p *Pipeline) BuildWorkingSet(raws []RawContract) []model.Contract {
	contracts := make([]model.Contract, 0, len(raws))
	dropped := 0

	for i := range raws {
		raw := &raws[i]
		defects := ValidateRaw(raw)
		if !Acceptable(defects) {
			dropped++
			p.log.Warn("dropping invalid contract record",
				"code", raw.Contrato.Codigo,
				"defects", defectStrings(defects),
			)
			continue
		}
		if len(defects) > 0 {
			p.log.Debug("normalizing contract with repairs",
				"code", raw.Contrato.Codigo,
				"defects", defectStrings(defects),
			)
		}
		contracts = append(contracts, NormalizeContract(raw))
	}

	if dropped > 0 {
		p.log.Info("working set built with drops",
			"kept", len(contracts),
			"dropped", dropped,
		)
	}
	return contracts
}

func defectStrings(defects []Defect) []string {
	out := make([]string, len(defects))
	for i, d := range defects {
		out[i] = d.String()
	}
	return out
}
