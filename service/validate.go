package service

import (
	"fmt"
	"strings"
)

// Defect describes one structural problem found in a raw record. Fatal
// defects exclude the record from the working set; non-fatal ones are
// diagnostics for fields the normalizer repairs with a documented default
// (unknown risk label becomes low, unparseable amount becomes 0).
type Defect struct {
	Field  string
	Reason string
	Fatal  bool
}

func (d Defect) String() string {
	return fmt.Sprintf("%s: %s", d.Field, d.Reason)
}

var knownRiskLabels = map[string]bool{
	"Alto":  true,
	"Medio": true,
	"Bajo":  true,
}

// ValidateRaw checks the structural completeness of one list record before
// normalization. It returns every defect found, not just the first.
func ValidateRaw(raw *RawContract) []Defect {
	var defects []Defect

	if strings.TrimSpace(raw.Contrato.Codigo) == "" {
		defects = append(defects, Defect{Field: "Contrato.Codigo", Reason: "missing contract code", Fatal: true})
	}
	if strings.TrimSpace(raw.Entidad) == "" {
		defects = append(defects, Defect{Field: "Entidad", Reason: "missing entity name", Fatal: true})
	}

	label := strings.TrimSpace(raw.NivelRiesgo)
	if label == "" {
		defects = append(defects, Defect{Field: "NivelRiesgo", Reason: "missing risk label", Fatal: true})
	} else if !knownRiskLabels[label] {
		defects = append(defects, Defect{Field: "NivelRiesgo", Reason: fmt.Sprintf("unknown risk label %q", label), Fatal: false})
	}

	if amount, ok := tryParseAmount(string(raw.Monto)); !ok {
		defects = append(defects, Defect{Field: "Monto", Reason: fmt.Sprintf("non-numeric amount %q", string(raw.Monto)), Fatal: false})
	} else if amount < 0 {
		defects = append(defects, Defect{Field: "Monto", Reason: fmt.Sprintf("negative amount %q", string(raw.Monto)), Fatal: true})
	}

	if raw.Anomalia < 0 || raw.Anomalia > 100 {
		defects = append(defects, Defect{Field: "Anomalia", Reason: fmt.Sprintf("anomaly probability %v outside [0,100]", raw.Anomalia), Fatal: true})
	}

	return defects
}

// Acceptable reports whether a record with the given defects may enter the
// working set.
func Acceptable(defects []Defect) bool {
	for _, d := range defects {
		if d.Fatal {
			return false
		}
	}
	return true
}
