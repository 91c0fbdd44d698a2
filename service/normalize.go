package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/JairPrada/RadarColTfm/model"
)

// riskFromLabel maps the API's capitalized labels onto the internal enum.
// Any unrecognized label normalizes to low. That lossy default comes from
// the source system; it lives in this one function so the policy can be
// flipped to reject-the-record without touching anything else.
func riskFromLabel(label string) model.RiskLevel {
	switch strings.TrimSpace(label) {
	case "Alto":
		return model.RiskHigh
	case "Medio":
		return model.RiskMedium
	case "Bajo":
		return model.RiskLow
	}
	return model.RiskLow
}

// tryParseAmount extracts the numeric value of a raw monetary string.
// Amounts are Colombian pesos, which carry "." only as a thousands
// separator and have no fractional part, so every character except digits
// is discarded and a "-" ahead of the first digit marks the value negative:
// "$ 1.234.567" parses to 1234567. ok is false when no digits remain.
func tryParseAmount(raw string) (float64, bool) {
	var digits strings.Builder
	negative := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '-' && digits.Len() == 0:
			negative = true
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// parseAmount is tryParseAmount with the list-pipeline repair applied:
// unparseable or negative input normalizes to 0 so the amount invariant
// (amount >= 0) holds for every contract that enters the working set.
func parseAmount(raw string) float64 {
	v, ok := tryParseAmount(raw)
	if !ok || v < 0 {
		return 0
	}
	return v
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate builds a calendar date from an ISO-like string. Absent or
// unparseable input yields nil; a date is never guessed from other fields.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// NormalizeContract maps one validated list record to the internal entity.
// The id comes from the contract code, never from a surrogate index, so the
// same contract keeps the same id across requests.
func NormalizeContract(raw *RawContract) model.Contract {
	return model.Contract{
		ID:                 strings.TrimSpace(raw.Contrato.Codigo),
		Name:               strings.TrimSpace(raw.Contrato.Descripcion),
		Entity:             strings.TrimSpace(raw.Entidad),
		Amount:             parseAmount(string(raw.Monto)),
		Date:               parseDate(raw.FechaInicio),
		RiskLevel:          riskFromLabel(raw.NivelRiesgo),
		AnomalyProbability: raw.Anomalia,
	}
}

// NormalizeDetailContract maps the detail endpoint's contract object, which
// carries the same data as a list record under lowercase field names.
func NormalizeDetailContract(raw *RawDetailContract) model.Contract {
	return model.Contract{
		ID:                 strings.TrimSpace(raw.Codigo),
		Name:               strings.TrimSpace(raw.Descripcion),
		Entity:             strings.TrimSpace(raw.Entidad),
		Amount:             parseAmount(string(raw.Monto)),
		Date:               parseDate(raw.FechaInicio),
		RiskLevel:          riskFromLabel(raw.NivelRiesgo),
		AnomalyProbability: raw.Anomalia,
	}
}

// NormalizeAnalysis renames the analysis fields into the internal shape.
// SHAP attributions are opaque to the pipeline: renamed, never recomputed.
func NormalizeAnalysis(raw *RawAnalysis) model.Analysis {
	attributions := make([]model.Attribution, 0, len(raw.ShapValues))
	for _, sv := range raw.ShapValues {
		attributions = append(attributions, model.Attribution{
			Variable:      sv.Variable,
			Value:         sv.Valor,
			Description:   sv.Descripcion,
			ObservedValue: sv.ValorObservado,
		})
	}
	return model.Analysis{
		ContractID:       raw.ContractID,
		ExecutiveSummary: raw.ResumenEjecutivo,
		MainFactors:      raw.FactoresPrincipales,
		Recommendations:  raw.Recomendaciones,
		Attributions:     attributions,
		BaseProbability:  raw.ProbabilidadBase,
		Confidence:       raw.Confianza,
		AnalyzedAt:       raw.FechaAnalisis,
	}
}
