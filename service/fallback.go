package service

import (
	"time"

	"github.com/JairPrada/RadarColTfm/model"
)

// Fallback dataset for the detail path. When the analysis API cannot serve
// a detail request for any reason, the presentation layer degrades to this
// example pair instead of failing outright. The list path has no fallback;
// its failures surface to the caller.

var fallbackDate = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

var fallbackObservedAmount any = 1850000000.0

// FallbackPair returns the deterministic example contract and analysis. The
// analysis contract id is rewritten to the id the caller asked for, so the
// substitution stays traceable to the original request; the contract keeps
// its own example identity.
func FallbackPair(requestedID string) (model.Contract, model.Analysis) {
	contract := model.Contract{
		ID:                 "CO1.PCCNTR.EJEMPLO-001",
		Name:               "Suministro de equipos de cómputo para sedes educativas",
		Entity:             "Alcaldía de Medellín",
		Amount:             1850000000,
		Date:               &fallbackDate,
		RiskLevel:          model.RiskHigh,
		AnomalyProbability: 87,
	}

	analysis := model.Analysis{
		ContractID: requestedID,
		ExecutiveSummary: "Datos de ejemplo: el servicio de análisis no está disponible. " +
			"El contrato presenta un monto inusualmente alto frente a procesos " +
			"comparables de la misma entidad y una adjudicación con un único oferente.",
		MainFactors: []string{
			"Monto 3.2 veces superior a la mediana de contratos similares",
			"Proceso adjudicado con un único oferente",
			"Plazo de ejecución reducido frente al alcance declarado",
		},
		Recommendations: []string{
			"Revisar los estudios previos y el análisis del sector",
			"Verificar la pluralidad de oferentes en el proceso",
			"Contrastar el monto con el histórico de la entidad",
		},
		Attributions: []model.Attribution{
			{
				Variable:      "monto_contrato",
				Value:         32.5,
				Description:   "El valor del contrato empuja la probabilidad al alza",
				ObservedValue: fallbackObservedAmount,
			},
			{
				Variable:      "numero_oferentes",
				Value:         21.8,
				Description:   "Un único oferente aumenta la probabilidad de irregularidad",
				ObservedValue: any(1.0),
			},
			{
				Variable:      "plazo_ejecucion_dias",
				Value:         -4.3,
				Description:   "El plazo declarado reduce levemente la probabilidad",
				ObservedValue: any(120.0),
			},
		},
		BaseProbability: 12.4,
		Confidence:      0.82,
		AnalyzedAt:      "2024-04-02T10:30:00Z",
	}

	return contract, analysis
}
