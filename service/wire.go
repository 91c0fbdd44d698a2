package service

import (
	"encoding/json"
	"strings"
)

// Wire shapes of the contract-analysis API. A response is received once per
// request, consumed by validation and normalization, and discarded; nothing
// here is mutated after decoding.

// RawAmount preserves the textual form of a monetary field that the API
// sends either as a JSON string ("$ 1.234.567") or as a bare number.
type RawAmount string

func (a *RawAmount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*a = RawAmount(v)
		return nil
	}
	*a = RawAmount(s)
	return nil
}

// RawContract is one record of the list endpoint.
type RawContract struct {
	Contrato struct {
		Codigo      string `json:"Codigo"`
		Descripcion string `json:"Descripcion"`
	} `json:"Contrato"`
	Entidad     string    `json:"Entidad"`
	Monto       RawAmount `json:"Monto"`
	FechaInicio string    `json:"FechaInicio,omitempty"`
	NivelRiesgo string    `json:"NivelRiesgo"`
	Anomalia    float64   `json:"Anomalia"`
}

// ListResponse is the body of GET {base}/contratos. Contratos is a pointer
// so that a 2xx body lacking the array is distinguishable from an empty
// result: nil means the response is malformed.
type ListResponse struct {
	TotalContratosAnalizados int            `json:"totalContratosAnalizados"`
	ContratosAltoRiesgo      int            `json:"contratosAltoRiesgo"`
	MontoTotalCOP            float64        `json:"montoTotalCOP"`
	Metadata                 map[string]any `json:"metadata"`
	Contratos                *[]RawContract `json:"contratos"`
}

// RawDetailContract is the contract object of the detail endpoint. Same
// data as RawContract but with lowercase field names and no nesting.
type RawDetailContract struct {
	Codigo      string    `json:"codigo"`
	Descripcion string    `json:"descripcion"`
	Entidad     string    `json:"entidad"`
	Monto       RawAmount `json:"monto"`
	FechaInicio string    `json:"fechaInicio,omitempty"`
	NivelRiesgo string    `json:"nivelRiesgo"`
	Anomalia    float64   `json:"anomalia"`
}

type RawShapValue struct {
	Variable       string  `json:"variable"`
	Valor          float64 `json:"valor"`
	Descripcion    string  `json:"descripcion"`
	ValorObservado any     `json:"valorObservado,omitempty"`
}

type RawAnalysis struct {
	ContractID          string         `json:"contractId"`
	ResumenEjecutivo    string         `json:"resumenEjecutivo"`
	FactoresPrincipales []string       `json:"factoresPrincipales"`
	Recomendaciones     []string       `json:"recomendaciones"`
	ShapValues          []RawShapValue `json:"shapValues"`
	ProbabilidadBase    float64        `json:"probabilidadBase"`
	Confianza           float64        `json:"confianza"`
	FechaAnalisis       string         `json:"fechaAnalisis"`
}

// DetailResponse is the body of GET {base}/contratos/{id}/analisis. Either
// object missing is a malformed response: there is exactly one record to
// validate, so no partial result is meaningful.
type DetailResponse struct {
	Contract *RawDetailContract `json:"contract"`
	Analysis *RawAnalysis       `json:"analysis"`
}
