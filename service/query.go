package service

import (
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/JairPrada/RadarColTfm/model"
)

// Maximum number of records the list endpoint will return per request.
const maxListLimit = 100

// BuildListQuery renders a filter spec as the canonical query string for the
// list endpoint. Absent values are omitted entirely. limit <= 0 means no
// explicit limit; anything above 100 is clamped to 100. The name filter is
// only included once it has at least three characters, and the risk-level
// dimension is never serialized because the API has no parameter for it.
//
// Pure function: out-of-range amounts and unordered min/max pass through
// untouched, range validation belongs to the caller. url.Values.Encode sorts
// parameters by key, which is what makes the output canonical and usable as
// a cache key.
func BuildListQuery(spec model.FilterSpec, limit int) string {
	v := url.Values{}

	if limit > 0 {
		if limit > maxListLimit {
			limit = maxListLimit
		}
		v.Set("limit", strconv.Itoa(limit))
	}
	if spec.DateFrom != "" {
		v.Set("fecha_desde", spec.DateFrom)
	}
	if spec.DateTo != "" {
		v.Set("fecha_hasta", spec.DateTo)
	}
	if spec.MinAmount != nil {
		v.Set("valor_minimo", strconv.FormatFloat(*spec.MinAmount, 'f', -1, 64))
	}
	if spec.MaxAmount != nil {
		v.Set("valor_maximo", strconv.FormatFloat(*spec.MaxAmount, 'f', -1, 64))
	}
	if utf8.RuneCountInString(spec.Name) >= 3 {
		v.Set("nombre_contrato", spec.Name)
	}
	if spec.ContractID != "" {
		v.Set("id_contrato", spec.ContractID)
	}

	return v.Encode()
}
