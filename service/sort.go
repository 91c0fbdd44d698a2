package service

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/JairPrada/RadarColTfm/model"
)

// SortField selects which contract field orders the working set.
type SortField string

const (
	SortByID      SortField = "id"
	SortByEntity  SortField = "entity"
	SortByAmount  SortField = "amount"
	SortByDate    SortField = "date"
	SortByRisk    SortField = "riskLevel"
	SortByAnomaly SortField = "anomalyProbability"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByID, SortByEntity, SortByAmount, SortByDate, SortByRisk, SortByAnomaly:
		return true
	}
	return false
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortContracts returns a copy of contracts ordered by field. An empty
// field is the identity order, not an error. The sort is stable: records
// with equal keys keep their relative input order. An empty direction
// defaults to ascending.
//
// Comparator contract: strings collate under Spanish locale rules, so
// accented characters order next to their base letter. Risk levels compare
// by severity ordinal, not alphabetically. A nil date compares greater than
// any present date, which puts dateless contracts last in ascending order
// and first in descending.
func SortContracts(contracts []model.Contract, field SortField, dir SortDirection) []model.Contract {
	if field == "" {
		return contracts
	}

	out := make([]model.Contract, len(contracts))
	copy(out, contracts)

	col := collate.New(language.Spanish)
	desc := dir == SortDesc

	sort.SliceStable(out, func(i, j int) bool {
		c := compareContracts(col, &out[i], &out[j], field)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareContracts(col *collate.Collator, a, b *model.Contract, field SortField) int {
	switch field {
	case SortByID:
		return col.CompareString(a.ID, b.ID)
	case SortByEntity:
		return col.CompareString(a.Entity, b.Entity)
	case SortByAmount:
		return compareFloats(a.Amount, b.Amount)
	case SortByDate:
		return compareDates(a.Date, b.Date)
	case SortByRisk:
		return a.RiskLevel.Severity() - b.RiskLevel.Severity()
	case SortByAnomaly:
		return compareFloats(a.AnomalyProbability, b.AnomalyProbability)
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareDates treats nil as greater than any concrete date.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}
