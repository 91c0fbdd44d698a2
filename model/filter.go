package model

// FilterSpec describes the constraints a caller wants applied to the
// contract list. The zero value means "no constraint". The pipeline only
// reads a spec, it never mutates one.
//
// Dates are ISO calendar-date strings (YYYY-MM-DD). Name is meaningful only
// at three or more characters; shorter values are ignored by the query
// builder. RiskLevels is a client-only dimension: the remote API has no
// parameter for it, so it is applied locally after normalization.
type FilterSpec struct {
	DateFrom   string
	DateTo     string
	MinAmount  *float64
	MaxAmount  *float64
	Name       string
	ContractID string
	RiskLevels []RiskLevel
}

// PageRequest selects one page of an ordered set. Page is 1-based.
type PageRequest struct {
	Page     int
	PageSize int
}

// PageResult is one page of data plus its metadata.
// len(Data) is always <= PageSize; Data is empty iff the requested page is
// out of range or the source set is empty.
type PageResult[T any] struct {
	Data        []T  `json:"data"`
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}
