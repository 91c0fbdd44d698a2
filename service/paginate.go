package service

import (
	"github.com/JairPrada/RadarColTfm/model"
)

// Paginate slices the ordered set into the requested page. Out-of-range
// pages yield an empty page, never an error. totalPages is
// ceil(totalItems/pageSize) and 0 exactly when the set is empty.
//
// Changing the page size invalidates the page number; resetting page to 1
// is the caller's duty, not enforced here.
func Paginate[T any](items []T, req model.PageRequest) model.PageResult[T] {
	total := len(items)

	result := model.PageResult[T]{
		Data:     []T{},
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Page < 1 || req.PageSize < 1 {
		return result
	}

	result.TotalItems = total
	if total > 0 {
		result.TotalPages = (total + req.PageSize - 1) / req.PageSize
	}

	start := (req.Page - 1) * req.PageSize
	end := start + req.PageSize
	if start < total {
		if end > total {
			end = total
		}
		result.Data = items[start:end]
	}

	result.HasNextPage = req.Page < result.TotalPages
	result.HasPrevPage = req.Page > 1

	return result
}
