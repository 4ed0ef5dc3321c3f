// Package paging defines the request/response contract shared by every
// paged, searchable listing in the service.
package paging

import (
	"errors"
	"fmt"
	"strings"
)

// Directions accepted by OrderClause.
const (
	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"
)

// ErrInvalidPage indicates an unusable skip/pageSize combination.
var ErrInvalidPage = errors.New("paging: skip must be non-negative and pageSize positive")

// Request describes one page of a searchable, sortable listing.
type Request struct {
	Skip          int    `json:"skip"`
	PageSize      int    `json:"pageSize"`
	Search        string `json:"search"`
	SortColumn    string `json:"sortColumn"`
	SortDirection string `json:"sortDirection"`
}

// Validate rejects pages that cannot be served.
func (r Request) Validate() error {
	if r.Skip < 0 || r.PageSize <= 0 {
		return ErrInvalidPage
	}
	return nil
}

// SearchTerm returns the trimmed search string; empty means no filter.
func (r Request) SearchTerm() string {
	return strings.TrimSpace(r.Search)
}

// HasSearch reports whether a filter should be applied at all.
func (r Request) HasSearch() bool {
	return r.SearchTerm() != ""
}

// OrderClause builds an ORDER BY expression from the request, falling
// back to descending order on the default column. The sort column is
// matched against the allowlist so a request can never inject SQL.
func (r Request) OrderClause(defaultColumn string, allowed ...string) string {
	column := strings.TrimSpace(r.SortColumn)
	if !contains(allowed, column) {
		column = defaultColumn
	}

	direction := strings.ToUpper(strings.TrimSpace(r.SortDirection))
	if direction != DirectionAsc && direction != DirectionDesc {
		direction = DirectionDesc
	}

	return fmt.Sprintf("%s %s", column, direction)
}

func contains(values []string, candidate string) bool {
	for _, v := range values {
		if v == candidate {
			return true
		}
	}
	return false
}

// Result is one served page plus its counts: TotalCount ignores the
// search filter, FilteredCount is the size of the filtered set Rows is
// a page of.
type Result[T any] struct {
	Rows          []T   `json:"rows"`
	TotalCount    int64 `json:"totalCount"`
	FilteredCount int64 `json:"filteredCount"`
}
