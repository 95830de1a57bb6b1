package store

import (
	"fmt"
	"math"
	"strings"
)

// ListParams controls ordering and optional pagination of a list query.
// Pagination applies only when both Page and PerPage are set.
type ListParams struct {
	Sort    string
	Order   string
	Page    *int
	PerPage *int
}

func (p ListParams) Paginated() bool { return p.Page != nil && p.PerPage != nil }

// Pagination is the metadata returned alongside a paginated list.
type Pagination struct {
	Total   int `json:"total"`
	Pages   int `json:"pages"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// NewPagination computes the page count for total rows split perPage at a time.
func NewPagination(total, page, perPage int) Pagination {
	pages := 0
	if perPage > 0 && total > 0 {
		pages = total / perPage
		if total%perPage != 0 {
			pages++
		}
	}
	return Pagination{Total: total, Pages: pages, Page: page, PerPage: perPage}
}

// OrderClause builds an ORDER BY clause from a caller-supplied sort key,
// restricted to the given column whitelist. An unknown key orders by id.
// "desc" (any case) sorts descending; every other value sorts ascending.
func OrderClause(p ListParams, columns map[string]string) string {
	col, ok := columns[p.Sort]
	if !ok {
		return " ORDER BY id ASC"
	}
	dir := "ASC"
	if strings.EqualFold(p.Order, "desc") {
		dir = "DESC"
	}
	if col == "id" {
		return fmt.Sprintf(" ORDER BY id %s", dir)
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", col, dir)
}

// LimitClause appends LIMIT/OFFSET placeholders for a paginated query,
// numbering them after the argN arguments already bound. It returns the
// clause and the extra arguments. An offset past math.MaxInt is clamped to
// it, which still reads as an empty page.
func LimitClause(p ListParams, argN int) (string, []any) {
	if !p.Paginated() {
		return "", nil
	}
	offset := math.MaxInt
	if *p.Page-1 <= math.MaxInt / *p.PerPage {
		offset = (*p.Page - 1) * *p.PerPage
	}
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", argN+1, argN+2), []any{*p.PerPage, offset}
}

// Where accumulates positional filter conditions for a SELECT.
type Where struct {
	conds []string
	args  []any
}

// Add appends "column = $n" bound to value.
func (w *Where) Add(column string, value any) {
	w.args = append(w.args, value)
	w.conds = append(w.conds, fmt.Sprintf("%s = $%d", column, len(w.args)))
}

func (w *Where) Args() []any { return w.args }

func (w *Where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
