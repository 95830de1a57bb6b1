package middleware

import (
	"strconv"

	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/shared/store"
	"github.com/gin-gonic/gin"
)

// ListParams reads sort, order, page and per_page from the query string.
// Values that do not parse as integers are ignored; page or per_page <= 0 is
// rejected with ErrInvalidPagination.
func ListParams(c *gin.Context, defaultSort, defaultOrder string) (store.ListParams, error) {
	p := store.ListParams{
		Sort:  c.DefaultQuery("sort", defaultSort),
		Order: c.DefaultQuery("order", defaultOrder),
	}
	var ok bool
	if p.Page, ok = QueryInt(c, "page"); ok && *p.Page <= 0 {
		return p, models.ErrInvalidPagination
	}
	if p.PerPage, ok = QueryInt(c, "per_page"); ok && *p.PerPage <= 0 {
		return p, models.ErrInvalidPagination
	}
	return p, nil
}

// QueryInt returns the integer value of a query parameter, or nil if it is
// absent or not an integer.
func QueryInt(c *gin.Context, key string) (*int, bool) {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return nil, false
	}
	return &n, true
}

func QueryInt64(c *gin.Context, key string) *int64 {
	n, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func QueryBool(c *gin.Context, key string) *bool {
	b, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &b
}
