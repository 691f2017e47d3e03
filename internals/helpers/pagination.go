package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// =======================
// SKIP/LIMIT PAGINATION
// =======================

type PageOptions struct {
	DefaultLimit int
	MaxLimit     int
}

var (
	DefaultPageOpts = PageOptions{DefaultLimit: 50, MaxLimit: 200}
	SamplePageOpts  = PageOptions{DefaultLimit: 1, MaxLimit: 50}
)

type PageParams struct {
	Skip      int
	Limit     int
	SortBy    string
	SortOrder string // asc|desc
}

// ParsePage reads skip/limit/sort_by/sort_order query params with clamping.
func ParsePage(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt PageOptions) PageParams {
	skip := atoiDefault(c.Query("skip"), 0)
	if skip < 0 {
		skip = 0
	}

	limit := atoiDefault(c.Query("limit"), opt.DefaultLimit)
	if limit < 1 {
		limit = opt.DefaultLimit
	}
	if limit > opt.MaxLimit {
		limit = opt.MaxLimit
	}

	sortBy := strings.TrimSpace(c.Query("sort_by"))
	if sortBy == "" {
		sortBy = defaultSortBy
	}

	order := strings.ToLower(strings.TrimSpace(c.Query("sort_order")))
	if order != "asc" && order != "desc" {
		order = strings.ToLower(defaultSortOrder)
		if order != "asc" && order != "desc" {
			order = "desc"
		}
	}

	return PageParams{Skip: skip, Limit: limit, SortBy: sortBy, SortOrder: order}
}

// SafeOrderClause builds an ORDER BY from a column whitelist.
func (p PageParams) SafeOrderClause(allowed map[string]string, defaultKey string) string {
	col, ok := allowed[p.SortBy]
	if !ok {
		col = allowed[defaultKey]
	}
	dir := "DESC"
	if p.SortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}

// Paginated is the envelope every list endpoint returns.
type Paginated[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}

func NewPaginated[T any](items []T, total int64, skip, limit int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{Items: items, Total: total, Skip: skip, Limit: limit}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
