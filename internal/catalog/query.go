// Package catalog turns loosely-typed listing parameters into a product query
// and shapes paginated results.
package catalog

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"producthub/internal/models"
)

// Defaults applied when a parameter is missing or malformed.
const (
	DefaultPage     = 1
	DefaultLimit    = 10
	DefaultMinPrice = 0.0
	DefaultMaxPrice = 10000.0
)

// SortMode selects the single active sort key of a listing.
type SortMode string

const (
	SortNatural   SortMode = ""
	SortPriceAsc  SortMode = "lowToHigh"
	SortPriceDesc SortMode = "highToLow"
	SortNewest    SortMode = "newest"
)

// ParseSortMode resolves a raw sort value; unknown values mean natural order.
func ParseSortMode(raw string) SortMode {
	switch mode := SortMode(raw); mode {
	case SortPriceAsc, SortPriceDesc, SortNewest:
		return mode
	default:
		return SortNatural
	}
}

// Params holds the raw query-string values of a listing request.
type Params struct {
	Page     string `query:"page"`
	Limit    string `query:"limit"`
	Search   string `query:"search"`
	Category string `query:"category"`
	Brand    string `query:"brand"`
	MinPrice string `query:"minPrice"`
	MaxPrice string `query:"maxPrice"`
	Sort     string `query:"sort"`
}

// Query is the coerced form of Params: a filter, a sort mode and a page window.
type Query struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Brand    string
	MinPrice float64
	MaxPrice float64
	Sort     SortMode
}

// Query coerces the raw parameters. Malformed numbers fall back to their
// defaults instead of failing the request. A positive maxLimit caps Limit.
func (p Params) Query(maxLimit int) Query {
	q := Query{
		Page:     PositiveInt(p.Page, DefaultPage),
		Limit:    PositiveInt(p.Limit, DefaultLimit),
		Search:   p.Search,
		Category: p.Category,
		Brand:    p.Brand,
		MinPrice: Number(p.MinPrice, DefaultMinPrice),
		MaxPrice: Number(p.MaxPrice, DefaultMaxPrice),
		Sort:     ParseSortMode(p.Sort),
	}
	// Zero means "no ceiling given", as for page and limit.
	if q.MaxPrice == 0 {
		q.MaxPrice = DefaultMaxPrice
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return q
}

// PositiveInt parses raw as a number truncated toward zero, returning def when
// raw is not numeric or the result is below 1. Values above MaxInt32 saturate.
func PositiveInt(raw string, def int) int {
	v := Number(raw, math.NaN())
	if math.IsNaN(v) || v < 1 {
		return def
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// Number parses raw as a finite float, returning def otherwise.
func Number(raw string, def float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Skip is the number of matching records before the requested page.
func (q Query) Skip() int {
	return (q.Page - 1) * q.Limit
}

// Matches reports whether p satisfies every condition of the filter.
func (q Query) Matches(p models.Product) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
		return false
	}
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Brand != "" && p.Brand != q.Brand {
		return false
	}
	return p.Price >= q.MinPrice && p.Price <= q.MaxPrice
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Page is the paginated listing envelope.
type Page struct {
	Products    []models.Product `json:"products"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

// NewPage builds the envelope for one page of q.
func NewPage(products []models.Product, total int64, q Query) *Page {
	if products == nil {
		products = []models.Product{}
	}
	return &Page{
		Products:    products,
		TotalPages:  TotalPages(total, q.Limit),
		CurrentPage: q.Page,
	}
}
