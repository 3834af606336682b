package catalog_test

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"producthub/internal/catalog"
	"producthub/internal/models"
)

func TestParams_QueryDefaults(t *testing.T) {
	q := catalog.Params{}.Query(0)

	assert.Equal(t, catalog.Query{
		Page:     1,
		Limit:    10,
		MinPrice: 0,
		MaxPrice: 10000,
		Sort:     catalog.SortNatural,
	}, q)
	assert.Equal(t, 0, q.Skip())
}

func TestParams_QueryCoercion(t *testing.T) {
	tests := []struct {
		name   string
		params catalog.Params
		want   func(t *testing.T, q catalog.Query)
	}{
		{
			name:   "numeric values are parsed",
			params: catalog.Params{Page: "3", Limit: "20", MinPrice: "10.5", MaxPrice: "99"},
			want: func(t *testing.T, q catalog.Query) {
				assert.Equal(t, 3, q.Page)
				assert.Equal(t, 20, q.Limit)
				assert.Equal(t, 10.5, q.MinPrice)
				assert.Equal(t, 99.0, q.MaxPrice)
				assert.Equal(t, 40, q.Skip())
			},
		},
		{
			name:   "non-numeric values fall back",
			params: catalog.Params{Page: "abc", Limit: "ten", MinPrice: "cheap", MaxPrice: "NaN"},
			want: func(t *testing.T, q catalog.Query) {
				assert.Equal(t, catalog.DefaultPage, q.Page)
				assert.Equal(t, catalog.DefaultLimit, q.Limit)
				assert.Equal(t, catalog.DefaultMinPrice, q.MinPrice)
				assert.Equal(t, catalog.DefaultMaxPrice, q.MaxPrice)
			},
		},
		{
			name:   "zero and negative page window values fall back",
			params: catalog.Params{Page: "0", Limit: "-5"},
			want: func(t *testing.T, q catalog.Query) {
				assert.Equal(t, 1, q.Page)
				assert.Equal(t, 10, q.Limit)
			},
		},
		{
			name:   "fractional page truncates",
			params: catalog.Params{Page: "2.9", Limit: "08"},
			want: func(t *testing.T, q catalog.Query) {
				assert.Equal(t, 2, q.Page)
				assert.Equal(t, 8, q.Limit)
			},
		},
		{
			name:   "zero max price falls back",
			params: catalog.Params{MaxPrice: "0", MinPrice: "0"},
			want: func(t *testing.T, q catalog.Query) {
				assert.Equal(t, catalog.DefaultMaxPrice, q.MaxPrice)
				assert.Equal(t, 0.0, q.MinPrice)
			},
		},
		{
			name:   "huge page saturates instead of resetting",
			params: catalog.Params{Page: "99999999999", Limit: "1e12"},
			want: func(t *testing.T, q catalog.Query) {
				assert.Equal(t, math.MaxInt32, q.Page)
				assert.Equal(t, math.MaxInt32, q.Limit)
			},
		},
		{
			name:   "infinite price falls back",
			params: catalog.Params{MaxPrice: "Inf"},
			want: func(t *testing.T, q catalog.Query) {
				assert.Equal(t, catalog.DefaultMaxPrice, q.MaxPrice)
			},
		},
		{
			name:   "text filters pass through untouched",
			params: catalog.Params{Search: " Spea ", Category: "Audio", Brand: "Acme", Sort: "newest"},
			want: func(t *testing.T, q catalog.Query) {
				assert.Equal(t, " Spea ", q.Search)
				assert.Equal(t, "Audio", q.Category)
				assert.Equal(t, "Acme", q.Brand)
				assert.Equal(t, catalog.SortNewest, q.Sort)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, tt.params.Query(0))
		})
	}
}

func TestParams_QueryClampsLimit(t *testing.T) {
	assert.Equal(t, 100, catalog.Params{Limit: "5000"}.Query(100).Limit)
	assert.Equal(t, 50, catalog.Params{Limit: "50"}.Query(100).Limit)
	assert.Equal(t, 5000, catalog.Params{Limit: "5000"}.Query(0).Limit)
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, catalog.SortPriceAsc, catalog.ParseSortMode("lowToHigh"))
	assert.Equal(t, catalog.SortPriceDesc, catalog.ParseSortMode("highToLow"))
	assert.Equal(t, catalog.SortNewest, catalog.ParseSortMode("newest"))
	assert.Equal(t, catalog.SortNatural, catalog.ParseSortMode("LOWTOHIGH"))
	assert.Equal(t, catalog.SortNatural, catalog.ParseSortMode("oldest"))
}

func TestQuery_Matches(t *testing.T) {
	speaker := models.Product{Name: "Bluetooth Speaker", Category: "Audio", Brand: "Acme", Price: 49.99}
	base := catalog.Params{}.Query(0)

	assert.True(t, base.Matches(speaker))

	q := base
	q.Search = "SPEA"
	assert.True(t, q.Matches(speaker))
	q.Search = "spea.*"
	assert.False(t, q.Matches(speaker), "search is a literal substring")

	q = base
	q.Category = "Audio"
	assert.True(t, q.Matches(speaker))
	q.Category = "audio"
	assert.False(t, q.Matches(speaker), "category match is exact")

	q = base
	q.Brand = "Other"
	assert.False(t, q.Matches(speaker))

	q = base
	q.MinPrice, q.MaxPrice = 49.99, 49.99
	assert.True(t, q.Matches(speaker), "price bounds are inclusive")
	q.MinPrice = 50
	assert.False(t, q.Matches(speaker))
	q.MinPrice, q.MaxPrice = 0, 49.98
	assert.False(t, q.Matches(speaker))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, catalog.TotalPages(0, 10))
	assert.Equal(t, 1, catalog.TotalPages(1, 10))
	assert.Equal(t, 1, catalog.TotalPages(10, 10))
	assert.Equal(t, 2, catalog.TotalPages(11, 10))
	assert.Equal(t, 7, catalog.TotalPages(7, 1))
}

func TestNewPage_EmptyProductsIsArray(t *testing.T) {
	page := catalog.NewPage(nil, 3, catalog.Query{Page: 5, Limit: 2})

	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 5, page.CurrentPage)
}

func TestTotalPagesProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("totalPages equals ceil(total/limit)", prop.ForAll(
		func(total int64, limit int) bool {
			want := int(math.Ceil(float64(total) / float64(limit)))
			return catalog.TotalPages(total, limit) == want
		},
		gen.Int64Range(0, 100000),
		gen.IntRange(1, 500),
	))

	properties.Property("every matching record lands on exactly one page", prop.ForAll(
		func(total int64, limit int) bool {
			pages := catalog.TotalPages(total, limit)
			lastPage := catalog.Query{Page: pages, Limit: limit}
			if pages == 0 {
				return total == 0
			}
			return int64(lastPage.Skip()) < total && int64(lastPage.Skip()+limit) >= total
		},
		gen.Int64Range(0, 100000),
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}
