package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"producthub/internal/catalog"
	"producthub/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// Natural order is insertion order.
type MemoryProductRepository struct {
	products map[string]models.Product
	order    []string
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// Find returns one page of products matching q.
func (r *MemoryProductRepository) Find(_ context.Context, q catalog.Query) ([]models.Product, error) {
	r.mu.RLock()
	matched := r.matching(q)
	r.mu.RUnlock()

	switch q.Sort {
	case catalog.SortPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case catalog.SortPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case catalog.SortNewest:
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	skip := q.Skip()
	if skip >= len(matched) {
		return []models.Product{}, nil
	}
	end := skip + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

// Count returns the number of products matching q, ignoring the page window.
func (r *MemoryProductRepository) Count(_ context.Context, q catalog.Query) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matching(q))), nil
}

// matching must be called with the read lock held.
func (r *MemoryProductRepository) matching(q catalog.Query) []models.Product {
	matched := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		if p := r.products[id]; q.Matches(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = uuid.NewString()
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

// Update replaces an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return models.ErrProductNotFound
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (r *MemoryProductRepository) Ping(context.Context) error { return nil }

func (r *MemoryProductRepository) Close() error { return nil }
