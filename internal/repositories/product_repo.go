package repositories

import (
	"context"

	"producthub/internal/catalog"
	"producthub/internal/models"
)

// ProductRepository defines the document collection capability the catalog
// needs: filtered paging, counting and by-id writes.
type ProductRepository interface {
	Find(ctx context.Context, q catalog.Query) ([]models.Product, error)
	Count(ctx context.Context, q catalog.Query) (int64, error)
	// GetByID returns models.ErrProductNotFound when nothing matches.
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// Create assigns product.ID.
	Create(ctx context.Context, product *models.Product) error
	// Update replaces every field but the id, or returns models.ErrProductNotFound.
	Update(ctx context.Context, product *models.Product) error
	// Delete reports how many records were removed; zero is not an error.
	Delete(ctx context.Context, id string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
