package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"producthub/internal/catalog"
	"producthub/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GORMProductRepository is a GORM implementation of ProductRepository, used
// for the postgres and sqlite drivers.
type GORMProductRepository struct {
	db    *gorm.DB
	lower string
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db:    db,
		lower: lowerFunc(db),
	}
}

// Migrate creates the products table when it does not exist.
func (r *GORMProductRepository) Migrate() error {
	if err := r.db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate products table: %w", err)
	}
	return nil
}

// filtered applies the catalog filter to a products query.
func (r *GORMProductRepository) filtered(ctx context.Context, q catalog.Query) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Product{})
	if q.Search != "" {
		tx = tx.Where(r.lower+`(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(q.Search))+"%")
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Brand != "" {
		tx = tx.Where("brand = ?", q.Brand)
	}
	return tx.Where("price >= ? AND price <= ?", q.MinPrice, q.MaxPrice)
}

// Find retrieves one page of matching products.
func (r *GORMProductRepository) Find(ctx context.Context, q catalog.Query) ([]models.Product, error) {
	tx := r.filtered(ctx, q)
	switch q.Sort {
	case catalog.SortPriceAsc:
		tx = tx.Order("price ASC")
	case catalog.SortPriceDesc:
		tx = tx.Order("price DESC")
	case catalog.SortNewest:
		// UUIDv7 ids sort by creation time.
		tx = tx.Order("id DESC")
	}

	products := []models.Product{}
	if err := tx.Offset(q.Skip()).Limit(q.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// Count counts matching products, ignoring the page window.
func (r *GORMProductRepository) Count(ctx context.Context, q catalog.Query) (int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate product ID: %w", err)
	}
	product.ID = id.String()
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the five product fields of an existing row.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	// A map so that a zero price is written too.
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":     product.Name,
		"image":    product.Image,
		"category": product.Category,
		"brand":    product.Brand,
		"price":    product.Price,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete product: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Ping checks the underlying connection.
func (r *GORMProductRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (r *GORMProductRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
