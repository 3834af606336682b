package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"producthub/internal/catalog"
	"producthub/internal/models"
	"producthub/pkg/mongodb"
)

// productDocument is the stored shape of a product.
type productDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Image    string             `bson:"image"`
	Category string             `bson:"category"`
	Price    float64            `bson:"price"`
	Brand    string             `bson:"brand"`
}

func (d productDocument) model() models.Product {
	return models.Product{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Image:    d.Image,
		Category: d.Category,
		Brand:    d.Brand,
		Price:    d.Price,
	}
}

// MongoProductRepository stores products in a MongoDB collection.
type MongoProductRepository struct {
	client     *mongodb.Client
	collection *mongo.Collection
}

// NewMongoProductRepository creates a repository over the named collection.
func NewMongoProductRepository(client *mongodb.Client, collection string) *MongoProductRepository {
	return &MongoProductRepository{
		client:     client,
		collection: client.Collection(collection),
	}
}

// MongoFilter builds the document filter for q. Empty category and brand only
// require the field to exist.
func MongoFilter(q catalog.Query) bson.M {
	filter := bson.M{
		"name":     bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"},
		"category": bson.M{"$exists": true},
		"brand":    bson.M{"$exists": true},
		"price":    bson.M{"$gte": q.MinPrice, "$lte": q.MaxPrice},
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Brand != "" {
		filter["brand"] = q.Brand
	}
	return filter
}

// MongoSort returns the sort document for mode, or nil for natural order.
func MongoSort(mode catalog.SortMode) bson.D {
	switch mode {
	case catalog.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case catalog.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case catalog.SortNewest:
		return bson.D{{Key: "_id", Value: -1}}
	default:
		return nil
	}
}

// Find retrieves one page of matching products.
func (r *MongoProductRepository) Find(ctx context.Context, q catalog.Query) ([]models.Product, error) {
	ctx, cancel := r.client.WithTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSkip(int64(q.Skip())).SetLimit(int64(q.Limit))
	if sort := MongoSort(q.Sort); sort != nil {
		opts.SetSort(sort)
	}
	cursor, err := r.collection.Find(ctx, MongoFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.model())
	}
	return products, nil
}

// Count counts matching products, ignoring the page window.
func (r *MongoProductRepository) Count(ctx context.Context, q catalog.Query) (int64, error) {
	ctx, cancel := r.client.WithTimeout(ctx)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, MongoFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// GetByID retrieves a single product. Malformed ids match nothing.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrProductNotFound
	}
	ctx, cancel := r.client.WithTimeout(ctx)
	defer cancel()

	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	product := doc.model()
	return &product, nil
}

// Create inserts a product and sets its store-assigned id.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := r.client.WithTimeout(ctx)
	defer cancel()

	doc := productDocument{
		Name:     product.Name,
		Image:    product.Image,
		Category: product.Category,
		Price:    product.Price,
		Brand:    product.Brand,
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	product.ID = oid.Hex()
	return nil
}

// Update replaces the five product fields in a single-document update.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return models.ErrProductNotFound
	}
	ctx, cancel := r.client.WithTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":     product.Name,
		"image":    product.Image,
		"category": product.Category,
		"price":    product.Price,
		"brand":    product.Brand,
	}})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// Delete removes a product by its ID. Malformed ids delete nothing.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}
	ctx, cancel := r.client.WithTimeout(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to delete product: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoProductRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

func (r *MongoProductRepository) Close() error {
	return r.client.Close()
}
