package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"producthub/internal/catalog"
	"producthub/internal/config"
	"producthub/internal/models"
	"producthub/internal/repositories"
)

func TestMongoFilter_Defaults(t *testing.T) {
	filter := repositories.MongoFilter(catalog.Params{}.Query(0))

	assert.Equal(t, bson.M{
		"name":     bson.M{"$regex": "", "$options": "i"},
		"category": bson.M{"$exists": true},
		"brand":    bson.M{"$exists": true},
		"price":    bson.M{"$gte": 0.0, "$lte": 10000.0},
	}, filter)
}

func TestMongoFilter_AllConditions(t *testing.T) {
	q := catalog.Params{Search: "spea", Category: "Audio", Brand: "Acme", MinPrice: "10", MaxPrice: "100"}.Query(0)

	assert.Equal(t, bson.M{
		"name":     bson.M{"$regex": "spea", "$options": "i"},
		"category": "Audio",
		"brand":    "Acme",
		"price":    bson.M{"$gte": 10.0, "$lte": 100.0},
	}, repositories.MongoFilter(q))
}

func TestMongoFilter_SearchIsQuoted(t *testing.T) {
	filter := repositories.MongoFilter(catalog.Params{Search: "a.b+(c)"}.Query(0))
	assert.Equal(t, bson.M{"$regex": `a\.b\+\(c\)`, "$options": "i"}, filter["name"])
}

func TestMongoSort(t *testing.T) {
	assert.Nil(t, repositories.MongoSort(catalog.SortNatural))
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, repositories.MongoSort(catalog.SortPriceAsc))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, repositories.MongoSort(catalog.SortPriceDesc))
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, repositories.MongoSort(catalog.SortNewest))
}

// TestMongoProductRepository runs against a live server when MONGO_TEST_URI is set.
func TestMongoProductRepository(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repositories.Open(ctx, config.StoreConfig{
		Driver:          config.DriverMongo,
		MongoURI:        uri,
		MongoDatabase:   "producthub_test",
		MongoCollection: "product_" + time.Now().Format("150405.000000"),
		Timeout:         5 * time.Second,
	})
	require.NoError(t, err)
	defer repo.Close()

	testCreateAndGet(t, repo)
	testDeleteTwice(t, repo)

	_, err = repo.GetByID(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
	deleted, err := repo.Delete(ctx, "not-an-object-id")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
