package services

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"producthub/internal/catalog"
	"producthub/internal/models"
	"producthub/internal/repositories"
)

// EventPublisher delivers product events to a broker.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	events   EventPublisher
	validate *validator.Validate
	maxLimit int
}

// NewProductService creates a new ProductService. events may be nil, in which
// case no events are published. maxLimit caps the listing page size when positive.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, maxLimit int) *ProductService {
	validate := validator.New()
	// A pointer lets required tell an unset price from a set one.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if price, ok := field.Interface().(models.Price); ok && price.Set {
			value := price.Value
			return &value
		}
		return nil
	}, models.Price{})

	return &ProductService{
		repo:     repo,
		events:   events,
		validate: validate,
		maxLimit: maxLimit,
	}
}

// ListProducts returns one page of products matching params.
func (s *ProductService) ListProducts(ctx context.Context, params catalog.Params) (*catalog.Page, error) {
	q := params.Query(s.maxLimit)

	var (
		total    int64
		products []models.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.repo.Find(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, &models.StoreError{Op: "fetch products", Err: err}
	}
	return catalog.NewPage(products, total, q), nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("fetch product", err)
	}
	return product, nil
}

// CreateProduct validates the input, stores it and returns the new id.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (string, error) {
	if err := s.validateInput(input); err != nil {
		return "", err
	}
	product := input.Product("")
	if err := s.repo.Create(ctx, product); err != nil {
		return "", storeError("add product", err)
	}
	s.publish(models.EventProductCreated, product.ID, product)
	return product.ID, nil
}

// UpdateProduct replaces all five fields of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input models.ProductInput) error {
	if err := s.validateInput(input); err != nil {
		return err
	}
	product := input.Product(id)
	if err := s.repo.Update(ctx, product); err != nil {
		return storeError("update product", err)
	}
	s.publish(models.EventProductUpdated, id, product)
	return nil
}

// DeleteProduct removes a product. An unknown id deletes nothing and is not an error.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*models.DeleteResult, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, storeError("delete product", err)
	}
	if deleted > 0 {
		s.publish(models.EventProductDeleted, id, nil)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

func (s *ProductService) validateInput(input models.ProductInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &models.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, fe.Field())
	}
	return verr
}

// publish never fails the request: broker problems are logged and dropped.
func (s *ProductService) publish(eventType, id string, product *models.Product) {
	if s.events == nil {
		return
	}
	body, err := jsoniter.Marshal(models.ProductEvent{
		Type:       eventType,
		ProductID:  id,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		zap.L().Warn("Failed to marshal product event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		zap.L().Warn("Failed to publish product event",
			zap.String("type", eventType), zap.String("product_id", id), zap.Error(err))
	}
}

// storeError leaves a missing product recognisable and marks anything else as a store fault.
func storeError(op string, err error) error {
	if errors.Is(err, models.ErrProductNotFound) {
		return err
	}
	return &models.StoreError{Op: op, Err: err}
}
