package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// Product represents a product in the catalog.
type Product struct {
	ID       string  `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name     string  `json:"name" gorm:"not null;index"`
	Image    string  `json:"image" gorm:"not null"`
	Category string  `json:"category" gorm:"not null;index"`
	Brand    string  `json:"brand" gorm:"not null;index"`
	Price    float64 `json:"price" gorm:"not null;index"`
}

// TableName pins the relational table name.
func (Product) TableName() string {
	return "products"
}

// ProductInput is the request body for adding or replacing a product.
type ProductInput struct {
	Name     string `json:"name" validate:"required"`
	Image    string `json:"image" validate:"required"`
	Category string `json:"category" validate:"required"`
	Price    Price  `json:"price" validate:"required,gt=0"`
	Brand    string `json:"brand" validate:"required"`
}

// Product converts the input into a product carrying the given id.
func (in ProductInput) Product(id string) *Product {
	return &Product{
		ID:       id,
		Name:     in.Name,
		Image:    in.Image,
		Category: in.Category,
		Brand:    in.Brand,
		Price:    in.Price.Value,
	}
}

// Price accepts either a JSON number or a numeric string. Null and "" leave it unset.
type Price struct {
	Value float64
	Set   bool
}

// NewPrice returns a set price.
func NewPrice(v float64) Price {
	return Price{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		data = bytes.TrimSpace(bytes.Trim(data, `"`))
		if len(data) == 0 {
			*p = Price{}
			return nil
		}
	}
	v, err := cast.ToFloat64E(string(data))
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("price %q is not a number", data)
	}
	*p = NewPrice(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(p.Value, 'f', -1, 64)), nil
}

// DeleteResult summarises a delete call the way the document store reports it.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Event types published after successful mutations.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is published after a product is added, replaced or removed.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"productId"`
	Product    *Product  `json:"product,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
