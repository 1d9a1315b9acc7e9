package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item as owned by the upstream backend. Every instance
// is an immutable snapshot of the backend state at fetch time; the admin
// gateway never modifies products.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Category    string
	Brand       string
	Description string
	SKU         string
	Stock       int
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository defines read access to the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
