// Package pricing holds the special-price domain: per-user price overrides on
// catalog products, the DTOs used to mutate them, and the pure derivation
// rules (discount percentage, thousands formatting) the admin views rely on.
package pricing

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrEntryNotFound is returned when an aggregate has no price override for
// the requested product.
var ErrEntryNotFound = errors.New("no special price entry for product")

// SpecialPrice groups one user's identity with their product price overrides.
// The backend guarantees at most one entry per distinct product ID; entry
// order carries no meaning.
type SpecialPrice struct {
	ID        string
	Name      string
	Email     string
	Products  []ProductPrice
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductPrice is a single price override within a SpecialPrice aggregate.
// ProductID is a weak reference: the aggregate does not own the product and
// nothing cascades when the product disappears.
type ProductPrice struct {
	ID        string
	ProductID string
	Price     decimal.Decimal
}

// Product returns the override for the given product ID, if any.
func (sp *SpecialPrice) Product(productID string) (ProductPrice, bool) {
	for _, p := range sp.Products {
		if p.ProductID == productID {
			return p, true
		}
	}
	return ProductPrice{}, false
}

// TotalEntries sums the number of price overrides across aggregates. An
// aggregate with zero entries contributes nothing, so the result counts
// entries, never aggregates.
func TotalEntries(prices []SpecialPrice) int {
	total := 0
	for _, sp := range prices {
		total += len(sp.Products)
	}
	return total
}

// CreateSpecialPrice creates a new aggregate with its first price override.
type CreateSpecialPrice struct {
	Name      string
	Email     string
	ProductID string
	Price     decimal.Decimal
}

// UpdateSpecialPrice adds or replaces one price override on an existing
// aggregate.
type UpdateSpecialPrice struct {
	ID        string
	ProductID string
	Price     decimal.Decimal
}

// Status is the backend's verdict on a mutation: the response envelope
// surfaced as-is so callers can inspect success and message, plus the updated
// aggregate when the backend returns one. Success false without a transport
// error still means the mutation failed.
type Status struct {
	Success bool
	Message string
	Price   *SpecialPrice
}

// Repository defines the backend operations on special prices. Each call maps
// to exactly one HTTP request; implementations perform no retries and no
// caching.
type Repository interface {
	List(ctx context.Context) ([]SpecialPrice, error)
	GetByID(ctx context.Context, id string) (*SpecialPrice, error)
	Create(ctx context.Context, req CreateSpecialPrice) (*Status, error)
	AddProduct(ctx context.Context, req UpdateSpecialPrice) (*Status, error)
	UpdateProduct(ctx context.Context, id, productID string, price decimal.Decimal) (*Status, error)
	Delete(ctx context.Context, id string) error
	DeleteProduct(ctx context.Context, id, productID string) (*Status, error)
}
