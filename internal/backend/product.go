package backend

import (
	"context"
	"net/url"

	"pricedesk/internal/domain/catalog"
)

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository over the backend REST API.
// Every method is a pure pass-through: one HTTP call, envelope unwrapped,
// failures already normalized by the client.
type ProductRepository struct {
	client *Client
}

// NewProductRepository returns a ProductRepository using the given client.
func NewProductRepository(client *Client) *ProductRepository {
	return &ProductRepository{client: client}
}

// List returns the full product catalog.
func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	var env envelope[[]productDTO]
	if err := r.client.Get(ctx, "/products", &env); err != nil {
		return nil, err
	}
	out := make([]catalog.Product, len(env.Data))
	for i, d := range env.Data {
		out[i] = d.toDomain()
	}
	return out, nil
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	var env envelope[productDTO]
	if err := r.client.Get(ctx, "/products/"+url.PathEscape(id), &env); err != nil {
		return nil, err
	}
	p := env.Data.toDomain()
	return &p, nil
}
