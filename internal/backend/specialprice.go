package backend

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"

	"pricedesk/internal/domain/pricing"
)

var _ pricing.Repository = (*SpecialPriceRepository)(nil)

// SpecialPriceRepository implements pricing.Repository over the backend REST
// API. Reads unwrap the envelope and return data; mutations return the whole
// envelope as pricing.Status so callers can inspect success and message.
type SpecialPriceRepository struct {
	client *Client
}

// NewSpecialPriceRepository returns a SpecialPriceRepository using the given
// client.
func NewSpecialPriceRepository(client *Client) *SpecialPriceRepository {
	return &SpecialPriceRepository{client: client}
}

// List returns every special-price aggregate.
func (r *SpecialPriceRepository) List(ctx context.Context) ([]pricing.SpecialPrice, error) {
	var env envelope[[]specialPriceDTO]
	if err := r.client.Get(ctx, "/special-prices", &env); err != nil {
		return nil, err
	}
	out := make([]pricing.SpecialPrice, len(env.Data))
	for i, d := range env.Data {
		out[i] = d.toDomain()
	}
	return out, nil
}

// GetByID returns a single aggregate by its identifier.
func (r *SpecialPriceRepository) GetByID(ctx context.Context, id string) (*pricing.SpecialPrice, error) {
	var env envelope[specialPriceDTO]
	if err := r.client.Get(ctx, "/special-prices/"+url.PathEscape(id), &env); err != nil {
		return nil, err
	}
	sp := env.Data.toDomain()
	return &sp, nil
}

// Create creates a new aggregate with its first price override.
func (r *SpecialPriceRepository) Create(ctx context.Context, req pricing.CreateSpecialPrice) (*pricing.Status, error) {
	body := createSpecialPriceDTO{
		Name:         req.Name,
		Email:        req.Email,
		ProductID:    req.ProductID,
		SpecialPrice: req.Price.InexactFloat64(),
	}
	var env envelope[*specialPriceDTO]
	if err := r.client.Post(ctx, "/special-prices", body, &env); err != nil {
		return nil, err
	}
	return statusFromEnvelope(env), nil
}

// AddProduct adds one more price override to an existing aggregate.
func (r *SpecialPriceRepository) AddProduct(ctx context.Context, req pricing.UpdateSpecialPrice) (*pricing.Status, error) {
	body := addProductDTO{
		ID:           req.ID,
		ProductID:    req.ProductID,
		SpecialPrice: req.Price.InexactFloat64(),
	}
	var env envelope[*specialPriceDTO]
	if err := r.client.Put(ctx, "/special-prices/add-special-price", body, &env); err != nil {
		return nil, err
	}
	return statusFromEnvelope(env), nil
}

// UpdateProduct replaces the price of one existing override on an aggregate.
func (r *SpecialPriceRepository) UpdateProduct(ctx context.Context, id, productID string, price decimal.Decimal) (*pricing.Status, error) {
	body := updateEntryDTO{
		ProductID:    productID,
		SpecialPrice: price.InexactFloat64(),
	}
	var env envelope[*specialPriceDTO]
	if err := r.client.Put(ctx, "/special-prices/"+url.PathEscape(id), body, &env); err != nil {
		return nil, err
	}
	return statusFromEnvelope(env), nil
}

// Delete removes an entire aggregate. The backend returns no envelope body
// worth surfacing here.
func (r *SpecialPriceRepository) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, "/special-prices/"+url.PathEscape(id), nil, nil)
}

// DeleteProduct removes exactly one (aggregate, product) override. The
// backend expects the product ID both in the query string and in the body.
func (r *SpecialPriceRepository) DeleteProduct(ctx context.Context, id, productID string) (*pricing.Status, error) {
	path := "/special-prices/delete-product-special-price/" + url.PathEscape(id) +
		"?productId=" + url.QueryEscape(productID)
	var env envelope[*specialPriceDTO]
	if err := r.client.Delete(ctx, path, deleteProductDTO{ProductID: productID}, &env); err != nil {
		return nil, err
	}
	return statusFromEnvelope(env), nil
}
