package backend

import (
	"time"

	"github.com/shopspring/decimal"

	"pricedesk/internal/domain/catalog"
	"pricedesk/internal/domain/pricing"
)

// envelope is the uniform wrapper every backend response uses.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Wire DTOs mirror the backend JSON exactly, Mongo-style "_id" keys and
// float prices included. Domain types never leak wire concerns.

type productDTO struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Description string    `json:"description"`
	SKU         string    `json:"sku"`
	Stock       int       `json:"stock"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d productDTO) toDomain() catalog.Product {
	return catalog.Product{
		ID:          d.ID,
		Name:        d.Name,
		Price:       decimal.NewFromFloat(d.Price),
		Category:    d.Category,
		Brand:       d.Brand,
		Description: d.Description,
		SKU:         d.SKU,
		Stock:       d.Stock,
		Tags:        d.Tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type productPriceDTO struct {
	ID           string  `json:"_id"`
	ProductID    string  `json:"productId"`
	SpecialPrice float64 `json:"specialPrice"`
}

type specialPriceDTO struct {
	ID        string            `json:"_id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Products  []productPriceDTO `json:"products"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (d specialPriceDTO) toDomain() pricing.SpecialPrice {
	sp := pricing.SpecialPrice{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if len(d.Products) > 0 {
		sp.Products = make([]pricing.ProductPrice, len(d.Products))
		for i, p := range d.Products {
			sp.Products[i] = pricing.ProductPrice{
				ID:        p.ID,
				ProductID: p.ProductID,
				Price:     decimal.NewFromFloat(p.SpecialPrice),
			}
		}
	}
	return sp
}

type createSpecialPriceDTO struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	ProductID    string  `json:"productId"`
	SpecialPrice float64 `json:"specialPrice"`
}

// addProductDTO extends an existing aggregate; the target aggregate travels
// in the body, not the path.
type addProductDTO struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"productId"`
	SpecialPrice float64 `json:"specialPrice"`
}

type updateEntryDTO struct {
	ProductID    string  `json:"productId"`
	SpecialPrice float64 `json:"specialPrice"`
}

type deleteProductDTO struct {
	ProductID string `json:"productId"`
}

// statusFromEnvelope lifts a mutation envelope into the domain Status shape.
func statusFromEnvelope(env envelope[*specialPriceDTO]) *pricing.Status {
	st := &pricing.Status{Success: env.Success, Message: env.Message}
	if env.Data != nil {
		sp := env.Data.toDomain()
		st.Price = &sp
	}
	return st
}
