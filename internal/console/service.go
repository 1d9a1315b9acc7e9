// Package console implements the admin use cases: dashboard aggregation,
// enriched listings, and the create/update/delete flows that always refetch
// after mutating.
package console

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pricedesk/internal/backend"
	"pricedesk/internal/domain/catalog"
	"pricedesk/internal/domain/pricing"
	"pricedesk/internal/fetch"
)

// productNotFound is shown for overrides whose product vanished from the
// catalog. The reference is weak; nothing cascades.
const productNotFound = "product not found"

type updateArgs struct {
	id        string
	productID string
	price     decimal.Decimal
}

type removeArgs struct {
	id        string
	productID string
}

// Service composes the backend repositories with the shared read resources
// and the mutation triggers. One instance serves all requests.
type Service struct {
	products catalog.Repository
	prices   pricing.Repository

	productList *fetch.Resource[[]catalog.Product]
	priceList   *fetch.Resource[[]pricing.SpecialPrice]

	create        *fetch.Mutation[pricing.CreateSpecialPrice, *pricing.Status]
	addProduct    *fetch.Mutation[pricing.UpdateSpecialPrice, *pricing.Status]
	update        *fetch.Mutation[updateArgs, *pricing.Status]
	remove        *fetch.Mutation[string, struct{}]
	removeProduct *fetch.Mutation[removeArgs, *pricing.Status]
}

// NewService creates a Service. refresh > 0 enables background revalidation
// of the list resources via Run.
func NewService(products catalog.Repository, prices pricing.Repository, refresh time.Duration) *Service {
	s := &Service{products: products, prices: prices}
	opts := fetch.Options{RefreshInterval: refresh}

	s.productList = fetch.NewResource(fetch.StaticKey("products"),
		func(ctx context.Context, _ string) ([]catalog.Product, error) {
			return products.List(ctx)
		}, opts)
	s.priceList = fetch.NewResource(fetch.StaticKey("special-prices"),
		func(ctx context.Context, _ string) ([]pricing.SpecialPrice, error) {
			return prices.List(ctx)
		}, opts)

	s.create = fetch.NewMutation(func(ctx context.Context, req pricing.CreateSpecialPrice) (*pricing.Status, error) {
		return prices.Create(ctx, req)
	})
	s.addProduct = fetch.NewMutation(func(ctx context.Context, req pricing.UpdateSpecialPrice) (*pricing.Status, error) {
		return prices.AddProduct(ctx, req)
	})
	s.update = fetch.NewMutation(func(ctx context.Context, args updateArgs) (*pricing.Status, error) {
		return prices.UpdateProduct(ctx, args.id, args.productID, args.price)
	})
	s.remove = fetch.NewMutation(func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, prices.Delete(ctx, id)
	})
	s.removeProduct = fetch.NewMutation(func(ctx context.Context, args removeArgs) (*pricing.Status, error) {
		return prices.DeleteProduct(ctx, args.id, args.productID)
	})

	return s
}

// Run drives background revalidation of the list resources until ctx ends.
// It returns immediately when polling is disabled.
func (s *Service) Run(ctx context.Context) {
	go s.productList.Run(ctx)
	s.priceList.Run(ctx)
}

// Dashboard aggregates the stat-card numbers for the landing view.
type Dashboard struct {
	TotalProducts int `json:"totalProducts"`
	TotalUsers    int `json:"totalUsers"`
	TotalEntries  int `json:"totalSpecialPrices"`
}

// Dashboard returns catalog size, user count, and the number of price
// overrides across all aggregates.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	products, err := s.productList.Load(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := s.priceList.Load(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{}
	if products != nil {
		d.TotalProducts = len(*products)
	}
	if prices != nil {
		d.TotalUsers = len(*prices)
		d.TotalEntries = pricing.TotalEntries(*prices)
	}
	return d, nil
}

// ProductView is a catalog product prepared for JSON display.
type ProductView struct {
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

func productView(p catalog.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Category:    p.Category,
		Brand:       p.Brand,
		Description: p.Description,
		SKU:         p.SKU,
		Stock:       p.Stock,
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ListProducts returns the cached catalog.
func (s *Service) ListProducts(ctx context.Context) ([]ProductView, error) {
	products, err := s.productList.Load(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		return nil, nil
	}
	out := make([]ProductView, len(*products))
	for i, p := range *products {
		out[i] = productView(p)
	}
	return out, nil
}

// GetProduct fetches one product directly from the backend.
func (s *Service) GetProduct(ctx context.Context, id string) (*ProductView, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := productView(*p)
	return &v, nil
}

// EntryView is one price override joined with its product and the derived
// discount.
type EntryView struct {
	ID            string  `json:"_id"`
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	SpecialPrice  float64 `json:"specialPrice"`
	Discount      int     `json:"discount"`
	DiscountLabel string  `json:"discountLabel"`
}

// PriceView is one aggregate prepared for display.
type PriceView struct {
	ID        string      `json:"_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Products  []EntryView `json:"products"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ListSpecialPrices returns aggregates whose user name or email contains
// search (case-insensitive; empty matches everything), entries joined with
// the catalog.
func (s *Service) ListSpecialPrices(ctx context.Context, search string) ([]PriceView, error) {
	prices, err := s.priceList.Load(ctx)
	if err != nil {
		return nil, err
	}
	byID, err := s.productIndex(ctx)
	if err != nil {
		return nil, err
	}

	filter := strings.ToLower(search)
	views := make([]PriceView, 0)
	if prices == nil {
		return views, nil
	}
	for _, sp := range *prices {
		if filter != "" &&
			!strings.Contains(strings.ToLower(sp.Name), filter) &&
			!strings.Contains(strings.ToLower(sp.Email), filter) {
			continue
		}
		views = append(views, priceView(sp, byID))
	}
	return views, nil
}

// GetSpecialPrice fetches one aggregate directly from the backend and joins
// it with the catalog.
func (s *Service) GetSpecialPrice(ctx context.Context, id string) (*PriceView, error) {
	sp, err := s.prices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	byID, err := s.productIndex(ctx)
	if err != nil {
		return nil, err
	}
	v := priceView(*sp, byID)
	return &v, nil
}

func (s *Service) productIndex(ctx context.Context) (map[string]catalog.Product, error) {
	products, err := s.productList.Load(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalog.Product)
	if products != nil {
		for _, p := range *products {
			byID[p.ID] = p
		}
	}
	return byID, nil
}

func priceView(sp pricing.SpecialPrice, byID map[string]catalog.Product) PriceView {
	v := PriceView{
		ID:        sp.ID,
		Name:      sp.Name,
		Email:     sp.Email,
		Products:  make([]EntryView, len(sp.Products)),
		CreatedAt: sp.CreatedAt,
		UpdatedAt: sp.UpdatedAt,
	}
	for i, e := range sp.Products {
		entry := EntryView{
			ID:           e.ID,
			ProductID:    e.ProductID,
			ProductName:  productNotFound,
			SpecialPrice: e.Price.InexactFloat64(),
		}
		if p, ok := byID[e.ProductID]; ok {
			entry.ProductName = p.Name
			if !p.Price.IsZero() {
				entry.Discount = pricing.Discount(p.Price, e.Price)
			}
		}
		entry.DiscountLabel = pricing.DiscountLabel(entry.Discount)
		v.Products[i] = entry
	}
	return v
}

// Create validates the new-user form, creates the aggregate, and refetches
// the special-price list so the next read reflects the server state.
func (s *Service) Create(ctx context.Context, form NewUserForm) (*pricing.Status, error) {
	if err := checkForm(form); err != nil {
		return nil, err
	}
	st, err := s.create.Trigger(ctx, pricing.CreateSpecialPrice{
		Name:      form.Name,
		Email:     form.Email,
		ProductID: form.ProductID,
		Price:     decimal.NewFromFloat(form.Price),
	})
	if err != nil {
		return nil, err
	}
	if !st.Success {
		return nil, failure(st, "failed to create special price")
	}
	s.refetchPrices(ctx)
	return st, nil
}

// AddProduct validates the existing-user form and extends the aggregate with
// one more override.
func (s *Service) AddProduct(ctx context.Context, form ExistingUserForm) (*pricing.Status, error) {
	if err := checkForm(form); err != nil {
		return nil, err
	}
	st, err := s.addProduct.Trigger(ctx, pricing.UpdateSpecialPrice{
		ID:        form.UserID,
		ProductID: form.ProductID,
		Price:     decimal.NewFromFloat(form.Price),
	})
	if err != nil {
		return nil, err
	}
	if !st.Success {
		return nil, failure(st, "failed to add product to special price")
	}
	s.refetchPrices(ctx)
	return st, nil
}

// PriceUpdate is the outcome of an update flow: the backend status plus how
// the accepted price compares with the previous one.
type PriceUpdate struct {
	Status *pricing.Status
	// Change renders the difference against the previous override, e.g.
	// "20.00% MORE". Empty when no preview was possible.
	Change string
}

// UpdatePrice validates the form, parses the possibly "."-separated price
// string, and replaces the price of one existing override.
func (s *Service) UpdatePrice(ctx context.Context, form UpdatePriceForm) (*PriceUpdate, error) {
	if err := checkForm(form); err != nil {
		return nil, err
	}

	digits := pricing.DigitsOnly(form.Price)
	if digits == "" {
		return nil, &ValidationError{Fields: map[string]string{"price": "price must be greater than 0"}}
	}
	price, err := decimal.NewFromString(digits)
	if err != nil || !price.IsPositive() {
		return nil, &ValidationError{Fields: map[string]string{"price": "price must be greater than 0"}}
	}

	current, err := s.prices.GetByID(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	entry, ok := current.Product(form.ProductID)
	if !ok {
		return nil, errors.Wrapf(pricing.ErrEntryNotFound, "special price %s", form.ID)
	}

	st, err := s.update.Trigger(ctx, updateArgs{id: form.ID, productID: form.ProductID, price: price})
	if err != nil {
		return nil, err
	}
	if !st.Success {
		return nil, failure(st, "failed to update special price")
	}
	s.refetchPrices(ctx)

	result := &PriceUpdate{Status: st}
	if pct, ok := pricing.PriceChange(entry.Price, price); ok {
		result.Change = pricing.ChangeLabel(pct)
	}
	return result, nil
}

// Delete removes an entire aggregate.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.remove.Trigger(ctx, id); err != nil {
		return err
	}
	s.refetchPrices(ctx)
	return nil
}

// DeleteProduct removes exactly one override, leaving the aggregate and all
// other entries untouched.
func (s *Service) DeleteProduct(ctx context.Context, id, productID string) (*pricing.Status, error) {
	st, err := s.removeProduct.Trigger(ctx, removeArgs{id: id, productID: productID})
	if err != nil {
		return nil, err
	}
	if !st.Success {
		return nil, failure(st, "failed to delete special price")
	}
	s.refetchPrices(ctx)
	return st, nil
}

// refetchPrices revalidates the special-price list after a successful
// mutation. The mutation already succeeded, so a failed refetch only logs;
// the next read will try again.
func (s *Service) refetchPrices(ctx context.Context) {
	if _, err := s.priceList.Refetch(ctx); err != nil {
		zctx.From(ctx).Warn("Refetch after mutation failed", zap.Error(err))
	}
}

// failure converts an envelope with success=false into the normalized error
// shape, preferring the backend's own message.
func failure(st *pricing.Status, fallback string) error {
	msg := st.Message
	if msg == "" {
		msg = fallback
	}
	return &backend.Error{Message: msg}
}
