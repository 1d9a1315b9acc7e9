package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricedesk/internal/backend"
	"pricedesk/internal/console"
	"pricedesk/internal/domain/catalog"
	"pricedesk/internal/domain/pricing"
)

type stubRepos struct {
	products []catalog.Product
	prices   []pricing.SpecialPrice

	status    *pricing.Status
	deleted   []string
	lastPrice decimal.Decimal
}

func (s *stubRepos) List(ctx context.Context) ([]catalog.Product, error) {
	return s.products, nil
}

func (s *stubRepos) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &backend.Error{Message: "Product not found", Status: 404}
}

type stubPrices struct {
	*stubRepos
}

func (s stubPrices) List(ctx context.Context) ([]pricing.SpecialPrice, error) {
	return s.prices, nil
}

func (s stubPrices) GetByID(ctx context.Context, id string) (*pricing.SpecialPrice, error) {
	for _, sp := range s.prices {
		if sp.ID == id {
			return &sp, nil
		}
	}
	return nil, &backend.Error{Message: "Special price not found", Status: 404}
}

func (s stubPrices) Create(ctx context.Context, req pricing.CreateSpecialPrice) (*pricing.Status, error) {
	s.lastPrice = req.Price
	return s.status, nil
}

func (s stubPrices) AddProduct(ctx context.Context, req pricing.UpdateSpecialPrice) (*pricing.Status, error) {
	return s.status, nil
}

func (s stubPrices) UpdateProduct(ctx context.Context, id, productID string, price decimal.Decimal) (*pricing.Status, error) {
	s.stubRepos.lastPrice = price
	return s.status, nil
}

func (s stubPrices) Delete(ctx context.Context, id string) error {
	s.stubRepos.deleted = append(s.stubRepos.deleted, id)
	return nil
}

func (s stubPrices) DeleteProduct(ctx context.Context, id, productID string) (*pricing.Status, error) {
	s.stubRepos.deleted = append(s.stubRepos.deleted, id+"/"+productID)
	return s.status, nil
}

func newTestMux(repos *stubRepos) *http.ServeMux {
	svc := console.NewService(repos, stubPrices{repos}, 0)
	mux := http.NewServeMux()
	NewHandler(svc).Routes(mux)
	return mux
}

func fixtureRepos() *stubRepos {
	return &stubRepos{
		products: []catalog.Product{
			{ID: "p1", Name: "Laptop Pro", Price: decimal.NewFromInt(100)},
			{ID: "p2", Name: "Mouse", Price: decimal.NewFromInt(25)},
		},
		prices: []pricing.SpecialPrice{
			{
				ID: "sp1", Name: "Ana Torres", Email: "ana@example.com",
				Products: []pricing.ProductPrice{{ID: "e1", ProductID: "p1", Price: decimal.NewFromInt(50)}},
			},
		},
		status: &pricing.Status{Success: true, Message: "done"},
	}
}

func doRequest(t *testing.T, mux *http.ServeMux, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestHandler_Dashboard(t *testing.T) {
	mux := newTestMux(fixtureRepos())

	rec, envelope := doRequest(t, mux, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := envelope["data"].(map[string]any)
	assert.Equal(t, 2.0, data["totalProducts"])
	assert.Equal(t, 1.0, data["totalUsers"])
	assert.Equal(t, 1.0, data["totalSpecialPrices"])
}

func TestHandler_ListSpecialPrices(t *testing.T) {
	mux := newTestMux(fixtureRepos())

	rec, envelope := doRequest(t, mux, http.MethodGet, "/api/special-prices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])

	views := envelope["data"].([]any)
	require.Len(t, views, 1)
	entry := views[0].(map[string]any)["products"].([]any)[0].(map[string]any)
	assert.Equal(t, "Laptop Pro", entry["productName"])
	assert.Equal(t, "50% OFF", entry["discountLabel"])
}

func TestHandler_ListSpecialPrices_Search(t *testing.T) {
	mux := newTestMux(fixtureRepos())

	rec, envelope := doRequest(t, mux, http.MethodGet, "/api/special-prices?search=nobody", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, envelope["data"])
}

func TestHandler_GetProduct_NotFound(t *testing.T) {
	mux := newTestMux(fixtureRepos())

	rec, envelope := doRequest(t, mux, http.MethodGet, "/api/products/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Product not found", envelope["message"])
}

func TestHandler_Create(t *testing.T) {
	mux := newTestMux(fixtureRepos())

	rec, envelope := doRequest(t, mux, http.MethodPost, "/api/special-prices",
		`{"name":"Diana Prince","email":"diana@example.com","productId":"p2","price":20}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "done", envelope["message"])
}

func TestHandler_Create_Validation(t *testing.T) {
	mux := newTestMux(fixtureRepos())

	rec, envelope := doRequest(t, mux, http.MethodPost, "/api/special-prices",
		`{"name":"Di","email":"bad","productId":"","price":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, envelope["success"])

	fields := envelope["fields"].(map[string]any)
	assert.Equal(t, "name must be at least 3 characters", fields["name"])
	assert.Equal(t, "invalid email", fields["email"])
}

func TestHandler_Create_BadBody(t *testing.T) {
	mux := newTestMux(fixtureRepos())

	rec, envelope := doRequest(t, mux, http.MethodPost, "/api/special-prices", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", envelope["message"])
}

func TestHandler_AddProduct(t *testing.T) {
	mux := newTestMux(fixtureRepos())

	rec, envelope := doRequest(t, mux, http.MethodPut, "/api/special-prices/add-product",
		`{"userId":"sp1","productId":"p2","price":15}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
}

func TestHandler_UpdatePrice(t *testing.T) {
	repos := fixtureRepos()
	mux := newTestMux(repos)

	rec, envelope := doRequest(t, mux, http.MethodPut, "/api/special-prices/sp1",
		`{"productId":"p1","price":"60"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := envelope["data"].(map[string]any)
	assert.Equal(t, "20.00% MORE", data["change"])
	assert.True(t, repos.lastPrice.Equal(decimal.NewFromInt(60)))
}

func TestHandler_UpdatePrice_EntryMissing(t *testing.T) {
	mux := newTestMux(fixtureRepos())

	rec, envelope := doRequest(t, mux, http.MethodPut, "/api/special-prices/sp1",
		`{"productId":"p2","price":"60"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, envelope["success"])
	assert.Contains(t, envelope["message"], "no special price entry")
}

func TestHandler_Delete(t *testing.T) {
	repos := fixtureRepos()
	mux := newTestMux(repos)

	rec, envelope := doRequest(t, mux, http.MethodDelete, "/api/special-prices/sp1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, []string{"sp1"}, repos.deleted)
}

func TestHandler_DeleteProduct(t *testing.T) {
	repos := fixtureRepos()
	mux := newTestMux(repos)

	rec, envelope := doRequest(t, mux, http.MethodDelete, "/api/special-prices/sp1/products/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, []string{"sp1/p1"}, repos.deleted)
}

func TestHandler_BackendFailure(t *testing.T) {
	repos := fixtureRepos()
	repos.status = &pricing.Status{Success: false, Message: "Email already registered"}
	mux := newTestMux(repos)

	rec, envelope := doRequest(t, mux, http.MethodPost, "/api/special-prices",
		`{"name":"Diana Prince","email":"diana@example.com","productId":"p2","price":20}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Email already registered", envelope["message"])
}
