// Package handler exposes the admin console over HTTP: dashboard stats,
// catalog reads, and the special-price flows, all wrapped in one JSON
// envelope.
package handler

import (
	"net/http"

	"pricedesk/internal/console"
)

// Handler serves the admin API, delegating every operation to the console
// service.
type Handler struct {
	console *console.Service
}

// NewHandler constructs a Handler around the console service.
func NewHandler(svc *console.Service) *Handler {
	return &Handler{console: svc}
}

// Routes registers the admin API on mux under /api.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", h.dashboard)
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("GET /api/special-prices", h.listSpecialPrices)
	mux.HandleFunc("GET /api/special-prices/{id}", h.getSpecialPrice)
	mux.HandleFunc("POST /api/special-prices", h.createSpecialPrice)
	mux.HandleFunc("PUT /api/special-prices/add-product", h.addProduct)
	mux.HandleFunc("PUT /api/special-prices/{id}", h.updatePrice)
	mux.HandleFunc("DELETE /api/special-prices/{id}", h.deleteSpecialPrice)
	mux.HandleFunc("DELETE /api/special-prices/{id}/products/{productID}", h.deleteProduct)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.console.Dashboard(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, stats)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.console.ListProducts(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if products == nil {
		products = []console.ProductView{}
	}
	ok(w, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.console.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, product)
}

func (h *Handler) listSpecialPrices(w http.ResponseWriter, r *http.Request) {
	views, err := h.console.ListSpecialPrices(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, views)
}

func (h *Handler) getSpecialPrice(w http.ResponseWriter, r *http.Request) {
	view, err := h.console.GetSpecialPrice(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, view)
}

func (h *Handler) createSpecialPrice(w http.ResponseWriter, r *http.Request) {
	var form console.NewUserForm
	if err := decodeBody(r, &form); err != nil {
		fail(w, r, err)
		return
	}
	st, err := h.console.Create(r.Context(), form)
	if err != nil {
		fail(w, r, err)
		return
	}
	okMessage(w, st.Message, nil)
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var form console.ExistingUserForm
	if err := decodeBody(r, &form); err != nil {
		fail(w, r, err)
		return
	}
	st, err := h.console.AddProduct(r.Context(), form)
	if err != nil {
		fail(w, r, err)
		return
	}
	okMessage(w, st.Message, nil)
}

type updatePriceBody struct {
	ProductID string `json:"productId"`
	Price     string `json:"price"`
}

type updatePriceResult struct {
	Change string `json:"change,omitempty"`
}

func (h *Handler) updatePrice(w http.ResponseWriter, r *http.Request) {
	var body updatePriceBody
	if err := decodeBody(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	res, err := h.console.UpdatePrice(r.Context(), console.UpdatePriceForm{
		ID:        r.PathValue("id"),
		ProductID: body.ProductID,
		Price:     body.Price,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	okMessage(w, res.Status.Message, updatePriceResult{Change: res.Change})
}

func (h *Handler) deleteSpecialPrice(w http.ResponseWriter, r *http.Request) {
	if err := h.console.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}
	okMessage(w, "special price deleted", nil)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	st, err := h.console.DeleteProduct(r.Context(), r.PathValue("id"), r.PathValue("productID"))
	if err != nil {
		fail(w, r, err)
		return
	}
	okMessage(w, st.Message, nil)
}
