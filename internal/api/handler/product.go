package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/daap14/stockroom/internal/api/middleware"
	"github.com/daap14/stockroom/internal/api/response"
	"github.com/daap14/stockroom/internal/product"
)

type productRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	Category    string           `json:"category"`
}

func (req productRequest) input() product.Input {
	return product.Input{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    req.Category,
	}
}

type productResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Quantity    int         `json:"quantity"`
	Category    string      `json:"category"`
	CreatedBy   string      `json:"createdBy"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       json.Number(p.Price.String()),
		Quantity:    p.Quantity,
		Category:    p.Category,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:   p.UpdatedAt.UTC().Format(timeFormat),
	}
}

func toProductList(products []product.Product) []productResponse {
	items := make([]productResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return items
}

// ProductHandler handles the /api/products endpoints.
type ProductHandler struct {
	svc *product.Service
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err, "list products")
		return
	}
	items := toProductList(products)
	response.SuccessList(w, http.StatusOK, items, len(items), middleware.GetRequestID(r.Context()))
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "get product")
		return
	}
	response.Success(w, http.StatusOK, toProductResponse(p), middleware.GetRequestID(r.Context()))
}

// ListByCategory handles GET /api/products/category/{category}.
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, r, err, "list products by category")
		return
	}
	items := toProductList(products)
	response.SuccessList(w, http.StatusOK, items, len(items), middleware.GetRequestID(r.Context()))
}

// Search handles GET /api/products/search?name=. The name parameter is
// required; an empty value matches every product.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("name") {
		response.Err(w, http.StatusBadRequest, "INVALID_QUERY", "name query parameter is required", middleware.GetRequestID(r.Context()))
		return
	}

	products, err := h.svc.Search(r.Context(), query.Get("name"))
	if err != nil {
		writeError(w, r, err, "search products")
		return
	}
	items := toProductList(products)
	response.SuccessList(w, http.StatusOK, items, len(items), middleware.GetRequestID(r.Context()))
}

// Create handles POST /api/products. createdBy is taken from the caller's token.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}

	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Create(r.Context(), req.input(), identity)
	if err != nil {
		writeError(w, r, err, "create product")
		return
	}
	response.Success(w, http.StatusCreated, toProductResponse(p), middleware.GetRequestID(r.Context()))
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err, "update product")
		return
	}
	response.Success(w, http.StatusOK, toProductResponse(p), middleware.GetRequestID(r.Context()))
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "delete product")
		return
	}
	response.NoContent(w)
}

// SetQuantity handles PATCH /api/products/{id}/quantity?quantity=N.
func (h *ProductHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("quantity")))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_QUANTITY", "quantity must be an integer", requestID)
		return
	}

	p, err := h.svc.SetQuantity(r.Context(), id, quantity)
	if err != nil {
		writeError(w, r, err, "set product quantity")
		return
	}
	response.Success(w, http.StatusOK, toProductResponse(p), requestID)
}
