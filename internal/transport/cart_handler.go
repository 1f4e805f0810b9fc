package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToCartRequest adds a catalog product to the cart. Quantity defaults to 1.
type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  *int  `json:"quantity"`
}

// UpdateQuantityRequest sets a line quantity. Zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartResponse is the cart with its derived totals
type CartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

// CartHandler serves the shopping cart
type CartHandler struct {
	cart    store.CartStore
	catalog store.CatalogStore
	logger  *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart store.CartStore, catalog store.CatalogStore, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cart:    cart,
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productId}", h.UpdateItem)
		r.Delete("/items/{productId}", h.RemoveItem)
	})
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, status int) {
	middleware.RespondWithJSON(w, status, CartResponse{
		Lines: h.cart.Lines(),
		Total: h.cart.GetCartTotal(),
		Count: h.cart.GetCartItemsCount(),
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondWithCart(w, http.StatusOK)
}

// AddItem snapshots the current catalog product into the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product, ok := h.catalog.Product(req.ProductID)
	if !ok {
		middleware.RespondWithStoreError(w, domain.ErrProductNotFound, h.logger)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := h.cart.AddToCart(r.Context(), product, quantity); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), productID, *req.Quantity); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	if err := h.cart.RemoveFromCart(r.Context(), productID); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, http.StatusOK)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context()); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, http.StatusOK)
}
