package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// WishlistRequest names the catalog product to save
type WishlistRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
}

type WishlistResponse struct {
	Items []ProductResponse `json:"items"`
	Count int               `json:"count"`
}

type ToggleResponse struct {
	ProductID  int64 `json:"productId"`
	InWishlist bool  `json:"inWishlist"`
}

// WishlistHandler serves the wishlist
type WishlistHandler struct {
	wishlist store.WishlistStore
	catalog  store.CatalogStore
	logger   *zap.Logger
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlist store.WishlistStore, catalog store.CatalogStore, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlist: wishlist,
		catalog:  catalog,
		logger:   logger,
	}
}

// RegisterRoutes registers all wishlist routes
func (h *WishlistHandler) RegisterRoutes(r chi.Router) {
	r.Route("/wishlist", func(r chi.Router) {
		r.Get("/", h.GetWishlist)
		r.Post("/", h.AddItem)
		r.Post("/{productId}/toggle", h.Toggle)
		r.Delete("/{productId}", h.RemoveItem)
	})
}

func (h *WishlistHandler) respondWithWishlist(w http.ResponseWriter) {
	items := h.wishlist.Items()
	middleware.RespondWithJSON(w, http.StatusOK, WishlistResponse{
		Items: toProductResponses(items),
		Count: len(items),
	})
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	h.respondWithWishlist(w)
}

func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req WishlistRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product, ok := h.catalog.Product(req.ProductID)
	if !ok {
		middleware.RespondWithStoreError(w, domain.ErrProductNotFound, h.logger)
		return
	}

	if err := h.wishlist.AddToWishlist(r.Context(), product); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	h.respondWithWishlist(w)
}

// Toggle flips wishlist membership. Removing works even when the product has
// since left the catalog.
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	product, inCatalog := h.catalog.Product(productID)
	if !inCatalog {
		if !h.wishlist.IsInWishlist(productID) {
			middleware.RespondWithStoreError(w, domain.ErrProductNotFound, h.logger)
			return
		}
		product = domain.Product{ID: productID}
	}

	inWishlist, err := h.wishlist.ToggleWishlist(r.Context(), product)
	if err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ToggleResponse{ProductID: productID, InWishlist: inWishlist})
}

func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	if err := h.wishlist.RemoveFromWishlist(r.Context(), productID); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	h.respondWithWishlist(w)
}
