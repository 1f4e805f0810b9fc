package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FeaturedCount is the number of products shown on the home page
const FeaturedCount = 8

// ProductResponse is a product with its computed discount
type ProductResponse struct {
	domain.Product
	DiscountPercent int `json:"discountPercent"`
}

// ProductListResponse is a page of catalog results
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Count    int               `json:"count"`
	MaxPrice float64           `json:"maxPrice"`
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{Product: p, DiscountPercent: p.DiscountPercent()}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

// ProductHandler serves the public catalog
type ProductHandler struct {
	catalog store.CatalogStore
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog store.CatalogStore, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/featured", h.Featured)
		r.Get("/suggestions", h.Suggestions)
		r.Get("/{id}", h.GetProduct)
	})
	r.Get("/categories", h.Categories)
	r.Get("/brands", h.Brands)
}

// ListProducts searches, filters and sorts the catalog
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query, err := parseProductQuery(r.URL.Query())
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products := h.catalog.Query(query)
	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: toProductResponses(products),
		Count:    len(products),
		MaxPrice: h.catalog.MaxPrice(),
	})
}

func parseProductQuery(values url.Values) (store.ProductQuery, error) {
	query := store.ProductQuery{
		Search:   values.Get("search"),
		Category: values.Get("category"),
		Brand:    values.Get("brand"),
		Sort:     store.SortOrder(values.Get("sort")),
	}

	switch query.Sort {
	case "", store.SortDefault, store.SortPriceLow, store.SortPriceHigh, store.SortRating, store.SortName:
	default:
		return query, errors.New("invalid sort")
	}

	for name, dst := range map[string]**float64{"minPrice": &query.MinPrice, "maxPrice": &query.MaxPrice} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, fmt.Errorf("invalid %s", name)
		}
		*dst = &v
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return query, errors.New("invalid limit")
		}
		query.Limit = limit
	}

	return query, nil
}

// Featured returns the first products of the catalog for the home page
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Query(store.ProductQuery{Limit: FeaturedCount})
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponses(products))
}

// Suggestions powers the header search box
func (h *ProductHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	products := h.catalog.Suggestions(r.URL.Query().Get("q"), limit)
	middleware.RespondWithJSON(w, http.StatusOK, toProductResponses(products))
}

// GetProduct returns a single product
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProductByID(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.Categories())
}

func (h *ProductHandler) Brands(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.Brands())
}
