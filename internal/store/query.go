package store

import (
	"cmp"
	"slices"
	"strings"

	"storefront/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder selects the ordering of a catalog query
type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
	SortName      SortOrder = "name"
)

// AllFilter matches any category or brand
const AllFilter = "All"

// DefaultSuggestionLimit is used when Suggestions is called with limit <= 0
const DefaultSuggestionLimit = 5

// ProductQuery filters and orders the catalog. Zero values match everything.
type ProductQuery struct {
	Search   string
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Sort     SortOrder
	Limit    int
}

func (q ProductQuery) matches(p domain.Product) bool {
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !containsFold(p.Name, term) && !containsFold(p.Description, term) && !containsFold(p.Brand, term) {
			return false
		}
	}
	if q.Category != "" && q.Category != AllFilter && p.Category != q.Category {
		return false
	}
	if q.Brand != "" && q.Brand != AllFilter && p.Brand != q.Brand {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	return true
}

// Query returns the products matching q in the requested order
func (s *catalogStore) Query(q ProductQuery) []domain.Product {
	products := s.Products()

	out := products[:0]
	for _, p := range products {
		if q.matches(p) {
			out = append(out, p)
		}
	}

	sortProducts(out, q.Sort)

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func sortProducts(products []domain.Product, order SortOrder) {
	switch order {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortRating:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortName:
		c := collate.New(language.English)
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return c.CompareString(a.Name, b.Name)
		})
	}
}

// Suggestions returns up to limit products whose name, brand or category
// contains term. A blank term yields nothing.
func (s *catalogStore) Suggestions(term string, limit int) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	out := make([]domain.Product, 0, limit)
	for _, p := range s.Products() {
		if containsFold(p.Name, term) || containsFold(p.Brand, term) || containsFold(p.Category, term) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// containsFold reports whether s contains the already lowercased term
func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), term)
}
