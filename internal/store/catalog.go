package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/storage"

	"go.uber.org/zap"
)

// CatalogStore owns the product catalog
type CatalogStore interface {
	AddProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) error
	DeleteProduct(ctx context.Context, id int64) error
	GetProductByID(id string) (domain.Product, error)
	Product(id int64) (domain.Product, bool)
	Products() []domain.Product
	Categories() []string
	Brands() []string
	Query(q ProductQuery) []domain.Product
	Suggestions(term string, limit int) []domain.Product
	MaxPrice() float64
	Subscribe(fn Listener) (unsubscribe func())
}

type catalogStore struct {
	observers

	mu       sync.Mutex
	storage  *storage.Store
	ids      *idGenerator
	logger   *zap.Logger
	products []domain.Product
}

// NewCatalogStore hydrates the catalog from st. The seed catalog replaces a
// persisted one that is missing, malformed or shorter than the seed.
func NewCatalogStore(ctx context.Context, st *storage.Store, logger *zap.Logger) (CatalogStore, error) {
	s := &catalogStore{
		storage: st,
		logger:  logger.Named("catalog"),
	}

	seed := domain.SeedProducts()
	var persisted []domain.Product
	if st.Load(ctx, storage.KeyProducts, &persisted) && len(persisted) >= len(seed) {
		s.products = persisted
	} else {
		s.logger.Info("Using seed catalog", zap.Int("persisted", len(persisted)), zap.Int("seed", len(seed)))
		s.products = seed
	}
	s.ids = newIDGenerator(maxProductID(s.products))

	if err := st.Save(ctx, storage.KeyProducts, s.products); err != nil {
		return nil, fmt.Errorf("failed to initialize catalog: %w", err)
	}

	return s, nil
}

// AddProduct creates a product, filling in catalog defaults for the optional
// fields
func (s *catalogStore) AddProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	product, err := s.add(ctx, input)
	if err != nil {
		return domain.Product{}, err
	}
	s.notify()
	return product, nil
}

func (s *catalogStore) add(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := newProduct(s.ids.Next(), input)

	products := append(cloneProducts(s.products), product)
	if err := s.storage.Save(ctx, storage.KeyProducts, products); err != nil {
		return domain.Product{}, err
	}
	s.products = products

	s.logger.Info("Product created", zap.Int64("product_id", product.ID))
	return product.Clone(), nil
}

func newProduct(id int64, input domain.ProductInput) domain.Product {
	product := domain.Product{
		ID:               id,
		Name:             input.Name,
		Category:         input.Category,
		Brand:            input.Brand,
		Price:            input.Price,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Images:           append([]string(nil), input.Images...),
		InStock:          true,
		Rating:           domain.DefaultRating,
	}

	if input.OriginalPrice != nil {
		orig := *input.OriginalPrice
		product.OriginalPrice = &orig
	}
	if len(product.Images) == 0 {
		product.Images = []string{domain.PlaceholderImage}
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.Rating != nil && *input.Rating != 0 {
		product.Rating = *input.Rating
	}
	if input.Reviews != nil {
		product.Reviews = *input.Reviews
	}

	return product
}

// UpdateProduct merges update into the product. An unknown id is ignored.
func (s *catalogStore) UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	changed, err := s.update(ctx, id, update)
	if err != nil || !changed {
		return err
	}
	s.notify()
	return nil
}

func (s *catalogStore) update(ctx context.Context, id int64, update domain.ProductUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByProductID(s.products, id)
	if idx < 0 {
		s.logger.Debug("Update for unknown product", zap.Int64("product_id", id))
		return false, nil
	}

	products := cloneProducts(s.products)
	products[idx] = products[idx].Clone()
	products[idx].Apply(update)

	if err := s.storage.Save(ctx, storage.KeyProducts, products); err != nil {
		return false, err
	}
	s.products = products

	s.logger.Info("Product updated", zap.Int64("product_id", id))
	return true, nil
}

// DeleteProduct removes the product. An unknown id is ignored.
func (s *catalogStore) DeleteProduct(ctx context.Context, id int64) error {
	changed, err := s.delete(ctx, id)
	if err != nil || !changed {
		return err
	}
	s.notify()
	return nil
}

func (s *catalogStore) delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByProductID(s.products, id)
	if idx < 0 {
		return false, nil
	}

	products := make([]domain.Product, 0, len(s.products)-1)
	products = append(products, s.products[:idx]...)
	products = append(products, s.products[idx+1:]...)

	if err := s.storage.Save(ctx, storage.KeyProducts, products); err != nil {
		return false, err
	}
	s.products = products

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return true, nil
}

// GetProductByID looks a product up by the textual id used in routes
func (s *catalogStore) GetProductByID(id string) (domain.Product, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return domain.Product{}, domain.ErrProductNotFound
	}

	product, ok := s.Product(parsed)
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (s *catalogStore) Product(id int64) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexByProductID(s.products, id)
	if idx < 0 {
		return domain.Product{}, false
	}
	return s.products[idx].Clone(), true
}

// Products returns a copy of the catalog in insertion order
func (s *catalogStore) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out
}

// Categories lists distinct categories in order of first appearance
func (s *catalogStore) Categories() []string {
	return s.distinct(func(p domain.Product) string { return p.Category })
}

// Brands lists distinct brands in order of first appearance
func (s *catalogStore) Brands() []string {
	return s.distinct(func(p domain.Product) string { return p.Brand })
}

func (s *catalogStore) distinct(field func(domain.Product) string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range s.products {
		v := field(p)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// MaxPrice returns the highest price in the catalog, 0 when it is empty
func (s *catalogStore) MaxPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var max float64
	for _, p := range s.products {
		if p.Price > max {
			max = p.Price
		}
	}
	return max
}

func cloneProducts(products []domain.Product) []domain.Product {
	return append(make([]domain.Product, 0, len(products)+1), products...)
}

func indexByProductID(products []domain.Product, id int64) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func maxProductID(products []domain.Product) int64 {
	var max int64
	for _, p := range products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}
