package store

import (
	"context"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/storage"

	"go.uber.org/zap"
)

// WishlistStore owns the set of saved products
type WishlistStore interface {
	AddToWishlist(ctx context.Context, product domain.Product) error
	RemoveFromWishlist(ctx context.Context, productID int64) error
	ToggleWishlist(ctx context.Context, product domain.Product) (bool, error)
	IsInWishlist(productID int64) bool
	WishlistCount() int
	Items() []domain.Product
	Subscribe(fn Listener) (unsubscribe func())
}

type wishlistStore struct {
	observers

	mu      sync.Mutex
	storage *storage.Store
	logger  *zap.Logger
	items   []domain.Product
}

func NewWishlistStore(ctx context.Context, st *storage.Store, logger *zap.Logger) WishlistStore {
	s := &wishlistStore{
		storage: st,
		logger:  logger.Named("wishlist"),
	}

	var items []domain.Product
	if st.Load(ctx, storage.KeyWishlist, &items) {
		s.items = dedupeProducts(items)
	}
	return s
}

// dedupeProducts keeps the first entry for every product id
func dedupeProducts(items []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if indexByProductID(out, p.ID) < 0 {
			out = append(out, p)
		}
	}
	return out
}

// AddToWishlist saves a snapshot of product. Saving it twice is a no-op.
func (s *wishlistStore) AddToWishlist(ctx context.Context, product domain.Product) error {
	_, err := s.set(ctx, product, func(present bool) bool { return true })
	return err
}

func (s *wishlistStore) RemoveFromWishlist(ctx context.Context, productID int64) error {
	_, err := s.set(ctx, domain.Product{ID: productID}, func(present bool) bool { return false })
	return err
}

// ToggleWishlist flips membership of product and reports whether it is now
// in the wishlist
func (s *wishlistStore) ToggleWishlist(ctx context.Context, product domain.Product) (bool, error) {
	return s.set(ctx, product, func(present bool) bool { return !present })
}

// set decides the membership of product from its current membership and
// persists the change, if any
func (s *wishlistStore) set(ctx context.Context, product domain.Product, want func(present bool) bool) (bool, error) {
	s.mu.Lock()
	idx := indexByProductID(s.items, product.ID)
	present := idx >= 0
	member := want(present)
	if member == present {
		s.mu.Unlock()
		return member, nil
	}

	var next []domain.Product
	if member {
		next = append(cloneProducts(s.items), product.Clone())
	} else {
		next = make([]domain.Product, 0, len(s.items)-1)
		next = append(next, s.items[:idx]...)
		next = append(next, s.items[idx+1:]...)
	}

	if err := s.storage.Save(ctx, storage.KeyWishlist, next); err != nil {
		s.mu.Unlock()
		return present, err
	}
	s.items = next
	s.mu.Unlock()

	s.logger.Debug("Wishlist changed", zap.Int64("product_id", product.ID), zap.Bool("in_wishlist", member))
	s.notify()
	return member, nil
}

func (s *wishlistStore) IsInWishlist(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexByProductID(s.items, productID) >= 0
}

func (s *wishlistStore) WishlistCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *wishlistStore) Items() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Product, len(s.items))
	for i, p := range s.items {
		out[i] = p.Clone()
	}
	return out
}
