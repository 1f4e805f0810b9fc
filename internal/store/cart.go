package store

import (
	"context"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/storage"

	"go.uber.org/zap"
)

// CartStore owns the shopping cart lines
type CartStore interface {
	AddToCart(ctx context.Context, product domain.Product, quantity int) error
	UpdateQuantity(ctx context.Context, productID int64, quantity int) error
	RemoveFromCart(ctx context.Context, productID int64) error
	ClearCart(ctx context.Context) error
	RemoveOrdered(ctx context.Context, ordered []domain.CartLine) error
	GetCartTotal() float64
	GetCartItemsCount() int
	Lines() []domain.CartLine
	Subscribe(fn Listener) (unsubscribe func())
}

type cartStore struct {
	observers

	mu      sync.Mutex
	storage *storage.Store
	logger  *zap.Logger
	lines   []domain.CartLine
}

// NewCartStore hydrates the cart from st. A missing or malformed cart starts
// empty.
func NewCartStore(ctx context.Context, st *storage.Store, logger *zap.Logger) CartStore {
	s := &cartStore{
		storage: st,
		logger:  logger.Named("cart"),
	}

	var lines []domain.CartLine
	if st.Load(ctx, storage.KeyCart, &lines) {
		s.lines = normalizeLines(lines)
	}
	return s
}

// normalizeLines merges lines sharing a product id into the first one and drops
// lines without a positive quantity
func normalizeLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if idx := indexByLineID(out, l.ID); idx >= 0 {
			out[idx].Quantity += l.Quantity
			continue
		}
		out = append(out, l)
	}
	return out
}

// AddToCart adds quantity of product. A product already in the cart keeps its
// original snapshot and only has its quantity increased.
func (s *cartStore) AddToCart(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	err := s.mutate(ctx, func(lines []domain.CartLine) ([]domain.CartLine, bool) {
		if idx := indexByLineID(lines, product.ID); idx >= 0 {
			lines[idx].Quantity += quantity
			return lines, true
		}
		return append(lines, domain.CartLine{Product: product.Clone(), Quantity: quantity}), true
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Added to cart", zap.Int64("product_id", product.ID), zap.Int("quantity", quantity))
	return nil
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it and an
// unknown product is ignored.
func (s *cartStore) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}

	return s.mutate(ctx, func(lines []domain.CartLine) ([]domain.CartLine, bool) {
		idx := indexByLineID(lines, productID)
		if idx < 0 {
			return lines, false
		}
		lines[idx].Quantity = quantity
		return lines, true
	})
}

func (s *cartStore) RemoveFromCart(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(lines []domain.CartLine) ([]domain.CartLine, bool) {
		idx := indexByLineID(lines, productID)
		if idx < 0 {
			return lines, false
		}
		return append(lines[:idx], lines[idx+1:]...), true
	})
}

func (s *cartStore) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, func([]domain.CartLine) ([]domain.CartLine, bool) {
		return []domain.CartLine{}, true
	})
}

// RemoveOrdered takes the quantities of ordered out of the cart. Lines that
// reach zero are removed; anything added after the order was taken stays.
func (s *cartStore) RemoveOrdered(ctx context.Context, ordered []domain.CartLine) error {
	return s.mutate(ctx, func(lines []domain.CartLine) ([]domain.CartLine, bool) {
		changed := false
		for _, o := range ordered {
			idx := indexByLineID(lines, o.ID)
			if idx < 0 || o.Quantity <= 0 {
				continue
			}
			changed = true
			if lines[idx].Quantity <= o.Quantity {
				lines = append(lines[:idx], lines[idx+1:]...)
				continue
			}
			lines[idx].Quantity -= o.Quantity
		}
		return lines, changed
	})
}

// mutate runs fn on a copy of the lines and installs the result once it is
// persisted. fn reports whether anything changed.
func (s *cartStore) mutate(ctx context.Context, fn func([]domain.CartLine) ([]domain.CartLine, bool)) error {
	s.mu.Lock()
	next, changed := fn(append([]domain.CartLine(nil), s.lines...))
	if !changed {
		s.mu.Unlock()
		return nil
	}

	if err := s.storage.Save(ctx, storage.KeyCart, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.lines = next
	s.mu.Unlock()

	s.notify()
	return nil
}

// GetCartTotal returns the sum of price times quantity over all lines
func (s *cartStore) GetCartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// GetCartItemsCount returns the sum of quantities over all lines
func (s *cartStore) GetCartItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

func (s *cartStore) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartLine, len(s.lines))
	for i, l := range s.lines {
		out[i] = domain.CartLine{Product: l.Product.Clone(), Quantity: l.Quantity}
	}
	return out
}

func indexByLineID(lines []domain.CartLine, id int64) int {
	for i, l := range lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}
