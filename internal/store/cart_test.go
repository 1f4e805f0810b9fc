package store

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/storage"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id int64, price float64) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product",
		Category: "Mobile",
		Brand:    "Acme",
		Price:    price,
		Images:   []string{"https://img.example.com/p.jpg"},
		InStock:  true,
		Rating:   domain.DefaultRating,
	}
}

func TestProperty_AddingTwiceSumsQuantities(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("two adds of the same product make one line", prop.ForAll(
		func(a, b int) bool {
			ctx := context.Background()
			s := newTestCartStore(storage.NewMemoryBackend())
			p := testProduct(42, 10)

			if err := s.AddToCart(ctx, p, a); err != nil {
				return false
			}
			if err := s.AddToCart(ctx, p, b); err != nil {
				return false
			}

			lines := s.Lines()
			return len(lines) == 1 && lines[0].Quantity == a+b && s.GetCartItemsCount() == a+b
		},
		gen.IntRange(1, 100),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_NonPositiveQuantityRemovesLine(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("updating to zero or less removes the line", prop.ForAll(
		func(qty int) bool {
			ctx := context.Background()
			s := newTestCartStore(storage.NewMemoryBackend())

			if err := s.AddToCart(ctx, testProduct(1, 5), 2); err != nil {
				return false
			}
			if err := s.AddToCart(ctx, testProduct(2, 5), 1); err != nil {
				return false
			}
			if err := s.UpdateQuantity(ctx, 1, qty); err != nil {
				return false
			}

			lines := s.Lines()
			return len(lines) == 1 && lines[0].ID == 2
		},
		gen.IntRange(-1000, 0),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCart_TotalsAndCount(t *testing.T) {
	ctx := context.Background()
	s := newTestCartStore(storage.NewMemoryBackend())

	require.NoError(t, s.AddToCart(ctx, testProduct(1, 10), 2))
	require.NoError(t, s.AddToCart(ctx, testProduct(2, 5), 1))

	assert.Equal(t, 25.0, s.GetCartTotal())
	assert.Equal(t, 3, s.GetCartItemsCount())
}

func TestCart_AddKeepsFirstSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newTestCartStore(storage.NewMemoryBackend())

	p := testProduct(1, 10)
	require.NoError(t, s.AddToCart(ctx, p, 1))

	p.Price = 99
	p.Images[0] = "mutated"
	require.NoError(t, s.AddToCart(ctx, p, 1))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 10.0, lines[0].Price)
	assert.Equal(t, "https://img.example.com/p.jpg", lines[0].Images[0])
	assert.Equal(t, 20.0, s.GetCartTotal())
}

func TestCart_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	s := newTestCartStore(storage.NewMemoryBackend())

	for _, qty := range []int{0, -1} {
		err := s.AddToCart(ctx, testProduct(1, 10), qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Empty(t, s.Lines())
}

func TestCart_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	backend := newFlakyBackend()
	s := newTestCartStore(backend)
	listener, calls := counter()
	s.Subscribe(listener)

	require.NoError(t, s.AddToCart(ctx, testProduct(1, 10), 1))
	require.NoError(t, s.UpdateQuantity(ctx, 1, 500))
	assert.Equal(t, 500, s.GetCartItemsCount())

	writes := backend.writes(storage.KeyCart)
	require.NoError(t, s.UpdateQuantity(ctx, 7, 3))
	require.NoError(t, s.RemoveFromCart(ctx, 7))
	assert.Equal(t, writes, backend.writes(storage.KeyCart))
	assert.Equal(t, 2, calls())
}

func TestCart_ClearAndPersistence(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	s := newTestCartStore(backend)

	require.NoError(t, s.AddToCart(ctx, testProduct(1, 10), 2))
	require.NoError(t, s.AddToCart(ctx, testProduct(2, 5), 1))

	reloaded := newTestCartStore(backend)
	assert.Equal(t, s.Lines(), reloaded.Lines())

	require.NoError(t, reloaded.ClearCart(ctx))
	assert.Empty(t, reloaded.Lines())
	assert.Zero(t, reloaded.GetCartTotal())
	assert.Empty(t, newTestCartStore(backend).Lines())
}

func TestCart_WriteFailureKeepsLines(t *testing.T) {
	ctx := context.Background()
	backend := newFlakyBackend()
	s := newTestCartStore(backend)
	listener, calls := counter()
	s.Subscribe(listener)

	require.NoError(t, s.AddToCart(ctx, testProduct(1, 10), 1))

	backend.failOn(storage.KeyCart)
	assert.Error(t, s.AddToCart(ctx, testProduct(1, 10), 1))
	assert.Error(t, s.ClearCart(ctx))

	assert.Equal(t, 1, s.GetCartItemsCount())
	assert.Equal(t, 1, calls())
}

func TestCart_MalformedStorageStartsEmpty(t *testing.T) {
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), storage.KeyCart, []byte("[{")))

	assert.Empty(t, newTestCartStore(backend).Lines())
}

func TestCart_HydrationRepairsLines(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	st := storage.New(backend, nil)
	require.NoError(t, st.Save(ctx, storage.KeyCart, []domain.CartLine{
		{Product: testProduct(1, 10), Quantity: 2},
		{Product: testProduct(2, 5), Quantity: 0},
		{Product: testProduct(1, 99), Quantity: 3},
		{Product: testProduct(3, 4), Quantity: -1},
	}))

	lines := newTestCartStore(backend).Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 10.0, lines[0].Price)
}

func TestCart_RemoveOrdered(t *testing.T) {
	ctx := context.Background()
	backend := newFlakyBackend()
	s := newTestCartStore(backend)

	require.NoError(t, s.AddToCart(ctx, testProduct(1, 10), 2))
	require.NoError(t, s.AddToCart(ctx, testProduct(2, 5), 1))
	ordered := s.Lines()

	require.NoError(t, s.AddToCart(ctx, testProduct(1, 10), 1))
	require.NoError(t, s.AddToCart(ctx, testProduct(3, 7), 4))

	listener, calls := counter()
	s.Subscribe(listener)
	require.NoError(t, s.RemoveOrdered(ctx, ordered))

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, int64(3), lines[1].ID)
	assert.Equal(t, 4, lines[1].Quantity)
	assert.Equal(t, 1, calls())

	writes := backend.writes(storage.KeyCart)
	require.NoError(t, s.RemoveOrdered(ctx, []domain.CartLine{{Product: testProduct(9, 1), Quantity: 1}}))
	assert.Equal(t, writes, backend.writes(storage.KeyCart))
	assert.Equal(t, 1, calls())
}
